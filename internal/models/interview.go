package models

import (
	"time"

	"gorm.io/datatypes"
)

type Evaluation struct {
	Score            float64  `json:"score"`
	Feedback         string   `json:"feedback"`
	Strengths        []string `json:"strengths"`
	Weaknesses       []string `json:"weaknesses"`
	KeyPointsCovered []string `json:"key_points_covered"`
	Suggestion       string   `json:"suggestion"`
}

type QAItem struct {
	Question          string      `json:"question"`
	Category          string      `json:"category"`
	Difficulty        string      `json:"difficulty"`
	ExpectedKeyPoints []string    `json:"expected_key_points"`
	FollowUpContext   string      `json:"follow_up_context,omitempty"`
	Answer            *string     `json:"answer"`
	Score             *float64    `json:"score"`
	Evaluation        *Evaluation `json:"evaluation"`
}

func (q QAItem) Answered() bool { return q.Answer != nil && q.Score != nil }

type InterviewSession struct {
	ID          string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	CandidateID string `gorm:"column:candidate_id;type:uuid;index;not null" json:"candidate_id"`

	Items          datatypes.JSONSlice[QAItem] `gorm:"column:questions_answers;type:jsonb" json:"questions_answers"`
	CurrentIndex   int                         `gorm:"column:current_index;default:0" json:"current_index"`
	TotalQuestions int                         `gorm:"column:total_questions" json:"total_questions"`
	OverallScore   float64                     `gorm:"column:overall_score;default:0" json:"overall_score"`
	PassingScore   float64                     `gorm:"column:passing_score" json:"passing_score"`
	Status         SessionStatus               `gorm:"column:status;type:text;default:pending" json:"status"`
	ViolationCount int                         `gorm:"column:violation_count;default:0" json:"violation_count"`

	StartTime *time.Time `gorm:"column:start_time;type:timestamptz" json:"start_time"`
	EndTime   *time.Time `gorm:"column:end_time;type:timestamptz" json:"end_time"`
	CreatedAt time.Time  `gorm:"column:created_at;type:timestamptz;index" json:"created_at"`
}

func (InterviewSession) TableName() string { return "interview_sessions" }
