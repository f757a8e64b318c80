package models

import (
	"time"

	"gorm.io/datatypes"
)

type Question struct {
	ID            int      `json:"id"`
	Question      string   `json:"question"`
	Skill         string   `json:"skill"`
	Difficulty    string   `json:"difficulty"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correct_answer"`
	Explanation   string   `json:"explanation"`
}

// Public strips the answer key.
func (q Question) Public() PublicQuestion {
	return PublicQuestion{ID: q.ID, Question: q.Question, Skill: q.Skill, Difficulty: q.Difficulty, Options: q.Options}
}

type PublicQuestion struct {
	ID         int      `json:"id"`
	Question   string   `json:"question"`
	Skill      string   `json:"skill"`
	Difficulty string   `json:"difficulty"`
	Options    []string `json:"options"`
}

// MCQAnswers maps question id (as a JSON object key) to the chosen option.
type MCQAnswers map[string]int

type MCQSession struct {
	ID          string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	CandidateID string `gorm:"column:candidate_id;type:uuid;index;not null" json:"candidate_id"`

	Questions datatypes.JSONSlice[Question]  `gorm:"column:questions;type:jsonb" json:"questions"`
	Answers   datatypes.JSONType[MCQAnswers] `gorm:"column:answers;type:jsonb" json:"answers"`

	Score           float64       `gorm:"column:score;default:0" json:"score"`
	TotalMarks      int           `gorm:"column:total_marks" json:"total_marks"`
	PassingScore    float64       `gorm:"column:passing_score" json:"passing_score"`
	DurationMinutes int           `gorm:"column:duration_minutes" json:"duration_minutes"`
	Status          SessionStatus `gorm:"column:status;type:text;default:pending" json:"status"`
	Late            bool          `gorm:"column:late;default:false" json:"late"`
	ViolationCount  int           `gorm:"column:violation_count;default:0" json:"violation_count"`

	StartTime   *time.Time `gorm:"column:start_time;type:timestamptz" json:"start_time"`
	EndTime     *time.Time `gorm:"column:end_time;type:timestamptz" json:"end_time"`
	SubmittedAt *time.Time `gorm:"column:submitted_at;type:timestamptz" json:"submitted_at"`
	CreatedAt   time.Time  `gorm:"column:created_at;type:timestamptz;index" json:"created_at"`
}

func (MCQSession) TableName() string { return "mcq_sessions" }
