package models

import (
	"time"

	"gorm.io/datatypes"
)

type OverallStatus string

const (
	OverallPassed  OverallStatus = "passed"
	OverallPartial OverallStatus = "partial"
	OverallFailed  OverallStatus = "failed"
)

// Narrative is the generated (or fallback) write-up attached to a report.
type Narrative struct {
	OverallRating       string             `json:"overall_rating"`
	Summary             string             `json:"summary"`
	Strengths           []string           `json:"strengths"`
	AreasForImprovement []string           `json:"areas_for_improvement"`
	SkillAssessment     map[string]float64 `json:"skill_assessment"`
	Recommendation      string             `json:"recommendation"`
	InterviewHighlights []string           `json:"interview_highlights"`
	Concerns            []string           `json:"concerns"`
	SuggestedRoleFit    []string           `json:"suggested_role_fit"`
}

type ProctoringSummary struct {
	TotalViolations int            `json:"total_violations"`
	TabSwitches     int            `json:"tab_switches"`
	FaceNotDetected int            `json:"face_not_detected"`
	PhoneDetected   int            `json:"phone_detected"`
	EyeViolations   int            `json:"eye_violations"`
	BySeverity      map[string]int `json:"by_severity"`
}

type Report struct {
	ID          string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	CandidateID string `gorm:"column:candidate_id;type:uuid;uniqueIndex;not null" json:"candidate_id"`

	MCQScore        float64 `gorm:"column:mcq_score" json:"mcq_score"`
	MCQPassed       bool    `gorm:"column:mcq_passed" json:"mcq_passed"`
	CodingScore     float64 `gorm:"column:coding_score" json:"coding_score"`
	CodingPassed    bool    `gorm:"column:coding_passed" json:"coding_passed"`
	Test1Passed     bool    `gorm:"column:test1_passed" json:"test1_passed"`
	InterviewScore  float64 `gorm:"column:interview_score" json:"interview_score"`
	InterviewPassed bool    `gorm:"column:interview_passed" json:"interview_passed"`

	OverallStatus     OverallStatus                         `gorm:"column:overall_status;type:text" json:"overall_status"`
	DetailedFeedback  datatypes.JSONType[Narrative]         `gorm:"column:detailed_feedback;type:jsonb" json:"detailed_feedback"`
	ProctoringSummary datatypes.JSONType[ProctoringSummary] `gorm:"column:proctoring_summary;type:jsonb" json:"proctoring_summary"`

	GeneratedAt time.Time `gorm:"column:generated_at;type:timestamptz" json:"generated_at"`

	Candidate *Candidate `gorm:"foreignKey:CandidateID" json:"candidate,omitempty"`
}

func (Report) TableName() string { return "reports" }
