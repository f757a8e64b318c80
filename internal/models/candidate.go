package models

import (
	"time"

	"github.com/lib/pq"
	"github.com/yoockh/skillproctor/internal/stage"
	"gorm.io/datatypes"
)

type Candidate struct {
	ID    string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name  string `gorm:"column:name;type:text" json:"name"`
	Email string `gorm:"column:email;type:text;uniqueIndex;not null" json:"email"`
	Phone string `gorm:"column:phone;type:text" json:"phone"`

	ResumePath string `gorm:"column:resume_path;type:text" json:"resume_path"`
	ResumeText string `gorm:"column:resume_text;type:text" json:"-"`

	Skills          pq.StringArray    `gorm:"column:skills;type:text[]" json:"skills"`
	GithubURL       string            `gorm:"column:github_url;type:text" json:"github_url"`
	LinkedinURL     string            `gorm:"column:linkedin_url;type:text" json:"linkedin_url"`
	CodingPlatforms datatypes.JSONMap `gorm:"column:coding_platforms;type:jsonb" json:"coding_platforms"`

	SQLPassed bool `gorm:"column:sql_passed;default:false" json:"sql_passed"`

	// Plain text column; only stage.Next decides what goes in here.
	Status stage.Status `gorm:"column:status;type:text;index;default:pending" json:"status"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamptz" json:"updated_at"`

	MCQSessions       []MCQSession       `gorm:"foreignKey:CandidateID;constraint:OnDelete:CASCADE" json:"-"`
	CodingSessions    []CodingSession    `gorm:"foreignKey:CandidateID;constraint:OnDelete:CASCADE" json:"-"`
	InterviewSessions []InterviewSession `gorm:"foreignKey:CandidateID;constraint:OnDelete:CASCADE" json:"-"`
	Report            *Report            `gorm:"foreignKey:CandidateID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Candidate) TableName() string { return "candidates" }

// Profile is what the question generators see of a candidate.
type Profile struct {
	Name            string
	Skills          []string
	ResumeText      string
	GithubURL       string
	LinkedinURL     string
	CodingPlatforms map[string]any
}

func (c *Candidate) Profile() Profile {
	return Profile{
		Name:            c.Name,
		Skills:          []string(c.Skills),
		ResumeText:      c.ResumeText,
		GithubURL:       c.GithubURL,
		LinkedinURL:     c.LinkedinURL,
		CodingPlatforms: map[string]any(c.CodingPlatforms),
	}
}
