package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

type TestCase struct {
	Input          string `json:"input"`
	ExpectedOutput string `json:"expected_output"`
}

// UnmarshalJSON also accepts "output", which some generations use instead
// of "expected_output".
func (t *TestCase) UnmarshalJSON(b []byte) error {
	var raw struct {
		Input          string  `json:"input"`
		ExpectedOutput *string `json:"expected_output"`
		Output         *string `json:"output"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	t.Input = raw.Input
	switch {
	case raw.ExpectedOutput != nil:
		t.ExpectedOutput = *raw.ExpectedOutput
	case raw.Output != nil:
		t.ExpectedOutput = *raw.Output
	}
	return nil
}

type Problem struct {
	ID               int        `json:"id"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	Difficulty       string     `json:"difficulty"`
	SkillsTested     []string   `json:"skills_tested"`
	InputFormat      string     `json:"input_format"`
	OutputFormat     string     `json:"output_format"`
	SampleInput      string     `json:"sample_input"`
	SampleOutput     string     `json:"sample_output"`
	TestCases        []TestCase `json:"test_cases"`
	TimeLimitSeconds int        `json:"time_limit_seconds"`
	Hints            []string   `json:"hints"`
}

// Public keeps the first test case visible and hides the rest.
func (p Problem) Public() Problem {
	out := p
	if len(p.TestCases) > 1 {
		out.TestCases = append([]TestCase(nil), p.TestCases[:1]...)
	}
	return out
}

type CaseOutcome string

const (
	OutcomePass         CaseOutcome = "pass"
	OutcomeFail         CaseOutcome = "fail"
	OutcomeRuntimeError CaseOutcome = "runtime_error"
	OutcomeTimeout      CaseOutcome = "timeout"
)

type CaseResult struct {
	TestCase int         `json:"test_case"`
	Outcome  CaseOutcome `json:"outcome"`
	Passed   bool        `json:"passed"`
	Input    string      `json:"input"`
	Expected string      `json:"expected"`
	Actual   string      `json:"actual"`
	Error    string      `json:"error,omitempty"`
}

type Submission struct {
	Code        string       `json:"code"`
	Language    string       `json:"language"`
	Results     []CaseResult `json:"results"`
	PassedCount int          `json:"passed_count"`
	TotalCount  int          `json:"total_count"`
	SubmittedAt time.Time    `json:"submitted_at"`
}

func (s Submission) AllPassed() bool {
	return s.TotalCount > 0 && s.PassedCount == s.TotalCount
}

// Submissions maps problem id (as a JSON object key) to the latest submission.
type Submissions map[string]Submission

type CodingSession struct {
	ID           string  `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	CandidateID  string  `gorm:"column:candidate_id;type:uuid;index;not null" json:"candidate_id"`
	MCQSessionID *string `gorm:"column:mcq_session_id;type:uuid" json:"mcq_session_id"`

	Problems    datatypes.JSONSlice[Problem]    `gorm:"column:problems;type:jsonb" json:"problems"`
	Submissions datatypes.JSONType[Submissions] `gorm:"column:submissions;type:jsonb" json:"submissions"`

	Score        float64       `gorm:"column:score;default:0" json:"score"`
	TotalMarks   int           `gorm:"column:total_marks" json:"total_marks"`
	PassingScore float64       `gorm:"column:passing_score" json:"passing_score"`
	Status       SessionStatus `gorm:"column:status;type:text;default:pending" json:"status"`

	StartTime *time.Time `gorm:"column:start_time;type:timestamptz" json:"start_time"`
	EndTime   *time.Time `gorm:"column:end_time;type:timestamptz" json:"end_time"`
	CreatedAt time.Time  `gorm:"column:created_at;type:timestamptz;index" json:"created_at"`
}

func (CodingSession) TableName() string { return "coding_sessions" }
