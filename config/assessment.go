package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Assessment holds the pipeline tunables. Thresholds are percentages for
// MCQ and coding, and a 0-10 average for the interview.
type Assessment struct {
	MCQQuestions           int           `yaml:"mcq_questions"`
	CodingProblems         int           `yaml:"coding_problems"`
	MCQDuration            time.Duration `yaml:"mcq_duration"`
	MCQPassingScore        float64       `yaml:"mcq_passing_score"`
	CodingPassingScore     float64       `yaml:"coding_passing_score"`
	CodingPointsPerProblem int           `yaml:"coding_points_per_problem"`
	InterviewQuestions     int           `yaml:"interview_questions"`
	InterviewPassingScore  float64       `yaml:"interview_passing_score"`
	ContextWindow          int           `yaml:"context_window"`
	JudgeTimeout           time.Duration `yaml:"judge_timeout"`
	GenerationTimeout      time.Duration `yaml:"generation_timeout"`
	SQLRowLimit            int           `yaml:"sql_row_limit"`
	SQLMaxRows             int           `yaml:"sql_max_rows"`
	PreviewLen             int           `yaml:"preview_len"`
	ErrPreviewLen          int           `yaml:"err_preview_len"`
	DashboardTTL           time.Duration `yaml:"dashboard_ttl"`
	LockTTL                time.Duration `yaml:"lock_ttl"`
	LockWait               time.Duration `yaml:"lock_wait"`
}

func DefaultAssessment() Assessment {
	return Assessment{
		MCQQuestions:           20,
		CodingProblems:         3,
		MCQDuration:            60 * time.Minute,
		MCQPassingScore:        10,
		CodingPassingScore:     10,
		CodingPointsPerProblem: 10,
		InterviewQuestions:     10,
		InterviewPassingScore:  1,
		ContextWindow:          3,
		JudgeTimeout:           10 * time.Second,
		GenerationTimeout:      120 * time.Second,
		SQLRowLimit:            100,
		SQLMaxRows:             10000,
		PreviewLen:             100,
		ErrPreviewLen:          200,
		DashboardTTL:           30 * time.Second,
		LockTTL:                10 * time.Minute,
		LockWait:               30 * time.Second,
	}
}

// LoadAssessment starts from the defaults, applies the YAML file named by
// ASSESSMENT_CONFIG (if any), then env overrides.
func LoadAssessment() (Assessment, error) {
	return loadAssessment(os.Getenv("ASSESSMENT_CONFIG"), os.Getenv)
}

func loadAssessment(path string, getenv func(string) string) (Assessment, error) {
	a := DefaultAssessment()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return a, fmt.Errorf("read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(b, &a); err != nil {
			return a, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	ints := map[string]*int{
		"MCQ_QUESTIONS":       &a.MCQQuestions,
		"CODING_PROBLEMS":     &a.CodingProblems,
		"INTERVIEW_QUESTIONS": &a.InterviewQuestions,
		"SQL_ROW_LIMIT":       &a.SQLRowLimit,
		"SQL_MAX_ROWS":        &a.SQLMaxRows,
	}
	for k, p := range ints {
		if v := getenv(k); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return a, fmt.Errorf("%s: %w", k, err)
			}
			*p = n
		}
	}
	floats := map[string]*float64{
		"MCQ_PASSING_SCORE":       &a.MCQPassingScore,
		"CODING_PASSING_SCORE":    &a.CodingPassingScore,
		"INTERVIEW_PASSING_SCORE": &a.InterviewPassingScore,
	}
	for k, p := range floats {
		if v := getenv(k); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return a, fmt.Errorf("%s: %w", k, err)
			}
			*p = f
		}
	}
	durations := map[string]*time.Duration{
		"MCQ_DURATION":  &a.MCQDuration,
		"JUDGE_TIMEOUT": &a.JudgeTimeout,
		"LLM_TIMEOUT":   &a.GenerationTimeout,
		"LOCK_TTL":      &a.LockTTL,
		"LOCK_WAIT":     &a.LockWait,
	}
	for k, p := range durations {
		if v := getenv(k); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				return a, fmt.Errorf("%s: %w", k, err)
			}
			*p = d
		}
	}
	return a, a.Validate()
}

func (a Assessment) Validate() error {
	switch {
	case a.MCQQuestions <= 0 || a.CodingProblems <= 0 || a.InterviewQuestions <= 0:
		return errors.New("question counts must be positive")
	case a.MCQPassingScore < 0 || a.MCQPassingScore > 100:
		return errors.New("mcq_passing_score must be within 0..100")
	case a.CodingPassingScore < 0 || a.CodingPassingScore > 100:
		return errors.New("coding_passing_score must be within 0..100")
	case a.InterviewPassingScore < 0 || a.InterviewPassingScore > 10:
		return errors.New("interview_passing_score must be within 0..10")
	case a.SQLRowLimit <= 0 || a.SQLMaxRows < a.SQLRowLimit:
		return errors.New("sql_max_rows must be at least sql_row_limit, and both positive")
	case a.JudgeTimeout <= 0:
		return errors.New("judge_timeout must be positive")
	case a.LockWait <= 0:
		return errors.New("lock_wait must be positive")
	case a.LockTTL <= 2*a.GenerationTimeout+a.JudgeTimeout:
		// an interview answer holds the lock across two generation calls
		return errors.New("lock_ttl must exceed two generation timeouts plus one judge timeout")
	case a.ContextWindow < 0:
		return errors.New("context_window must not be negative")
	}
	return nil
}
