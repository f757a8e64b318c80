package ai

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/yoockh/skillproctor/internal/models"
)

type Highlight struct {
	Question string  `json:"q"`
	Score    float64 `json:"score"`
}

// NarrativeInput is the stage summary the report narrative is written from.
type NarrativeInput struct {
	Name   string
	Skills []string

	MCQCorrect, MCQTotal int
	MCQScore             float64
	MCQPassed            bool

	CodingAttempted, CodingTotal int
	CodingScore                  float64
	CodingPassed                 bool

	InterviewScore                    float64
	InterviewAnswered, InterviewTotal int
	InterviewPassed                   bool
	Highlights                        []Highlight

	Proctoring models.ProctoringSummary
}

func (g *Generator) Narrative(ctx context.Context, in NarrativeInput) (models.Narrative, bool) {
	return GenerateOrFallback(ctx, g, PurposeReport, reportRequest(in),
		decodeNarrative,
		FallbackNarrative,
	)
}

func decodeNarrative(text string) (models.Narrative, error) {
	raw, ok := Extract(text, ObjectShape)
	if !ok {
		return models.Narrative{}, errors.New("no json object in response")
	}
	if err := Validate("report_narrative", raw); err != nil {
		return models.Narrative{}, err
	}
	var n models.Narrative
	if err := json.Unmarshal(raw, &n); err != nil {
		return models.Narrative{}, err
	}
	return n, nil
}

func FallbackNarrative() models.Narrative {
	return models.Narrative{
		OverallRating:       "Average",
		Summary:             "Report generation encountered an issue. Please review individual test results.",
		Strengths:           []string{},
		AreasForImprovement: []string{},
		SkillAssessment:     map[string]float64{},
		Recommendation:      "Manual review recommended.",
		InterviewHighlights: []string{},
		Concerns:            []string{},
		SuggestedRoleFit:    []string{},
	}
}
