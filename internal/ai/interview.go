package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/yoockh/skillproctor/internal/models"
)

// QuestionContext is everything the next interview question may depend on.
type QuestionContext struct {
	Profile models.Profile
	History []models.QAItem // most recent answered turns, oldest first
	Number  int             // 1-based
	Total   int
}

func (g *Generator) InterviewQuestion(ctx context.Context, qc QuestionContext) (models.QAItem, bool) {
	return GenerateOrFallback(ctx, g, PurposeInterviewQuestion, interviewRequest(qc),
		decodeQuestion,
		func() models.QAItem { return FallbackQuestion(qc.Profile.Skills, qc.Number) },
	)
}

func decodeQuestion(text string) (models.QAItem, error) {
	raw, ok := Extract(text, ObjectShape)
	if !ok {
		return models.QAItem{}, errors.New("no json object in response")
	}
	if err := Validate("interview_question", raw); err != nil {
		return models.QAItem{}, err
	}
	var q models.QAItem
	if err := json.Unmarshal(raw, &q); err != nil {
		return models.QAItem{}, err
	}
	// answer fields belong to the candidate, never to the generator
	q.Answer, q.Score, q.Evaluation = nil, nil, nil
	if q.Difficulty == "" {
		q.Difficulty = "medium"
	}
	return q, nil
}

// FallbackQuestion cycles through the skill list by question number.
func FallbackQuestion(skills []string, number int) models.QAItem {
	skill := "software engineering"
	if len(skills) > 0 {
		i := number - 1
		if i < 0 {
			i = 0
		}
		skill = skills[i%len(skills)]
	}
	return models.QAItem{
		Question:          fmt.Sprintf("Can you explain your experience with %s and describe a project where you used it?", skill),
		Category:          skill,
		Difficulty:        "medium",
		ExpectedKeyPoints: []string{"Technical depth", "Practical experience", "Problem-solving approach"},
		FollowUpContext:   "Fallback question",
	}
}

func (g *Generator) EvaluateAnswer(ctx context.Context, item models.QAItem, answer string) (models.Evaluation, bool) {
	return GenerateOrFallback(ctx, g, PurposeInterviewEval, evaluationRequest(item, answer),
		decodeEvaluation,
		FallbackEvaluation,
	)
}

func decodeEvaluation(text string) (models.Evaluation, error) {
	raw, ok := Extract(text, ObjectShape)
	if !ok {
		return models.Evaluation{}, errors.New("no json object in response")
	}
	if err := Validate("interview_evaluation", raw); err != nil {
		return models.Evaluation{}, err
	}
	var e models.Evaluation
	if err := json.Unmarshal(raw, &e); err != nil {
		return models.Evaluation{}, err
	}
	e.Score = ClampScore(e.Score)
	return e, nil
}

// FallbackEvaluation is the neutral mid-range verdict.
func FallbackEvaluation() models.Evaluation {
	return models.Evaluation{
		Score:            5,
		Feedback:         "Answer received. Unable to perform detailed evaluation.",
		Strengths:        []string{},
		Weaknesses:       []string{},
		KeyPointsCovered: []string{},
		Suggestion:       "Try to provide more detailed technical explanations.",
	}
}

func ClampScore(s float64) float64 {
	switch {
	case s < 0:
		return 0
	case s > 10:
		return 10
	}
	return s
}
