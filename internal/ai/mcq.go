package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/yoockh/skillproctor/internal/models"
)

// MCQQuestions returns exactly the valid generated questions, renumbered
// from 1, or the templated fallback set.
func (g *Generator) MCQQuestions(ctx context.Context, skills []string, count int) ([]models.Question, bool) {
	return GenerateOrFallback(ctx, g, PurposeMCQ, mcqRequest(skills, count),
		decodeMCQ,
		func() []models.Question { return FallbackMCQ(skills, count) },
	)
}

func decodeMCQ(text string) ([]models.Question, error) {
	raw, ok := Extract(text, ArrayShape)
	if !ok {
		return nil, errors.New("no json array in response")
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}

	out := make([]models.Question, 0, len(items))
	for _, item := range items {
		if Validate("mcq_question", item) != nil {
			continue
		}
		var q models.Question
		if err := json.Unmarshal(item, &q); err != nil {
			continue
		}
		q.ID = len(out) + 1
		q.Options = q.Options[:4]
		if q.Difficulty == "" {
			q.Difficulty = "medium"
		}
		out = append(out, q)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("none of %d generated questions were usable", len(items))
	}
	return out, nil
}

// FallbackMCQ yields min(count, 2*len(skills)) templated questions, at
// least one.
func FallbackMCQ(skills []string, count int) []models.Question {
	if len(skills) == 0 {
		skills = []string{"general programming"}
	}
	n := count
	if m := 2 * len(skills); n > m {
		n = m
	}
	if n < 1 {
		n = 1
	}

	out := make([]models.Question, 0, n)
	for i := 0; i < n; i++ {
		skill := skills[i%len(skills)]
		out = append(out, models.Question{
			ID:         i + 1,
			Question:   fmt.Sprintf("Which of the following best describes %s?", skill),
			Skill:      skill,
			Difficulty: "easy",
			Options: []string{
				fmt.Sprintf("A programming concept related to %s", skill),
				fmt.Sprintf("A framework built on %s", skill),
				fmt.Sprintf("A design pattern used in %s", skill),
				fmt.Sprintf("A tool used alongside %s", skill),
			},
			CorrectAnswer: 0,
			Explanation:   fmt.Sprintf("This is a fundamental concept in %s.", skill),
		})
	}
	return out
}
