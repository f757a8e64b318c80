// Package grading scores MCQ answers, judges code against test cases and
// checks SQL result equivalence. Nothing here touches storage.
package grading

import (
	"strconv"

	"github.com/yoockh/skillproctor/internal/models"
)

type MCQResult struct {
	Correct int     `json:"correct"`
	Total   int     `json:"total"`
	Score   float64 `json:"score"`
	Passed  bool    `json:"passed"`
}

// ScoreMCQ counts answers matching the key. Unanswered questions count as
// wrong; answers for unknown ids are ignored.
func ScoreMCQ(questions []models.Question, answers models.MCQAnswers, passingScore float64) MCQResult {
	res := MCQResult{Total: len(questions)}
	for _, q := range questions {
		if got, ok := answers[strconv.Itoa(q.ID)]; ok && got == q.CorrectAnswer {
			res.Correct++
		}
	}
	if res.Total > 0 {
		res.Score = 100 * float64(res.Correct) / float64(res.Total)
	}
	res.Passed = res.Score >= passingScore
	return res
}

// CodingScore is the share of problems with at least one submission.
func CodingScore(problems []models.Problem, subs models.Submissions) (submitted int, score float64) {
	for _, p := range problems {
		if _, ok := subs[strconv.Itoa(p.ID)]; ok {
			submitted++
		}
	}
	if len(problems) > 0 {
		score = 100 * float64(submitted) / float64(len(problems))
	}
	return submitted, score
}
