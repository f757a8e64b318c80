// Package interview drives the adaptive question/answer loop over an
// InterviewSession held in memory. Persistence is the caller's job.
package interview

import (
	"context"
	"errors"
	"time"

	"github.com/yoockh/skillproctor/internal/ai"
	"github.com/yoockh/skillproctor/internal/models"
	"github.com/yoockh/skillproctor/internal/testsession"
)

var (
	ErrNotInProgress = errors.New("interview is not in progress")
	ErrNoQuestion    = errors.New("no open question")
)

// QuestionSource generates questions and scores answers. Both calls must
// always return a usable value.
type QuestionSource interface {
	InterviewQuestion(ctx context.Context, qc ai.QuestionContext) (models.QAItem, bool)
	EvaluateAnswer(ctx context.Context, item models.QAItem, answer string) (models.Evaluation, bool)
}

type Config struct {
	TotalQuestions int
	PassingScore   float64
	ContextWindow  int
}

func DefaultConfig() Config {
	return Config{TotalQuestions: 10, PassingScore: 1, ContextWindow: 3}
}

type Loop struct {
	src QuestionSource
	cfg Config
	now func() time.Time
}

func NewLoop(src QuestionSource, cfg Config) *Loop {
	def := DefaultConfig()
	if cfg.TotalQuestions <= 0 {
		cfg.TotalQuestions = def.TotalQuestions
	}
	if cfg.ContextWindow <= 0 {
		cfg.ContextWindow = def.ContextWindow
	}
	return &Loop{src: src, cfg: cfg, now: time.Now}
}

// Turn is the outcome of one answered question.
type Turn struct {
	Evaluation models.Evaluation `json:"evaluation"`
	Score      float64           `json:"score"`
	Next       *models.QAItem    `json:"next_question,omitempty"`
	Number     int               `json:"question_number"`
	Completed  bool              `json:"completed"`
	AvgScore   float64           `json:"avg_score,omitempty"`
	Passed     bool              `json:"passed,omitempty"`
}

// Current returns the open question, generating it if the cursor has moved
// past the generated items. A resumed interview gets the same question back.
func (l *Loop) Current(ctx context.Context, s *models.InterviewSession, p models.Profile) (models.QAItem, error) {
	if s.Status != models.SessionInProgress {
		return models.QAItem{}, ErrNotInProgress
	}
	if s.CurrentIndex < len(s.Items) {
		return s.Items[s.CurrentIndex], nil
	}
	q := l.next(ctx, s, p)
	return q, nil
}

// Answer records the answer to the open question, scores it, and either
// generates the next question or closes the session.
func (l *Loop) Answer(ctx context.Context, s *models.InterviewSession, p models.Profile, answer string) (Turn, error) {
	if s.Status != models.SessionInProgress {
		return Turn{}, ErrNotInProgress
	}
	if s.CurrentIndex >= len(s.Items) || s.CurrentIndex >= l.total(s) {
		return Turn{}, ErrNoQuestion
	}

	item := s.Items[s.CurrentIndex]
	eval, _ := l.src.EvaluateAnswer(ctx, item, answer)
	eval.Score = ai.ClampScore(eval.Score)

	ans, score := answer, eval.Score
	item.Answer, item.Score, item.Evaluation = &ans, &score, &eval
	s.Items[s.CurrentIndex] = item
	s.CurrentIndex++

	turn := Turn{Evaluation: eval, Score: score, Number: s.CurrentIndex}
	if s.CurrentIndex >= l.total(s) {
		avg := AverageScore(s.Items)
		passed := avg >= l.passing(s)
		s.OverallScore = avg
		testsession.ApplyInterview(s, testsession.Close(testsession.InterviewWindow(s), l.now(), models.PassFail(passed)))
		turn.Completed, turn.AvgScore, turn.Passed = true, avg, passed
		return turn, nil
	}

	q := l.next(ctx, s, p)
	turn.Next = &q
	return turn, nil
}

func (l *Loop) next(ctx context.Context, s *models.InterviewSession, p models.Profile) models.QAItem {
	q, _ := l.src.InterviewQuestion(ctx, ai.QuestionContext{
		Profile: p,
		History: Window(s.Items, l.cfg.ContextWindow),
		Number:  len(s.Items) + 1,
		Total:   l.total(s),
	})
	s.Items = append(s.Items, q)
	return q
}

func (l *Loop) total(s *models.InterviewSession) int {
	if s.TotalQuestions > 0 {
		return s.TotalQuestions
	}
	return l.cfg.TotalQuestions
}

func (l *Loop) passing(s *models.InterviewSession) float64 {
	if s.PassingScore > 0 {
		return s.PassingScore
	}
	return l.cfg.PassingScore
}

// Window returns up to n most recent answered items, oldest first.
func Window(items []models.QAItem, n int) []models.QAItem {
	var answered []models.QAItem
	for _, it := range items {
		if it.Answered() {
			answered = append(answered, it)
		}
	}
	if len(answered) > n {
		answered = answered[len(answered)-n:]
	}
	return answered
}

// AverageScore is the mean over answered items, 0 when none are.
func AverageScore(items []models.QAItem) float64 {
	var sum float64
	var n int
	for _, it := range items {
		if it.Score != nil {
			sum += *it.Score
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// Answered counts items with a recorded answer.
func Answered(items []models.QAItem) int {
	n := 0
	for _, it := range items {
		if it.Answered() {
			n++
		}
	}
	return n
}
