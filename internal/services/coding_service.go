package services

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yoockh/skillproctor/internal/grading"
	"github.com/yoockh/skillproctor/internal/metrics"
	"github.com/yoockh/skillproctor/internal/models"
	"github.com/yoockh/skillproctor/internal/sandbox"
	"github.com/yoockh/skillproctor/internal/stage"
	"github.com/yoockh/skillproctor/internal/testsession"
	"github.com/yoockh/skillproctor/internal/utils"
	"gorm.io/datatypes"
)

// CodeJudge is satisfied by *grading.Judge.
type CodeJudge interface {
	Run(ctx context.Context, code, language string, cases []models.TestCase) models.Submission
	Timeout() time.Duration
}

// SQLJudge is satisfied by *grading.SQLJudge.
type SQLJudge interface {
	Run(ctx context.Context, query string) (*grading.QueryResult, error)
	Evaluate(ctx context.Context, userQuery, reference string) (*grading.SQLVerdict, error)
}

type CodingView struct {
	SessionID           string             `json:"test_id"`
	Problems            []models.Problem   `json:"problems"`
	ExistingSubmissions models.Submissions `json:"existing_submissions"`
	Languages           []string           `json:"languages"`
	StartTime           *time.Time         `json:"start_time"`
}

type SubmitCodeInput struct {
	SessionID string
	ProblemID int
	Code      string
	Language  string
}

type SubmitCodeResult struct {
	Results     []models.CaseResult `json:"test_results"`
	PassedCount int                 `json:"passed_count"`
	TotalCount  int                 `json:"total_count"`
	AllPassed   bool                `json:"all_passed"`
}

type FinishCodingResult struct {
	Score              float64 `json:"score"`
	Solved             int     `json:"solved"`
	Total              int     `json:"total"`
	Passed             bool    `json:"passed"`
	Test1Passed        bool    `json:"test1_fully_passed"`
	InterviewSessionID string  `json:"interview_id,omitempty"`
}

type RunCodeResult struct {
	Success   bool   `json:"success"`
	Output    string `json:"output"`
	Error     string `json:"error"`
	ElapsedMS int64  `json:"elapsed_ms"`
}

type CodingService interface {
	Start(ctx context.Context, candidateID, sessionID string) (*CodingView, error)
	Submit(ctx context.Context, candidateID string, in SubmitCodeInput) (*SubmitCodeResult, error)
	Finish(ctx context.Context, candidateID, sessionID string) (*FinishCodingResult, error)
	Run(ctx context.Context, code, language, stdin string) (*RunCodeResult, error)

	RunSQL(ctx context.Context, query string) (*grading.QueryResult, error)
	EvaluateSQL(ctx context.Context, query, reference string) (*grading.SQLVerdict, error)
	FinishSQL(ctx context.Context, candidateID string) error
}

type codingService struct {
	p     *Pipeline
	judge CodeJudge
	exec  sandbox.Executor
	sql   SQLJudge
}

func NewCodingService(p *Pipeline, judge CodeJudge, exec sandbox.Executor, sql SQLJudge) CodingService {
	return &codingService{p: p, judge: judge, exec: exec, sql: sql}
}

func (s *codingService) Start(ctx context.Context, candidateID, sessionID string) (*CodingView, error) {
	const op = "CodingService.Start"

	var view *CodingView
	err := s.p.locked(ctx, op, candidateID, func() error {
		sess, err := s.load(ctx, op, candidateID, sessionID)
		if err != nil {
			return err
		}

		w, started, err := testsession.Start(testsession.CodingWindow(sess), s.p.now(), 0)
		if errors.Is(err, testsession.ErrAlreadyCompleted) {
			return utils.E(utils.CodeConflict, op, "test already completed", err)
		}
		if started {
			testsession.ApplyCoding(sess, w)
			if err := s.saveAndAdvance(ctx, op, candidateID, sess, stage.EventCodingStarted); err != nil {
				return err
			}
		}

		view = &CodingView{
			SessionID:           sess.ID,
			Problems:            make([]models.Problem, 0, len(sess.Problems)),
			ExistingSubmissions: sess.Submissions.Data(),
			Languages:           sandbox.Supported(),
			StartTime:           sess.StartTime,
		}
		for _, p := range sess.Problems {
			view.Problems = append(view.Problems, p.Public())
		}
		if view.ExistingSubmissions == nil {
			view.ExistingSubmissions = models.Submissions{}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.p.invalidateDashboard(ctx)
	return view, nil
}

// Submit judges the code against every hidden case and records it as the
// problem's latest submission.
func (s *codingService) Submit(ctx context.Context, candidateID string, in SubmitCodeInput) (*SubmitCodeResult, error) {
	const op = "CodingService.Submit"

	if strings.TrimSpace(in.Code) == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "code is required", nil)
	}
	lang, ok := sandbox.Lookup(in.Language)
	if !ok {
		return nil, utils.E(utils.CodeInvalidArgument, op, "unsupported language: "+in.Language, nil)
	}

	var out *SubmitCodeResult
	err := s.p.locked(ctx, op, candidateID, func() error {
		sess, err := s.load(ctx, op, candidateID, in.SessionID)
		if err != nil {
			return err
		}

		now := s.p.now()
		w, started, err := testsession.Start(testsession.CodingWindow(sess), now, 0)
		if errors.Is(err, testsession.ErrAlreadyCompleted) {
			return utils.E(utils.CodeConflict, op, "test already completed", err)
		}
		testsession.ApplyCoding(sess, w)

		problem, ok := findProblem(sess.Problems, in.ProblemID)
		if !ok {
			return utils.E(utils.CodeNotFound, op, "problem not found", nil)
		}

		sub := s.judge.Run(ctx, in.Code, lang.Name, problem.TestCases)
		sub.SubmittedAt = now
		for _, r := range sub.Results {
			metrics.JudgeCases.WithLabelValues(lang.Name, string(r.Outcome)).Inc()
		}

		subs := sess.Submissions.Data()
		if subs == nil {
			subs = models.Submissions{}
		}
		subs[strconv.Itoa(problem.ID)] = sub
		sess.Submissions = datatypes.NewJSONType(subs)

		var events []stage.Event
		if started {
			events = append(events, stage.EventCodingStarted)
		}
		if err := s.saveAndAdvance(ctx, op, candidateID, sess, events...); err != nil {
			return err
		}

		out = &SubmitCodeResult{
			Results:     sub.Results,
			PassedCount: sub.PassedCount,
			TotalCount:  sub.TotalCount,
			AllPassed:   sub.AllPassed(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Finish scores the stage by problems attempted, then checks the latest MCQ
// result. Only when both passed is an interview created.
func (s *codingService) Finish(ctx context.Context, candidateID, sessionID string) (*FinishCodingResult, error) {
	const op = "CodingService.Finish"

	var out *FinishCodingResult
	err := s.p.locked(ctx, op, candidateID, func() error {
		sess, err := s.load(ctx, op, candidateID, sessionID)
		if err != nil {
			return err
		}

		now := s.p.now()
		w, started, err := testsession.Start(testsession.CodingWindow(sess), now, 0)
		if errors.Is(err, testsession.ErrAlreadyCompleted) {
			return utils.E(utils.CodeConflict, op, "test already completed", err)
		}

		solved, score := grading.CodingScore(sess.Problems, sess.Submissions.Data())
		passed := score >= sess.PassingScore
		sess.Score = score
		testsession.ApplyCoding(sess, testsession.Close(w, now, models.PassFail(passed)))

		mcqPassed := false
		mcq, err := s.p.MCQ.Latest(ctx, candidateID)
		switch {
		case err == nil:
			mcqPassed = mcq.Status == models.SessionPassed
		case !errors.Is(err, utils.ErrNotFound):
			return utils.E(utils.CodeInternal, op, "failed to load mcq result", err)
		}

		out = &FinishCodingResult{
			Score:       score,
			Solved:      solved,
			Total:       len(sess.Problems),
			Passed:      passed,
			Test1Passed: passed && mcqPassed,
		}

		events := []stage.Event{stage.CodingOutcome(passed, mcqPassed)}
		if started {
			events = append([]stage.Event{stage.EventCodingStarted}, events...)
		}

		return s.p.Tx.WithinTx(ctx, func(ctx context.Context) error {
			c, err := s.p.candidate(ctx, op, candidateID)
			if err != nil {
				return err
			}
			if err := s.p.Coding.Save(ctx, sess); err != nil {
				return utils.E(utils.CodeInternal, op, "failed to save coding result", err)
			}
			if out.Test1Passed {
				iv := &models.InterviewSession{
					ID:             uuid.NewString(),
					CandidateID:    candidateID,
					TotalQuestions: s.p.Settings.InterviewQuestions,
					PassingScore:   s.p.Settings.InterviewPassingScore,
					Status:         models.SessionPending,
					CreatedAt:      now,
				}
				if err := s.p.Interviews.Create(ctx, iv); err != nil {
					return utils.E(utils.CodeInternal, op, "failed to create interview", err)
				}
				out.InterviewSessionID = iv.ID
			}
			return s.p.advance(ctx, op, c, events...)
		})
	})
	if err != nil {
		return nil, err
	}
	s.p.invalidateDashboard(ctx)
	return out, nil
}

// Run executes code against custom input. Nothing is recorded.
func (s *codingService) Run(ctx context.Context, code, language, stdin string) (*RunCodeResult, error) {
	const op = "CodingService.Run"

	if strings.TrimSpace(code) == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "code is required", nil)
	}
	lang, ok := sandbox.Lookup(language)
	if !ok {
		return &RunCodeResult{Error: "Unsupported language: " + language}, nil
	}

	res := s.exec.Execute(ctx, sandbox.Program{Source: code, Language: lang.Name}, stdin, s.judge.Timeout())
	out := &RunCodeResult{ElapsedMS: res.Elapsed.Milliseconds()}
	switch res.Kind {
	case sandbox.Success:
		out.Success = true
		out.Output = res.Stdout
		out.Error = res.Stderr
	case sandbox.Timeout:
		out.Error = "Execution timed out (" + s.judge.Timeout().String() + " limit)"
	default:
		out.Output = res.Stdout
		out.Error = res.Stderr
	}
	return out, nil
}

func (s *codingService) RunSQL(ctx context.Context, query string) (*grading.QueryResult, error) {
	const op = "CodingService.RunSQL"

	if strings.TrimSpace(query) == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "query is required", nil)
	}
	res, err := s.sql.Run(ctx, query)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "sql sandbox unavailable", err)
	}
	return res, nil
}

func (s *codingService) EvaluateSQL(ctx context.Context, query, reference string) (*grading.SQLVerdict, error) {
	const op = "CodingService.EvaluateSQL"

	if strings.TrimSpace(query) == "" || strings.TrimSpace(reference) == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "query and reference_query are required", nil)
	}
	v, err := s.sql.Evaluate(ctx, query, reference)
	if err != nil {
		return nil, utils.E(utils.CodeInvalidArgument, op, "reference query failed", err)
	}
	return v, nil
}

func (s *codingService) FinishSQL(ctx context.Context, candidateID string) error {
	const op = "CodingService.FinishSQL"

	if candidateID == "" {
		return utils.E(utils.CodeInvalidArgument, op, "candidate_id is required", nil)
	}
	if err := s.p.Candidates.SetSQLPassed(ctx, candidateID, true); err != nil {
		return notFoundOr(op, "candidate", err)
	}
	return nil
}

func (s *codingService) saveAndAdvance(ctx context.Context, op, candidateID string, sess *models.CodingSession, events ...stage.Event) error {
	return s.p.Tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.p.Coding.Save(ctx, sess); err != nil {
			return utils.E(utils.CodeInternal, op, "failed to save coding session", err)
		}
		if len(events) == 0 {
			return nil
		}
		c, err := s.p.candidate(ctx, op, candidateID)
		if err != nil {
			return err
		}
		return s.p.advance(ctx, op, c, events...)
	})
}

func (s *codingService) load(ctx context.Context, op, candidateID, sessionID string) (*models.CodingSession, error) {
	if sessionID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "test_id is required", nil)
	}
	sess, err := s.p.Coding.GetByID(ctx, sessionID)
	if err != nil {
		return nil, notFoundOr(op, "test", err)
	}
	if err := owned(op, sess.CandidateID, candidateID); err != nil {
		return nil, err
	}
	latest, err := s.p.Coding.Latest(ctx, candidateID)
	if err != nil {
		return nil, notFoundOr(op, "test", err)
	}
	if latest.ID != sess.ID {
		return nil, utils.E(utils.CodeConflict, op, "test was superseded by a newer generation", nil)
	}
	return sess, nil
}

func findProblem(problems []models.Problem, id int) (models.Problem, bool) {
	for _, p := range problems {
		if p.ID == id {
			return p, true
		}
	}
	return models.Problem{}, false
}
