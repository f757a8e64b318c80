package services

import (
	"context"
	"errors"
	"time"

	"github.com/yoockh/skillproctor/internal/grading"
	"github.com/yoockh/skillproctor/internal/models"
	"github.com/yoockh/skillproctor/internal/stage"
	"github.com/yoockh/skillproctor/internal/testsession"
	"github.com/yoockh/skillproctor/internal/utils"
	"gorm.io/datatypes"
)

type MCQView struct {
	SessionID        string                  `json:"test_id"`
	Questions        []models.PublicQuestion `json:"questions"`
	DurationMinutes  int                     `json:"duration_minutes"`
	StartTime        *time.Time              `json:"start_time"`
	EndTime          *time.Time              `json:"end_time"`
	RemainingSeconds int64                   `json:"remaining_seconds"`
	ExistingAnswers  models.MCQAnswers       `json:"existing_answers"`
}

type MCQOutcome struct {
	grading.MCQResult
	Status models.SessionStatus `json:"status"`
	Late   bool                 `json:"late"`
}

type MCQService interface {
	Start(ctx context.Context, candidateID, sessionID string) (*MCQView, error)
	Submit(ctx context.Context, candidateID, sessionID string, answers models.MCQAnswers) (*MCQOutcome, error)
}

type mcqService struct {
	p *Pipeline
}

func NewMCQService(p *Pipeline) MCQService {
	return &mcqService{p: p}
}

// Start opens the session on first call and resumes it afterwards with the
// same deadline.
func (s *mcqService) Start(ctx context.Context, candidateID, sessionID string) (*MCQView, error) {
	const op = "MCQService.Start"

	var view *MCQView
	err := s.p.locked(ctx, op, candidateID, func() error {
		sess, err := s.load(ctx, op, candidateID, sessionID)
		if err != nil {
			return err
		}

		now := s.p.now()
		w, started, err := testsession.Start(testsession.MCQWindow(sess), now, time.Duration(sess.DurationMinutes)*time.Minute)
		if errors.Is(err, testsession.ErrAlreadyCompleted) {
			return utils.E(utils.CodeConflict, op, "test already completed", err)
		}
		if started {
			testsession.ApplyMCQ(sess, w)
			if err := s.p.Tx.WithinTx(ctx, func(ctx context.Context) error {
				c, err := s.p.candidate(ctx, op, candidateID)
				if err != nil {
					return err
				}
				if err := s.p.MCQ.Save(ctx, sess); err != nil {
					return utils.E(utils.CodeInternal, op, "failed to start mcq session", err)
				}
				return s.p.advance(ctx, op, c, stage.EventMCQStarted)
			}); err != nil {
				return err
			}
		}

		view = &MCQView{
			SessionID:        sess.ID,
			Questions:        make([]models.PublicQuestion, 0, len(sess.Questions)),
			DurationMinutes:  sess.DurationMinutes,
			StartTime:        sess.StartTime,
			EndTime:          sess.EndTime,
			RemainingSeconds: int64(testsession.Remaining(testsession.MCQWindow(sess), now).Seconds()),
			ExistingAnswers:  sess.Answers.Data(),
		}
		for _, q := range sess.Questions {
			view.Questions = append(view.Questions, q.Public())
		}
		if view.ExistingAnswers == nil {
			view.ExistingAnswers = models.MCQAnswers{}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.p.invalidateDashboard(ctx)
	return view, nil
}

// Submit grades once. A pending session is opened and closed in the same
// step; a submission past the deadline is graded and flagged late.
func (s *mcqService) Submit(ctx context.Context, candidateID, sessionID string, answers models.MCQAnswers) (*MCQOutcome, error) {
	const op = "MCQService.Submit"

	if answers == nil {
		answers = models.MCQAnswers{}
	}

	var out *MCQOutcome
	err := s.p.locked(ctx, op, candidateID, func() error {
		sess, err := s.load(ctx, op, candidateID, sessionID)
		if err != nil {
			return err
		}

		now := s.p.now()
		w, started, err := testsession.Start(testsession.MCQWindow(sess), now, time.Duration(sess.DurationMinutes)*time.Minute)
		if errors.Is(err, testsession.ErrAlreadyCompleted) {
			return utils.E(utils.CodeConflict, op, "test already submitted", err)
		}
		late := testsession.Expired(w, now, submitGrace)

		res := grading.ScoreMCQ(sess.Questions, answers, sess.PassingScore)
		status := models.PassFail(res.Passed)
		testsession.ApplyMCQ(sess, testsession.Close(w, now, status))
		sess.Answers = datatypes.NewJSONType(answers)
		sess.Score = res.Score
		sess.Late = late
		sess.SubmittedAt = &now

		events := []stage.Event{stage.MCQOutcome(res.Passed)}
		if started {
			events = append([]stage.Event{stage.EventMCQStarted}, events...)
		}

		if err := s.p.Tx.WithinTx(ctx, func(ctx context.Context) error {
			c, err := s.p.candidate(ctx, op, candidateID)
			if err != nil {
				return err
			}
			if err := s.p.MCQ.Save(ctx, sess); err != nil {
				return utils.E(utils.CodeInternal, op, "failed to save mcq result", err)
			}
			return s.p.advance(ctx, op, c, events...)
		}); err != nil {
			return err
		}

		out = &MCQOutcome{MCQResult: res, Status: status, Late: late}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.p.invalidateDashboard(ctx)
	return out, nil
}

func (s *mcqService) load(ctx context.Context, op, candidateID, sessionID string) (*models.MCQSession, error) {
	if sessionID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "test_id is required", nil)
	}
	sess, err := s.p.MCQ.GetByID(ctx, sessionID)
	if err != nil {
		return nil, notFoundOr(op, "test", err)
	}
	if err := owned(op, sess.CandidateID, candidateID); err != nil {
		return nil, err
	}
	latest, err := s.p.MCQ.Latest(ctx, candidateID)
	if err != nil {
		return nil, notFoundOr(op, "test", err)
	}
	if latest.ID != sess.ID {
		return nil, utils.E(utils.CodeConflict, op, "test was superseded by a newer generation", nil)
	}
	return sess, nil
}
