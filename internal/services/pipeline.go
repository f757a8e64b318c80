package services

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yoockh/skillproctor/internal/cache"
	"github.com/yoockh/skillproctor/internal/lock"
	"github.com/yoockh/skillproctor/internal/metrics"
	"github.com/yoockh/skillproctor/internal/models"
	pgrepo "github.com/yoockh/skillproctor/internal/repositories/postgres"
	"github.com/yoockh/skillproctor/internal/stage"
	"github.com/yoockh/skillproctor/internal/utils"
)

// Settings are the tunables the stage services read.
type Settings struct {
	MCQQuestions           int
	CodingProblems         int
	MCQDuration            time.Duration
	MCQPassingScore        float64
	CodingPassingScore     float64
	CodingPointsPerProblem int
	InterviewQuestions     int
	InterviewPassingScore  float64
	DashboardTTL           time.Duration
	// LockWait bounds how long a request queues behind another one for the
	// same candidate.
	LockWait time.Duration
}

func DefaultSettings() Settings {
	return Settings{
		MCQQuestions:           20,
		CodingProblems:         3,
		MCQDuration:            60 * time.Minute,
		MCQPassingScore:        10,
		CodingPassingScore:     10,
		CodingPointsPerProblem: 10,
		InterviewQuestions:     10,
		InterviewPassingScore:  1,
		DashboardTTL:           30 * time.Second,
		LockWait:               30 * time.Second,
	}
}

// submitGrace absorbs network latency on a submission that lands right at
// the deadline before it is flagged late.
const submitGrace = 30 * time.Second

// Pipeline bundles what every stage service needs: storage, the candidate
// lock, and the single writer of Candidate.Status.
type Pipeline struct {
	Tx         pgrepo.TxManager
	Candidates pgrepo.CandidateRepository
	MCQ        pgrepo.MCQRepository
	Coding     pgrepo.CodingRepository
	Interviews pgrepo.InterviewRepository
	Locker     lock.Locker
	Cache      cache.Cache
	Log        *logrus.Logger
	Settings   Settings
	Now        func() time.Time
}

func (p *Pipeline) now() time.Time {
	if p.Now != nil {
		return p.Now().UTC()
	}
	return time.Now().UTC()
}

// locked runs fn while holding the candidate's lock. Every stage mutation
// for one candidate goes through here.
func (p *Pipeline) locked(ctx context.Context, op, candidateID string, fn func() error) error {
	lctx, cancel := ctx, context.CancelFunc(func() {})
	if p.Settings.LockWait > 0 {
		lctx, cancel = context.WithTimeout(ctx, p.Settings.LockWait)
	}
	release, err := p.Locker.Lock(lctx, lock.Key("candidate", candidateID))
	cancel()
	if err != nil {
		return utils.E(utils.CodeUnavailable, op, "another request for this candidate is in progress", err)
	}
	defer release()
	return fn()
}

// advance applies events in order and writes the resulting status. It is
// the only code that writes Candidate.Status.
func (p *Pipeline) advance(ctx context.Context, op string, c *models.Candidate, events ...stage.Event) error {
	to := c.Status
	for _, ev := range events {
		next, err := stage.Next(to, ev)
		if err != nil {
			return utils.E(utils.CodeConflict, op, err.Error(), err)
		}
		to = next
	}
	if to == c.Status {
		return nil
	}
	if err := p.Candidates.UpdateStatus(ctx, c.ID, to); err != nil {
		return utils.E(utils.CodeInternal, op, "failed to update candidate status", err)
	}
	for _, ev := range events {
		metrics.StageTransitions.WithLabelValues(string(ev), string(to)).Inc()
	}
	p.Log.WithFields(logrus.Fields{
		"candidate_id": c.ID,
		"from":         c.Status,
		"to":           to,
	}).Info("stage advanced")
	c.Status = to
	return nil
}

func (p *Pipeline) candidate(ctx context.Context, op, id string) (*models.Candidate, error) {
	if id == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "candidate_id is required", nil)
	}
	c, err := p.Candidates.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "candidate not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load candidate", err)
	}
	return c, nil
}

func (p *Pipeline) invalidateDashboard(ctx context.Context) {
	if p.Cache == nil {
		return
	}
	if err := p.Cache.Del(ctx, cache.DashboardKey); err != nil {
		p.Log.WithError(err).Warn("dashboard cache invalidation failed")
	}
}

// notFoundOr maps a repository error to NOT_FOUND or INTERNAL.
func notFoundOr(op, what string, err error) error {
	if errors.Is(err, utils.ErrNotFound) {
		return utils.E(utils.CodeNotFound, op, what+" not found", err)
	}
	return utils.E(utils.CodeInternal, op, "failed to load "+what, err)
}

func owned(op, sessionCandidate, candidateID string) error {
	if sessionCandidate != candidateID {
		return utils.E(utils.CodeForbidden, op, "session belongs to another candidate", nil)
	}
	return nil
}
