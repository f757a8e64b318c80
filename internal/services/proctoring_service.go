package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/yoockh/skillproctor/internal/metrics"
	"github.com/yoockh/skillproctor/internal/models"
	"github.com/yoockh/skillproctor/internal/pubsub"
	"github.com/yoockh/skillproctor/internal/report"
	mongorepo "github.com/yoockh/skillproctor/internal/repositories/mongo"
	"github.com/yoockh/skillproctor/internal/utils"
)

const (
	StageMCQ       = "mcq"
	StageCoding    = "coding"
	StageInterview = "interview"
)

type LogEventInput struct {
	CandidateID string `json:"candidate_id"`
	StageType   string `json:"stage_type"`
	SessionID   string `json:"session_id"`
	EventType   string `json:"event_type"`
	Details     string `json:"details"`
	Severity    string `json:"severity"`
}

type ProctoringService interface {
	Log(ctx context.Context, in LogEventInput) (*models.ProctoringEvent, error)
	List(ctx context.Context, candidateID string) ([]models.ProctoringEvent, error)
	Summary(ctx context.Context, candidateID string) (*models.ProctoringSummary, error)
}

type proctoringService struct {
	p      *Pipeline
	events mongorepo.ProctoringRepository
	pub    pubsub.Publisher
}

func NewProctoringService(p *Pipeline, events mongorepo.ProctoringRepository, pub pubsub.Publisher) ProctoringService {
	if pub == nil {
		pub = pubsub.Nop{}
	}
	return &proctoringService{p: p, events: events, pub: pub}
}

// Log appends one event. It does not take the candidate lock: events only
// append, and the violation counter is bumped with a single UPDATE.
func (s *proctoringService) Log(ctx context.Context, in LogEventInput) (*models.ProctoringEvent, error) {
	const op = "ProctoringService.Log"

	in.EventType = strings.TrimSpace(in.EventType)
	in.StageType = strings.ToLower(strings.TrimSpace(in.StageType))
	in.Severity = strings.ToLower(strings.TrimSpace(in.Severity))
	if in.EventType == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "event_type is required", nil)
	}
	switch in.StageType {
	case StageMCQ, StageCoding, StageInterview:
	default:
		return nil, utils.E(utils.CodeInvalidArgument, op, "stage_type must be mcq, coding or interview", nil)
	}
	switch in.Severity {
	case "":
		in.Severity = models.SeverityMedium
	case models.SeverityLow, models.SeverityMedium, models.SeverityHigh:
	default:
		return nil, utils.E(utils.CodeInvalidArgument, op, "severity must be low, medium or high", nil)
	}

	if _, err := s.p.candidate(ctx, op, in.CandidateID); err != nil {
		return nil, err
	}
	if in.SessionID != "" {
		if err := s.checkSession(ctx, op, in); err != nil {
			return nil, err
		}
	}

	ev := &models.ProctoringEvent{
		ID:          uuid.NewString(),
		CandidateID: in.CandidateID,
		StageType:   in.StageType,
		SessionID:   in.SessionID,
		EventType:   in.EventType,
		Details:     in.Details,
		Severity:    in.Severity,
		Timestamp:   s.p.now(),
	}
	if err := s.events.Insert(ctx, ev); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to log proctoring event", err)
	}

	if in.SessionID != "" {
		var err error
		switch in.StageType {
		case StageMCQ:
			err = s.p.MCQ.IncrementViolations(ctx, in.SessionID)
		case StageInterview:
			err = s.p.Interviews.IncrementViolations(ctx, in.SessionID)
		}
		if err != nil {
			s.p.Log.WithError(err).WithField("session_id", in.SessionID).Warn("violation counter not updated")
		}
	}

	metrics.ProctoringEvents.WithLabelValues(ev.EventType, ev.Severity).Inc()
	if err := s.pub.Publish(ctx, pubsub.ProctoringChannel(ev.CandidateID), ev); err != nil {
		s.p.Log.WithError(err).Warn("proctoring event not published")
	}

	s.p.Log.WithFields(logrus.Fields{
		"candidate_id": ev.CandidateID,
		"stage":        ev.StageType,
		"event_type":   ev.EventType,
		"severity":     ev.Severity,
	}).Info("proctoring event")
	return ev, nil
}

func (s *proctoringService) List(ctx context.Context, candidateID string) ([]models.ProctoringEvent, error) {
	const op = "ProctoringService.List"

	if candidateID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "candidate_id is required", nil)
	}
	out, err := s.events.ListByCandidate(ctx, candidateID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list proctoring events", err)
	}
	if out == nil {
		out = []models.ProctoringEvent{}
	}
	return out, nil
}

func (s *proctoringService) Summary(ctx context.Context, candidateID string) (*models.ProctoringSummary, error) {
	events, err := s.List(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	sum := report.Proctoring(events)
	return &sum, nil
}

// checkSession rejects events attributed to another candidate's session.
func (s *proctoringService) checkSession(ctx context.Context, op string, in LogEventInput) error {
	var owner string
	switch in.StageType {
	case StageMCQ:
		sess, err := s.p.MCQ.GetByID(ctx, in.SessionID)
		if err != nil {
			return notFoundOr(op, "session", err)
		}
		owner = sess.CandidateID
	case StageCoding:
		sess, err := s.p.Coding.GetByID(ctx, in.SessionID)
		if err != nil {
			return notFoundOr(op, "session", err)
		}
		owner = sess.CandidateID
	case StageInterview:
		sess, err := s.p.Interviews.GetByID(ctx, in.SessionID)
		if err != nil {
			return notFoundOr(op, "session", err)
		}
		owner = sess.CandidateID
	}
	return owned(op, owner, in.CandidateID)
}
