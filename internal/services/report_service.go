package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/yoockh/skillproctor/internal/models"
	"github.com/yoockh/skillproctor/internal/report"
	mongorepo "github.com/yoockh/skillproctor/internal/repositories/mongo"
	pgrepo "github.com/yoockh/skillproctor/internal/repositories/postgres"
	"github.com/yoockh/skillproctor/internal/utils"
)

type ReportService interface {
	Generate(ctx context.Context, candidateID string) (*models.Report, error)
	Get(ctx context.Context, candidateID string) (*models.Report, error)
	List(ctx context.Context) ([]models.Report, error)
}

// ReportQueue schedules report generation for a candidate whose pipeline
// reached a terminal state.
type ReportQueue interface {
	Enqueue(ctx context.Context, candidateID string) error
}

// InlineReports generates on the caller's goroutine. Used when no job queue
// is configured.
type InlineReports struct {
	Reports ReportService
}

func (q InlineReports) Enqueue(ctx context.Context, candidateID string) error {
	_, err := q.Reports.Generate(ctx, candidateID)
	return err
}

type reportService struct {
	p          *Pipeline
	reports    pgrepo.ReportRepository
	proctoring mongorepo.ProctoringRepository
	narrator   report.Narrator
}

func NewReportService(p *Pipeline, reports pgrepo.ReportRepository, proctoring mongorepo.ProctoringRepository, narrator report.Narrator) ReportService {
	return &reportService{p: p, reports: reports, proctoring: proctoring, narrator: narrator}
}

// Generate rebuilds the candidate's report from the latest session of each
// stage and replaces any previous one.
func (s *reportService) Generate(ctx context.Context, candidateID string) (*models.Report, error) {
	const op = "ReportService.Generate"

	c, err := s.p.candidate(ctx, op, candidateID)
	if err != nil {
		return nil, err
	}

	in := report.Inputs{Candidate: *c, InterviewQuestions: s.p.Settings.InterviewQuestions}
	if in.MCQ, err = latestOrNil(s.p.MCQ.Latest(ctx, candidateID)); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to load mcq session", err)
	}
	if in.Coding, err = latestOrNil(s.p.Coding.Latest(ctx, candidateID)); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to load coding session", err)
	}
	if in.Interview, err = latestOrNil(s.p.Interviews.Latest(ctx, candidateID)); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to load interview session", err)
	}
	if s.proctoring != nil {
		if in.Events, err = s.proctoring.ListByCandidate(ctx, candidateID); err != nil {
			return nil, utils.E(utils.CodeInternal, op, "failed to load proctoring events", err)
		}
	}

	rep := report.Compose(ctx, s.narrator, in, s.p.now())
	rep.ID = uuid.NewString()
	if err := s.reports.Upsert(ctx, &rep); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to save report", err)
	}

	saved, err := s.reports.GetByCandidate(ctx, candidateID)
	if err != nil {
		return nil, notFoundOr(op, "report", err)
	}
	s.p.invalidateDashboard(ctx)

	s.p.Log.WithFields(logrus.Fields{
		"candidate_id": candidateID,
		"overall":      saved.OverallStatus,
	}).Info("report generated")
	return saved, nil
}

func (s *reportService) Get(ctx context.Context, candidateID string) (*models.Report, error) {
	const op = "ReportService.Get"

	if candidateID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "candidate_id is required", nil)
	}
	rep, err := s.reports.GetByCandidate(ctx, candidateID)
	if err != nil {
		return nil, notFoundOr(op, "report", err)
	}
	return rep, nil
}

func (s *reportService) List(ctx context.Context) ([]models.Report, error) {
	const op = "ReportService.List"

	out, err := s.reports.List(ctx)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list reports", err)
	}
	return out, nil
}

// latestOrNil turns a missing session into nil.
func latestOrNil[T any](s *T, err error) (*T, error) {
	if errors.Is(err, utils.ErrNotFound) {
		return nil, nil
	}
	return s, err
}
