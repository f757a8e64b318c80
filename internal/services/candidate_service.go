package services

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/yoockh/skillproctor/internal/cache"
	"github.com/yoockh/skillproctor/internal/models"
	mongorepo "github.com/yoockh/skillproctor/internal/repositories/mongo"
	pgrepo "github.com/yoockh/skillproctor/internal/repositories/postgres"
	"github.com/yoockh/skillproctor/internal/resume"
	"github.com/yoockh/skillproctor/internal/stage"
	"github.com/yoockh/skillproctor/internal/storage"
	"github.com/yoockh/skillproctor/internal/utils"
	"gorm.io/datatypes"
)

const (
	recentCandidates = 5
	resumeURLTTL     = 15 * time.Minute
)

type IntakeInput struct {
	FileName    string
	ContentType string
	Data        []byte
	// Optional overrides for what the extractor finds.
	Name  string
	Email string
}

type IntakeResult struct {
	CandidateID string         `json:"candidate_id"`
	Parsed      resume.Profile `json:"parsed_data"`
}

type StageRef struct {
	ID     string               `json:"id"`
	Status models.SessionStatus `json:"status"`
	Score  float64              `json:"score"`
}

// TestInfo is the candidate's own view of where they stand.
type TestInfo struct {
	Candidate *models.Candidate `json:"candidate"`
	MCQ       *StageRef         `json:"mcq_test"`
	Coding    *StageRef         `json:"coding_test"`
	Interview *StageRef         `json:"interview"`
	SQLPassed bool              `json:"sql_passed"`
}

type CandidateDetail struct {
	Candidate  *models.Candidate        `json:"candidate"`
	ResumeText string                   `json:"resume_text"`
	ResumeURL  string                   `json:"resume_url,omitempty"`
	MCQ        *models.MCQSession       `json:"mcq_test"`
	Coding     *models.CodingSession    `json:"coding_test"`
	Interview  *models.InterviewSession `json:"interview"`
	Report     *models.Report           `json:"report"`
	Violations []models.ProctoringEvent `json:"violations"`
}

type DashboardStats struct {
	Total     int64 `json:"total_candidates"`
	Pending   int64 `json:"pending"`
	InTest    int64 `json:"in_test"`
	Completed int64 `json:"completed"`
	Passed    int64 `json:"passed"`
	Failed    int64 `json:"failed"`
}

type RecentCandidate struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Email     string       `json:"email"`
	Status    stage.Status `json:"status"`
	CreatedAt time.Time    `json:"created_at"`
}

type Dashboard struct {
	Stats  DashboardStats    `json:"stats"`
	Recent []RecentCandidate `json:"recent_candidates"`
}

type CandidateService interface {
	Intake(ctx context.Context, in IntakeInput) (*IntakeResult, error)
	List(ctx context.Context) ([]models.Candidate, error)
	Detail(ctx context.Context, id string) (*CandidateDetail, error)
	TestInfo(ctx context.Context, id string) (*TestInfo, error)
	Delete(ctx context.Context, id string) error
	Dashboard(ctx context.Context) (*Dashboard, error)
	Reset(ctx context.Context) error
}

type candidateService struct {
	p           *Pipeline
	reports     pgrepo.ReportRepository
	maintenance pgrepo.MaintenanceRepository
	events      mongorepo.ProctoringRepository
	extractor   resume.Extractor
	uploader    storage.Uploader
	signer      storage.Signer
}

type CandidateServiceDeps struct {
	Reports     pgrepo.ReportRepository
	Maintenance pgrepo.MaintenanceRepository
	Events      mongorepo.ProctoringRepository
	Extractor   resume.Extractor
	Uploader    storage.Uploader // optional
	Signer      storage.Signer   // optional
}

func NewCandidateService(p *Pipeline, d CandidateServiceDeps) CandidateService {
	if d.Extractor == nil {
		d.Extractor = resume.NewKeywordExtractor()
	}
	return &candidateService{
		p:           p,
		reports:     d.Reports,
		maintenance: d.Maintenance,
		events:      d.Events,
		extractor:   d.Extractor,
		uploader:    d.Uploader,
		signer:      d.Signer,
	}
}

func (s *candidateService) Intake(ctx context.Context, in IntakeInput) (*IntakeResult, error) {
	const op = "CandidateService.Intake"

	if len(in.Data) == 0 {
		return nil, utils.E(utils.CodeInvalidArgument, op, "resume file is required", nil)
	}

	prof, err := s.extractor.Extract(ctx, in.Data)
	if err != nil {
		if errors.Is(err, resume.ErrNoText) {
			return nil, utils.E(utils.CodeInvalidArgument, op, "could not extract text from resume", err)
		}
		return nil, utils.E(utils.CodeInvalidArgument, op, "could not read resume", err)
	}
	if name := strings.TrimSpace(in.Name); name != "" {
		prof.Name = name
	}
	if email := strings.TrimSpace(in.Email); email != "" {
		prof.Email = email
	}
	if prof.Email == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "email is required; provide one or ensure it is in the resume", nil)
	}

	if _, err := s.p.Candidates.GetByEmail(ctx, prof.Email); err == nil {
		return nil, utils.E(utils.CodeConflict, op, "a candidate with this email already exists", utils.ErrDuplicate)
	} else if !errors.Is(err, utils.ErrNotFound) {
		return nil, utils.E(utils.CodeInternal, op, "failed to check email", err)
	}

	now := s.p.now()
	c := &models.Candidate{
		ID:              uuid.NewString(),
		Name:            prof.Name,
		Email:           prof.Email,
		Phone:           prof.Phone,
		ResumeText:      prof.Text,
		Skills:          prof.Skills,
		GithubURL:       prof.GithubURL,
		LinkedinURL:     prof.LinkedinURL,
		CodingPlatforms: platformsJSON(prof.CodingPlatforms),
		Status:          stage.StatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if s.uploader != nil {
		ct := in.ContentType
		if ct == "" {
			ct = "application/pdf"
		}
		path, err := s.uploader.Upload(ctx, storage.ResumeObject(c.ID, in.FileName), ct, bytes.NewReader(in.Data))
		if err != nil {
			s.p.Log.WithError(err).WithField("candidate_id", c.ID).Warn("resume upload failed; keeping extracted text only")
		} else {
			c.ResumePath = path
		}
	}

	if err := s.p.Candidates.Create(ctx, c); err != nil {
		if errors.Is(err, utils.ErrDuplicate) {
			return nil, utils.E(utils.CodeConflict, op, "a candidate with this email already exists", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to create candidate", err)
	}
	s.p.invalidateDashboard(ctx)

	s.p.Log.WithFields(logrus.Fields{
		"candidate_id": c.ID,
		"skills":       len(c.Skills),
	}).Info("candidate created")

	prof.Text = ""
	return &IntakeResult{CandidateID: c.ID, Parsed: prof}, nil
}

func (s *candidateService) List(ctx context.Context) ([]models.Candidate, error) {
	const op = "CandidateService.List"

	out, err := s.p.Candidates.List(ctx)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list candidates", err)
	}
	return out, nil
}

func (s *candidateService) Detail(ctx context.Context, id string) (*CandidateDetail, error) {
	const op = "CandidateService.Detail"

	c, err := s.p.candidate(ctx, op, id)
	if err != nil {
		return nil, err
	}
	d := &CandidateDetail{Candidate: c, ResumeText: c.ResumeText}

	if d.MCQ, err = latestOrNil(s.p.MCQ.Latest(ctx, id)); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to load mcq session", err)
	}
	if d.Coding, err = latestOrNil(s.p.Coding.Latest(ctx, id)); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to load coding session", err)
	}
	if d.Interview, err = latestOrNil(s.p.Interviews.Latest(ctx, id)); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to load interview session", err)
	}
	if d.Report, err = latestOrNil(s.reports.GetByCandidate(ctx, id)); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to load report", err)
	}
	if d.Violations, err = s.events.ListByCandidate(ctx, id); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to load proctoring events", err)
	}
	if d.Violations == nil {
		d.Violations = []models.ProctoringEvent{}
	}

	if s.signer != nil && strings.HasPrefix(c.ResumePath, "gs://") {
		u, err := s.signer.SignedGetURL(ctx, c.ResumePath, resumeURLTTL)
		if err != nil {
			s.p.Log.WithError(err).WithField("candidate_id", id).Warn("resume url signing failed")
		} else {
			d.ResumeURL = u
		}
	}
	return d, nil
}

func (s *candidateService) TestInfo(ctx context.Context, id string) (*TestInfo, error) {
	const op = "CandidateService.TestInfo"

	c, err := s.p.candidate(ctx, op, id)
	if err != nil {
		return nil, err
	}
	info := &TestInfo{Candidate: c, SQLPassed: c.SQLPassed}

	mcq, err := latestOrNil(s.p.MCQ.Latest(ctx, id))
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to load mcq session", err)
	}
	if mcq != nil {
		info.MCQ = &StageRef{ID: mcq.ID, Status: mcq.Status, Score: mcq.Score}
	}
	coding, err := latestOrNil(s.p.Coding.Latest(ctx, id))
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to load coding session", err)
	}
	if coding != nil {
		info.Coding = &StageRef{ID: coding.ID, Status: coding.Status, Score: coding.Score}
	}
	iv, err := latestOrNil(s.p.Interviews.Latest(ctx, id))
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to load interview session", err)
	}
	if iv != nil {
		info.Interview = &StageRef{ID: iv.ID, Status: iv.Status, Score: iv.OverallScore}
	}
	return info, nil
}

// Delete removes the candidate row (sessions and report cascade) and the
// candidate's proctoring events.
func (s *candidateService) Delete(ctx context.Context, id string) error {
	const op = "CandidateService.Delete"

	err := s.p.locked(ctx, op, id, func() error {
		if _, err := s.p.candidate(ctx, op, id); err != nil {
			return err
		}
		if err := s.p.Candidates.Delete(ctx, id); err != nil {
			return notFoundOr(op, "candidate", err)
		}
		if err := s.events.DeleteByCandidate(ctx, id); err != nil {
			return utils.E(utils.CodeInternal, op, "candidate deleted but proctoring events remain", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.p.invalidateDashboard(ctx)
	s.p.Log.WithField("candidate_id", id).Info("candidate deleted")
	return nil
}

// Dashboard serves cached counts when fresh.
func (s *candidateService) Dashboard(ctx context.Context) (*Dashboard, error) {
	const op = "CandidateService.Dashboard"

	if s.p.Cache != nil {
		var cached Dashboard
		hit, err := s.p.Cache.GetJSON(ctx, cache.DashboardKey, &cached)
		if err != nil {
			s.p.Log.WithError(err).Warn("dashboard cache read failed")
		}
		if hit {
			return &cached, nil
		}
	}

	byStatus, err := s.p.Candidates.CountByStatus(ctx)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to count candidates", err)
	}
	byOverall, err := s.reports.CountByOverall(ctx)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to count reports", err)
	}
	recent, err := s.p.Candidates.Recent(ctx, recentCandidates)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list recent candidates", err)
	}

	d := &Dashboard{Recent: make([]RecentCandidate, 0, len(recent))}
	for st, n := range byStatus {
		d.Stats.Total += n
		switch {
		case st == stage.StatusPending:
			d.Stats.Pending += n
		case st == stage.StatusCompleted:
			d.Stats.Completed += n
		case strings.Contains(string(st), "in_progress"):
			d.Stats.InTest += n
		}
	}
	d.Stats.Passed = byOverall[models.OverallPassed]
	d.Stats.Failed = byOverall[models.OverallFailed]
	for _, c := range recent {
		d.Recent = append(d.Recent, RecentCandidate{
			ID:        c.ID,
			Name:      c.Name,
			Email:     c.Email,
			Status:    c.Status,
			CreatedAt: c.CreatedAt,
		})
	}

	if s.p.Cache != nil {
		if err := s.p.Cache.SetJSON(ctx, cache.DashboardKey, d, s.p.Settings.DashboardTTL); err != nil {
			s.p.Log.WithError(err).Warn("dashboard cache write failed")
		}
	}
	return d, nil
}

// Reset wipes every candidate, session, report and proctoring event.
// Admin accounts survive.
func (s *candidateService) Reset(ctx context.Context) error {
	const op = "CandidateService.Reset"

	if err := s.maintenance.Reset(ctx); err != nil {
		return utils.E(utils.CodeInternal, op, "failed to reset database", err)
	}
	if err := s.events.DeleteAll(ctx); err != nil {
		return utils.E(utils.CodeInternal, op, "failed to clear proctoring events", err)
	}
	s.p.invalidateDashboard(ctx)
	s.p.Log.Warn("database reset")
	return nil
}

func platformsJSON(m map[string]string) datatypes.JSONMap {
	out := datatypes.JSONMap{}
	for k, v := range m {
		out[k] = v
	}
	return out
}
