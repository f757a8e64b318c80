package services

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yoockh/skillproctor/internal/models"
	"github.com/yoockh/skillproctor/internal/resume"
	"github.com/yoockh/skillproctor/internal/stage"
	"github.com/yoockh/skillproctor/internal/utils"
)

type stubExtractor struct {
	profile resume.Profile
	err     error
}

func (s stubExtractor) Extract(context.Context, []byte) (resume.Profile, error) {
	return s.profile, s.err
}

type fakeBucket struct {
	objects map[string][]byte
}

func (b *fakeBucket) Upload(_ context.Context, name, _ string, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	if b.objects == nil {
		b.objects = map[string][]byte{}
	}
	b.objects[name] = data
	return "gs://bucket/" + name, nil
}

func (b *fakeBucket) SignedGetURL(_ context.Context, name string, _ time.Duration) (string, error) {
	return "https://signed.example/" + name, nil
}

type fakeMaintenance struct{ resets int }

func (m *fakeMaintenance) Reset(context.Context) error {
	m.resets++
	return nil
}

func candidateFixture(ex resume.Extractor, bucket *fakeBucket) (*fixture, *fakeMaintenance, CandidateService) {
	f := newFixture()
	m := &fakeMaintenance{}
	d := CandidateServiceDeps{Reports: f.reports, Maintenance: m, Events: f.events, Extractor: ex}
	if bucket != nil {
		d.Uploader, d.Signer = bucket, bucket
	}
	return f, m, NewCandidateService(f.p, d)
}

func adaProfile() resume.Profile {
	return resume.Profile{
		Name:            "Ada Lovelace",
		Email:           "ada@example.com",
		Skills:          []string{"go", "sql"},
		CodingPlatforms: map[string]string{"leetcode": "https://leetcode.com/ada"},
		Text:            "Ada Lovelace ada@example.com go sql",
	}
}

func TestIntakeCreatesPendingCandidate(t *testing.T) {
	ctx := context.Background()
	bucket := &fakeBucket{}
	f, _, svc := candidateFixture(stubExtractor{profile: adaProfile()}, bucket)

	res, err := svc.Intake(ctx, IntakeInput{FileName: "cv.pdf", Data: []byte("%PDF"), Name: "Ada L."})
	require.NoError(t, err)
	assert.Equal(t, "Ada L.", res.Parsed.Name)
	assert.Empty(t, res.Parsed.Text)

	c, err := f.candidates.GetByID(ctx, res.CandidateID)
	require.NoError(t, err)
	assert.Equal(t, stage.StatusPending, c.Status)
	assert.Equal(t, []string{"go", "sql"}, []string(c.Skills))
	assert.Equal(t, "https://leetcode.com/ada", c.CodingPlatforms["leetcode"])
	assert.Equal(t, "gs://bucket/resumes/"+res.CandidateID+".pdf", c.ResumePath)
	assert.Equal(t, []byte("%PDF"), bucket.objects["resumes/"+res.CandidateID+".pdf"])

	d, err := svc.Detail(ctx, res.CandidateID)
	require.NoError(t, err)
	assert.Equal(t, "https://signed.example/gs://bucket/resumes/"+res.CandidateID+".pdf", d.ResumeURL)
	assert.Equal(t, adaProfile().Text, d.ResumeText)
	assert.Nil(t, d.MCQ)
	assert.Nil(t, d.Report)
	assert.Empty(t, d.Violations)
}

func TestIntakeRejections(t *testing.T) {
	ctx := context.Background()

	noEmail := adaProfile()
	noEmail.Email = ""
	_, _, svc := candidateFixture(stubExtractor{profile: noEmail}, nil)
	_, err := svc.Intake(ctx, IntakeInput{Data: []byte("x")})
	assert.Equal(t, utils.CodeInvalidArgument, utils.CodeOf(err))

	_, err = svc.Intake(ctx, IntakeInput{})
	assert.Equal(t, utils.CodeInvalidArgument, utils.CodeOf(err))

	_, _, svc = candidateFixture(stubExtractor{err: resume.ErrNoText}, nil)
	_, err = svc.Intake(ctx, IntakeInput{Data: []byte("x")})
	assert.Equal(t, utils.CodeInvalidArgument, utils.CodeOf(err))

	f, _, svc := candidateFixture(stubExtractor{profile: adaProfile()}, nil)
	_, err = svc.Intake(ctx, IntakeInput{Data: []byte("x")})
	require.NoError(t, err)
	_, err = svc.Intake(ctx, IntakeInput{Data: []byte("x"), Email: "ADA@example.com"})
	assert.Equal(t, utils.CodeConflict, utils.CodeOf(err))

	all, err := f.candidates.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestDashboardCountsAndCache(t *testing.T) {
	ctx := context.Background()
	f, _, svc := candidateFixture(stubExtractor{profile: adaProfile()}, nil)
	f.addCandidate("p1", stage.StatusPending)
	f.addCandidate("t1", stage.StatusTest1InProgress)
	f.addCandidate("t2", stage.StatusTest2InProgress)
	f.addCandidate("done", stage.StatusCompleted)
	f.reports.rows["done"] = models.Report{CandidateID: "done", OverallStatus: models.OverallPassed}
	f.reports.rows["t2"] = models.Report{CandidateID: "t2", OverallStatus: models.OverallFailed}

	d, err := svc.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, DashboardStats{Total: 4, Pending: 1, InTest: 2, Completed: 1, Passed: 1, Failed: 1}, d.Stats)
	assert.Len(t, d.Recent, 4)

	// served from cache until a write invalidates it
	f.addCandidate("p2", stage.StatusPending)
	d, err = svc.Dashboard(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 4, d.Stats.Total)

	_, err = svc.Intake(ctx, IntakeInput{Data: []byte("x")})
	require.NoError(t, err)
	d, err = svc.Dashboard(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 6, d.Stats.Total)
	assert.Len(t, d.Recent, 5)
}

func TestDeleteAndReset(t *testing.T) {
	ctx := context.Background()
	f, m, svc := candidateFixture(stubExtractor{}, nil)
	f.addCandidate("c1", stage.StatusPending)
	f.addCandidate("c2", stage.StatusPending)
	require.NoError(t, f.events.Insert(ctx, &models.ProctoringEvent{ID: "e1", CandidateID: "c1"}))
	require.NoError(t, f.events.Insert(ctx, &models.ProctoringEvent{ID: "e2", CandidateID: "c2"}))

	require.NoError(t, svc.Delete(ctx, "c1"))
	_, err := f.candidates.GetByID(ctx, "c1")
	assert.True(t, errors.Is(err, utils.ErrNotFound))
	left, _ := f.events.ListByCandidate(ctx, "c2")
	assert.Len(t, left, 1)
	gone, _ := f.events.ListByCandidate(ctx, "c1")
	assert.Empty(t, gone)

	assert.Equal(t, utils.CodeNotFound, utils.CodeOf(svc.Delete(ctx, "c1")))

	require.NoError(t, svc.Reset(ctx))
	assert.Equal(t, 1, m.resets)
	left, _ = f.events.ListByCandidate(ctx, "c2")
	assert.Empty(t, left)
}

func TestTestInfo(t *testing.T) {
	ctx := context.Background()
	f, _, svc := candidateFixture(stubExtractor{}, nil)
	f.addCandidate("c1", stage.StatusTest1InProgress, "go")
	require.NoError(t, f.mcq.Create(ctx, &models.MCQSession{ID: "m1", CandidateID: "c1", Status: models.SessionPassed, Score: 80}))

	info, err := svc.TestInfo(ctx, "c1")
	require.NoError(t, err)
	require.NotNil(t, info.MCQ)
	assert.Equal(t, "m1", info.MCQ.ID)
	assert.Equal(t, models.SessionPassed, info.MCQ.Status)
	assert.Nil(t, info.Coding)
	assert.Nil(t, info.Interview)

	_, err = svc.TestInfo(ctx, "ghost")
	assert.Equal(t, utils.CodeNotFound, utils.CodeOf(err))
}
