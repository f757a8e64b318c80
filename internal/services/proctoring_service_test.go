package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yoockh/skillproctor/internal/models"
	"github.com/yoockh/skillproctor/internal/pubsub"
	"github.com/yoockh/skillproctor/internal/stage"
	"github.com/yoockh/skillproctor/internal/utils"
)

func proctoringFixture(t *testing.T) (*fixture, *fakePublisher, ProctoringService) {
	t.Helper()
	f := newFixture()
	f.addCandidate("c1", stage.StatusTest1InProgress, "go")
	f.addCandidate("c2", stage.StatusTest1InProgress, "go")
	require.NoError(t, f.mcq.Create(context.Background(), &models.MCQSession{ID: "m1", CandidateID: "c1", CreatedAt: f.clock}))
	require.NoError(t, f.interviews.Create(context.Background(), &models.InterviewSession{ID: "i1", CandidateID: "c1", CreatedAt: f.clock}))
	pub := &fakePublisher{}
	return f, pub, NewProctoringService(f.p, f.events, pub)
}

func TestProctoringLogCountsAndPublishes(t *testing.T) {
	ctx := context.Background()
	f, pub, svc := proctoringFixture(t)

	ev, err := svc.Log(ctx, LogEventInput{CandidateID: "c1", StageType: "MCQ", SessionID: "m1", EventType: models.EventTabSwitch})
	require.NoError(t, err)
	assert.Equal(t, models.SeverityMedium, ev.Severity)
	assert.Equal(t, "mcq", ev.StageType)
	assert.NotEmpty(t, ev.ID)

	_, err = svc.Log(ctx, LogEventInput{CandidateID: "c1", StageType: "interview", SessionID: "i1", EventType: models.EventPhoneDetected, Severity: "high"})
	require.NoError(t, err)
	_, err = svc.Log(ctx, LogEventInput{CandidateID: "c1", StageType: "coding", EventType: "copy_paste", Severity: "low"})
	require.NoError(t, err)

	m, err := f.mcq.GetByID(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, 1, m.ViolationCount)
	iv, err := f.interviews.GetByID(ctx, "i1")
	require.NoError(t, err)
	assert.Equal(t, 1, iv.ViolationCount)

	assert.Len(t, pub.sent[pubsub.ProctoringChannel("c1")], 3)

	sum, err := svc.Summary(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, 3, sum.TotalViolations)
	assert.Equal(t, 1, sum.TabSwitches)
	assert.Equal(t, 1, sum.PhoneDetected)
	assert.Equal(t, 1, sum.BySeverity[models.SeverityHigh])

	list, err := svc.List(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "copy_paste", list[0].EventType, "newest first")
}

func TestProctoringLogValidation(t *testing.T) {
	ctx := context.Background()
	_, _, svc := proctoringFixture(t)

	tests := []struct {
		name string
		in   LogEventInput
		code utils.Code
	}{
		{"missing event type", LogEventInput{CandidateID: "c1", StageType: "mcq"}, utils.CodeInvalidArgument},
		{"unknown stage", LogEventInput{CandidateID: "c1", StageType: "sql", EventType: "x"}, utils.CodeInvalidArgument},
		{"unknown severity", LogEventInput{CandidateID: "c1", StageType: "mcq", EventType: "x", Severity: "fatal"}, utils.CodeInvalidArgument},
		{"unknown candidate", LogEventInput{CandidateID: "ghost", StageType: "mcq", EventType: "x"}, utils.CodeNotFound},
		{"unknown session", LogEventInput{CandidateID: "c1", StageType: "mcq", SessionID: "nope", EventType: "x"}, utils.CodeNotFound},
		{"foreign session", LogEventInput{CandidateID: "c2", StageType: "mcq", SessionID: "m1", EventType: "x"}, utils.CodeForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Log(ctx, tt.in)
			assert.Equal(t, tt.code, utils.CodeOf(err))
		})
	}

	list, err := svc.List(ctx, "c1")
	require.NoError(t, err)
	assert.Empty(t, list)
}
