package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yoockh/skillproctor/internal/ai"
	"github.com/yoockh/skillproctor/internal/interview"
	"github.com/yoockh/skillproctor/internal/models"
	"github.com/yoockh/skillproctor/internal/providers/stt"
	"github.com/yoockh/skillproctor/internal/stage"
	"github.com/yoockh/skillproctor/internal/utils"
)

type fixedSource struct {
	score float64
	asked int
}

func (s *fixedSource) InterviewQuestion(_ context.Context, qc ai.QuestionContext) (models.QAItem, bool) {
	s.asked++
	return models.QAItem{Question: fmt.Sprintf("Q%d", qc.Number)}, false
}

func (s *fixedSource) EvaluateAnswer(context.Context, models.QAItem, string) (models.Evaluation, bool) {
	return models.Evaluation{Score: s.score, Feedback: "ok"}, false
}

type fakeSTT struct {
	text string
	err  error
}

func (f fakeSTT) Transcribe(context.Context, stt.Audio) (string, float64, error) {
	return f.text, 0.9, f.err
}

func (fakeSTT) Close() error { return nil }

func interviewFixture(t *testing.T, status stage.Status, total int) (*fixture, string) {
	t.Helper()
	f := newFixture()
	f.addCandidate("c1", status, "go")
	iv := &models.InterviewSession{
		ID:             "iv1",
		CandidateID:    "c1",
		TotalQuestions: total,
		PassingScore:   1,
		Status:         models.SessionPending,
		CreatedAt:      f.clock,
	}
	require.NoError(t, f.interviews.Create(context.Background(), iv))
	return f, iv.ID
}

func TestInterviewStartRequiresStageOne(t *testing.T) {
	f, id := interviewFixture(t, stage.StatusTest1MCQPassed, 3)
	svc := NewInterviewService(f.p, interview.NewLoop(&fixedSource{score: 5}, interview.DefaultConfig()), nil, nil)

	_, err := svc.Start(context.Background(), "c1", id)
	assert.Equal(t, utils.CodeConflict, utils.CodeOf(err))

	stored, err := f.interviews.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, models.SessionPending, stored.Status)
}

func TestInterviewStartIsIdempotent(t *testing.T) {
	ctx := context.Background()
	f, id := interviewFixture(t, stage.StatusTest1Passed, 3)
	src := &fixedSource{score: 5}
	svc := NewInterviewService(f.p, interview.NewLoop(src, interview.DefaultConfig()), nil, nil)

	a, err := svc.Start(ctx, "c1", id)
	require.NoError(t, err)
	b, err := svc.Start(ctx, "c1", id)
	require.NoError(t, err)

	assert.Equal(t, "Q1", a.Question.Question)
	assert.Equal(t, a.Question, b.Question)
	assert.Equal(t, 1, src.asked)
	assert.Equal(t, 3, b.TotalQuestions)
	assert.Equal(t, stage.StatusTest2InProgress, f.candidates.status("c1"))
}

func TestInterviewFailsOnLowScores(t *testing.T) {
	ctx := context.Background()
	f, id := interviewFixture(t, stage.StatusTest1Passed, 1)
	reports := NewReportService(f.p, f.reports, f.events, nil)
	svc := NewInterviewService(f.p, interview.NewLoop(&fixedSource{score: 0.5}, interview.DefaultConfig()), nil, InlineReports{Reports: reports})

	_, err := svc.Start(ctx, "c1", id)
	require.NoError(t, err)
	turn, err := svc.Answer(ctx, "c1", id, "not much")
	require.NoError(t, err)
	assert.True(t, turn.Completed)
	assert.False(t, turn.Passed)
	assert.InDelta(t, 0.5, turn.AvgScore, 0.001)
	assert.Equal(t, stage.StatusTest2Failed, f.candidates.status("c1"))

	rep, err := reports.Get(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, models.OverallFailed, rep.OverallStatus)

	_, err = svc.Answer(ctx, "c1", id, "one more")
	assert.Equal(t, utils.CodeConflict, utils.CodeOf(err))
}

func TestInterviewAnswerValidation(t *testing.T) {
	ctx := context.Background()
	f, id := interviewFixture(t, stage.StatusTest1Passed, 2)
	svc := NewInterviewService(f.p, interview.NewLoop(&fixedSource{score: 5}, interview.DefaultConfig()), nil, nil)

	_, err := svc.Answer(ctx, "c1", id, "   ")
	assert.Equal(t, utils.CodeInvalidArgument, utils.CodeOf(err))

	_, err = svc.Answer(ctx, "c1", id, "before start")
	assert.Equal(t, utils.CodeConflict, utils.CodeOf(err))

	_, err = svc.Answer(ctx, "c2", id, "not mine")
	assert.Equal(t, utils.CodeForbidden, utils.CodeOf(err))
}

func TestInterviewAudioAnswers(t *testing.T) {
	ctx := context.Background()
	audio := stt.Audio{Data: []byte{1, 2, 3}, ContentType: "audio/webm"}

	f, id := interviewFixture(t, stage.StatusTest1Passed, 2)
	loop := interview.NewLoop(&fixedSource{score: 6}, interview.DefaultConfig())

	_, err := NewInterviewService(f.p, loop, nil, nil).AnswerAudio(ctx, "c1", id, audio)
	assert.Equal(t, utils.CodeUnavailable, utils.CodeOf(err))

	silent := NewInterviewService(f.p, loop, fakeSTT{err: fmt.Errorf("empty: %w", stt.ErrNoSpeech)}, nil)
	_, err = silent.AnswerAudio(ctx, "c1", id, audio)
	assert.Equal(t, utils.CodeInvalidArgument, utils.CodeOf(err))

	broken := NewInterviewService(f.p, loop, fakeSTT{err: errors.New("quota")}, nil)
	_, err = broken.AnswerAudio(ctx, "c1", id, audio)
	assert.Equal(t, utils.CodeUnavailable, utils.CodeOf(err))

	svc := NewInterviewService(f.p, loop, fakeSTT{text: "goroutines and channels"}, nil)
	_, err = svc.Start(ctx, "c1", id)
	require.NoError(t, err)
	turn, err := svc.AnswerAudio(ctx, "c1", id, audio)
	require.NoError(t, err)
	assert.Equal(t, "goroutines and channels", turn.Transcript)
	assert.InDelta(t, 6, turn.Score, 0.001)

	stored, err := f.interviews.GetByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, stored.Items[0].Answer)
	assert.Equal(t, "goroutines and channels", *stored.Items[0].Answer)
}
