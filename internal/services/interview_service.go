package services

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/yoockh/skillproctor/internal/interview"
	"github.com/yoockh/skillproctor/internal/models"
	"github.com/yoockh/skillproctor/internal/providers/stt"
	"github.com/yoockh/skillproctor/internal/stage"
	"github.com/yoockh/skillproctor/internal/testsession"
	"github.com/yoockh/skillproctor/internal/utils"
)

type InterviewView struct {
	SessionID      string        `json:"interview_id"`
	Question       models.QAItem `json:"question"`
	QuestionNumber int           `json:"question_number"`
	TotalQuestions int           `json:"total_questions"`
}

type AudioTurn struct {
	Transcript string  `json:"transcript"`
	Confidence float64 `json:"confidence"`
	interview.Turn
}

type InterviewService interface {
	Start(ctx context.Context, candidateID, sessionID string) (*InterviewView, error)
	Answer(ctx context.Context, candidateID, sessionID, answer string) (*interview.Turn, error)
	AnswerAudio(ctx context.Context, candidateID, sessionID string, audio stt.Audio) (*AudioTurn, error)
}

type interviewService struct {
	p       *Pipeline
	loop    *interview.Loop
	stt     stt.Provider
	reports ReportQueue
}

// NewInterviewService wires the loop. speech and reports may be nil: audio
// answers are then unavailable and no report is scheduled on completion.
func NewInterviewService(p *Pipeline, loop *interview.Loop, speech stt.Provider, reports ReportQueue) InterviewService {
	return &interviewService{p: p, loop: loop, stt: speech, reports: reports}
}

// Start is idempotent: a resumed interview returns the same open question.
func (s *interviewService) Start(ctx context.Context, candidateID, sessionID string) (*InterviewView, error) {
	const op = "InterviewService.Start"

	var view *InterviewView
	err := s.p.locked(ctx, op, candidateID, func() error {
		sess, err := s.load(ctx, op, candidateID, sessionID)
		if err != nil {
			return err
		}
		c, err := s.p.candidate(ctx, op, candidateID)
		if err != nil {
			return err
		}
		if !stage.Can(c.Status, stage.EventInterviewStarted) {
			return utils.E(utils.CodeConflict, op, "interview is not available at stage "+string(c.Status), nil)
		}

		w, started, err := testsession.Start(testsession.InterviewWindow(sess), s.p.now(), 0)
		if errors.Is(err, testsession.ErrAlreadyCompleted) {
			return utils.E(utils.CodeConflict, op, "interview already completed", err)
		}
		testsession.ApplyInterview(sess, w)

		generated := sess.CurrentIndex >= len(sess.Items)
		q, err := s.loop.Current(ctx, sess, c.Profile())
		if err != nil {
			return utils.E(utils.CodeConflict, op, err.Error(), err)
		}

		if started || generated {
			if err := s.p.Tx.WithinTx(ctx, func(ctx context.Context) error {
				if err := s.p.Interviews.Save(ctx, sess); err != nil {
					return utils.E(utils.CodeInternal, op, "failed to save interview", err)
				}
				return s.p.advance(ctx, op, c, stage.EventInterviewStarted)
			}); err != nil {
				return err
			}
		}

		view = &InterviewView{
			SessionID:      sess.ID,
			Question:       q,
			QuestionNumber: sess.CurrentIndex + 1,
			TotalQuestions: sess.TotalQuestions,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.p.invalidateDashboard(ctx)
	return view, nil
}

func (s *interviewService) Answer(ctx context.Context, candidateID, sessionID, answer string) (*interview.Turn, error) {
	const op = "InterviewService.Answer"

	answer = strings.TrimSpace(answer)
	if answer == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "answer is required", nil)
	}

	var turn interview.Turn
	err := s.p.locked(ctx, op, candidateID, func() error {
		sess, err := s.load(ctx, op, candidateID, sessionID)
		if err != nil {
			return err
		}
		c, err := s.p.candidate(ctx, op, candidateID)
		if err != nil {
			return err
		}

		turn, err = s.loop.Answer(ctx, sess, c.Profile(), answer)
		switch {
		case errors.Is(err, interview.ErrNotInProgress):
			return utils.E(utils.CodeConflict, op, "interview is not in progress", err)
		case errors.Is(err, interview.ErrNoQuestion):
			return utils.E(utils.CodeConflict, op, "no open question; start the interview first", err)
		case err != nil:
			return utils.E(utils.CodeInternal, op, "failed to record answer", err)
		}

		return s.p.Tx.WithinTx(ctx, func(ctx context.Context) error {
			if err := s.p.Interviews.Save(ctx, sess); err != nil {
				return utils.E(utils.CodeInternal, op, "failed to save interview", err)
			}
			if !turn.Completed {
				return nil
			}
			return s.p.advance(ctx, op, c, stage.InterviewOutcome(turn.Passed))
		})
	})
	if err != nil {
		return nil, err
	}

	if turn.Completed {
		s.p.invalidateDashboard(ctx)
		s.p.Log.WithFields(logrus.Fields{
			"candidate_id": candidateID,
			"avg_score":    turn.AvgScore,
			"passed":       turn.Passed,
		}).Info("interview completed")

		if s.reports != nil {
			if err := s.reports.Enqueue(ctx, candidateID); err != nil {
				s.p.Log.WithError(err).WithField("candidate_id", candidateID).Warn("report generation after interview failed")
			}
		}
	}
	return &turn, nil
}

// AnswerAudio transcribes a recorded answer and submits the transcript.
func (s *interviewService) AnswerAudio(ctx context.Context, candidateID, sessionID string, audio stt.Audio) (*AudioTurn, error) {
	const op = "InterviewService.AnswerAudio"

	if s.stt == nil {
		return nil, utils.E(utils.CodeUnavailable, op, "speech recognition is not configured", nil)
	}
	if len(audio.Data) == 0 {
		return nil, utils.E(utils.CodeInvalidArgument, op, "audio is required", nil)
	}

	text, conf, err := s.stt.Transcribe(ctx, audio)
	if errors.Is(err, stt.ErrNoSpeech) {
		return nil, utils.E(utils.CodeInvalidArgument, op, "no speech recognized in the recording", err)
	}
	if err != nil {
		return nil, utils.E(utils.CodeUnavailable, op, "speech recognition failed", err)
	}

	turn, err := s.Answer(ctx, candidateID, sessionID, text)
	if err != nil {
		return nil, err
	}
	return &AudioTurn{Transcript: text, Confidence: conf, Turn: *turn}, nil
}

func (s *interviewService) load(ctx context.Context, op, candidateID, sessionID string) (*models.InterviewSession, error) {
	if sessionID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "interview_id is required", nil)
	}
	sess, err := s.p.Interviews.GetByID(ctx, sessionID)
	if err != nil {
		return nil, notFoundOr(op, "interview", err)
	}
	if err := owned(op, sess.CandidateID, candidateID); err != nil {
		return nil, err
	}
	latest, err := s.p.Interviews.Latest(ctx, candidateID)
	if err != nil {
		return nil, notFoundOr(op, "interview", err)
	}
	if latest.ID != sess.ID {
		return nil, utils.E(utils.CodeConflict, op, "interview was superseded by a newer one", nil)
	}
	return sess, nil
}
