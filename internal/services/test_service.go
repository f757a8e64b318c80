package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/yoockh/skillproctor/internal/models"
	"github.com/yoockh/skillproctor/internal/stage"
	"github.com/yoockh/skillproctor/internal/utils"
	"gorm.io/datatypes"
)

// TestGenerator is the part of ai.Generator used for stage one.
type TestGenerator interface {
	MCQQuestions(ctx context.Context, skills []string, count int) ([]models.Question, bool)
	CodingProblems(ctx context.Context, skills []string, count int) ([]models.Problem, bool)
}

type GeneratedTest struct {
	MCQSessionID    string `json:"mcq_test_id"`
	CodingSessionID string `json:"coding_test_id"`
	MCQCount        int    `json:"mcq_count"`
	CodingCount     int    `json:"coding_count"`
	Fallback        bool   `json:"fallback"`
}

type TestService interface {
	Generate(ctx context.Context, candidateID string) (*GeneratedTest, error)
}

type testService struct {
	p   *Pipeline
	gen TestGenerator
}

func NewTestService(p *Pipeline, gen TestGenerator) TestService {
	return &testService{p: p, gen: gen}
}

// Generate creates one MCQ and one coding session and moves the candidate
// to test1_ready. Older generations stay in place.
func (s *testService) Generate(ctx context.Context, candidateID string) (*GeneratedTest, error) {
	const op = "TestService.Generate"

	c, err := s.p.candidate(ctx, op, candidateID)
	if err != nil {
		return nil, err
	}
	if len(c.Skills) == 0 {
		return nil, utils.E(utils.CodeInvalidArgument, op, "no skills found; the resume must have extractable skills", nil)
	}
	if !stage.Can(c.Status, stage.EventTestGenerated) {
		return nil, utils.E(utils.CodeConflict, op, "test already started for this candidate", nil)
	}

	// generation is slow; keep it outside the lock and the transaction
	questions, mcqFell := s.gen.MCQQuestions(ctx, c.Skills, s.p.Settings.MCQQuestions)
	problems, codingFell := s.gen.CodingProblems(ctx, c.Skills, s.p.Settings.CodingProblems)

	out := &GeneratedTest{MCQCount: len(questions), CodingCount: len(problems), Fallback: mcqFell || codingFell}
	err = s.p.locked(ctx, op, candidateID, func() error {
		return s.p.Tx.WithinTx(ctx, func(ctx context.Context) error {
			c, err := s.p.candidate(ctx, op, candidateID)
			if err != nil {
				return err
			}

			now := s.p.now()
			mcq := &models.MCQSession{
				ID:              uuid.NewString(),
				CandidateID:     c.ID,
				Questions:       datatypes.JSONSlice[models.Question](questions),
				Answers:         datatypes.NewJSONType(models.MCQAnswers{}),
				TotalMarks:      len(questions),
				PassingScore:    s.p.Settings.MCQPassingScore,
				DurationMinutes: int(s.p.Settings.MCQDuration.Minutes()),
				Status:          models.SessionPending,
				CreatedAt:       now,
			}
			if err := s.p.MCQ.Create(ctx, mcq); err != nil {
				return utils.E(utils.CodeInternal, op, "failed to create mcq session", err)
			}

			coding := &models.CodingSession{
				ID:           uuid.NewString(),
				CandidateID:  c.ID,
				MCQSessionID: &mcq.ID,
				Problems:     datatypes.JSONSlice[models.Problem](problems),
				Submissions:  datatypes.NewJSONType(models.Submissions{}),
				TotalMarks:   len(problems) * s.p.Settings.CodingPointsPerProblem,
				PassingScore: s.p.Settings.CodingPassingScore,
				Status:       models.SessionPending,
				CreatedAt:    now,
			}
			if err := s.p.Coding.Create(ctx, coding); err != nil {
				return utils.E(utils.CodeInternal, op, "failed to create coding session", err)
			}

			out.MCQSessionID, out.CodingSessionID = mcq.ID, coding.ID
			return s.p.advance(ctx, op, c, stage.EventTestGenerated)
		})
	})
	if err != nil {
		return nil, err
	}

	s.p.invalidateDashboard(ctx)
	s.p.Log.WithFields(logrus.Fields{
		"candidate_id": candidateID,
		"mcq":          out.MCQCount,
		"coding":       out.CodingCount,
		"fallback":     out.Fallback,
	}).Info("test generated")
	return out, nil
}
