package postgres

import (
	"context"

	"github.com/yoockh/skillproctor/internal/models"
	"github.com/yoockh/skillproctor/internal/utils"
	"gorm.io/gorm"
)

type MCQRepository interface {
	Create(ctx context.Context, s *models.MCQSession) error
	GetByID(ctx context.Context, id string) (*models.MCQSession, error)
	Latest(ctx context.Context, candidateID string) (*models.MCQSession, error)
	Save(ctx context.Context, s *models.MCQSession) error
	IncrementViolations(ctx context.Context, id string) error
}

type CodingRepository interface {
	Create(ctx context.Context, s *models.CodingSession) error
	GetByID(ctx context.Context, id string) (*models.CodingSession, error)
	Latest(ctx context.Context, candidateID string) (*models.CodingSession, error)
	Save(ctx context.Context, s *models.CodingSession) error
}

type InterviewRepository interface {
	Create(ctx context.Context, s *models.InterviewSession) error
	GetByID(ctx context.Context, id string) (*models.InterviewSession, error)
	Latest(ctx context.Context, candidateID string) (*models.InterviewSession, error)
	Save(ctx context.Context, s *models.InterviewSession) error
	IncrementViolations(ctx context.Context, id string) error
}

// sessionRepo backs all three stage tables; they share id, candidate_id
// and created_at columns.
type sessionRepo[T any] struct {
	db *gorm.DB
}

func NewMCQRepo(db *gorm.DB) MCQRepository { return &sessionRepo[models.MCQSession]{db: db} }

func NewCodingRepo(db *gorm.DB) CodingRepository { return &sessionRepo[models.CodingSession]{db: db} }

func NewInterviewRepo(db *gorm.DB) InterviewRepository {
	return &sessionRepo[models.InterviewSession]{db: db}
}

func (r *sessionRepo[T]) Create(ctx context.Context, s *T) error {
	return translate(conn(ctx, r.db).Create(s).Error)
}

func (r *sessionRepo[T]) GetByID(ctx context.Context, id string) (*T, error) {
	var s T
	if err := conn(ctx, r.db).Where("id = ?", id).Take(&s).Error; err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

// Latest picks the most recently generated session; older generations are
// kept but never operated on.
func (r *sessionRepo[T]) Latest(ctx context.Context, candidateID string) (*T, error) {
	var s T
	err := conn(ctx, r.db).
		Where("candidate_id = ?", candidateID).
		Order("created_at DESC").
		Take(&s).Error
	if err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

func (r *sessionRepo[T]) Save(ctx context.Context, s *T) error {
	return conn(ctx, r.db).Save(s).Error
}

func (r *sessionRepo[T]) IncrementViolations(ctx context.Context, id string) error {
	var s T
	res := conn(ctx, r.db).Model(&s).
		Where("id = ?", id).
		UpdateColumn("violation_count", gorm.Expr("violation_count + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrNotFound
	}
	return nil
}
