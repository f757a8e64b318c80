package postgres

import (
	"context"

	"github.com/yoockh/skillproctor/internal/models"
	"github.com/yoockh/skillproctor/internal/stage"
	"github.com/yoockh/skillproctor/internal/utils"
	"gorm.io/gorm"
)

type CandidateRepository interface {
	Create(ctx context.Context, c *models.Candidate) error
	GetByID(ctx context.Context, id string) (*models.Candidate, error)
	GetByEmail(ctx context.Context, email string) (*models.Candidate, error)
	List(ctx context.Context) ([]models.Candidate, error)
	Recent(ctx context.Context, n int) ([]models.Candidate, error)
	UpdateStatus(ctx context.Context, id string, status stage.Status) error
	SetSQLPassed(ctx context.Context, id string, passed bool) error
	Delete(ctx context.Context, id string) error
	CountByStatus(ctx context.Context) (map[stage.Status]int64, error)
}

type candidateRepo struct {
	db *gorm.DB
}

func NewCandidateRepo(db *gorm.DB) CandidateRepository {
	return &candidateRepo{db: db}
}

func (r *candidateRepo) Create(ctx context.Context, c *models.Candidate) error {
	return translate(conn(ctx, r.db).Create(c).Error)
}

func (r *candidateRepo) GetByID(ctx context.Context, id string) (*models.Candidate, error) {
	var c models.Candidate
	err := conn(ctx, r.db).Where("id = ?", id).Take(&c).Error
	if err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (r *candidateRepo) GetByEmail(ctx context.Context, email string) (*models.Candidate, error) {
	var c models.Candidate
	err := conn(ctx, r.db).Where("lower(email) = lower(?)", email).Take(&c).Error
	if err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (r *candidateRepo) List(ctx context.Context) ([]models.Candidate, error) {
	var rows []models.Candidate
	err := conn(ctx, r.db).Order("created_at DESC").Find(&rows).Error
	return rows, err
}

func (r *candidateRepo) Recent(ctx context.Context, n int) ([]models.Candidate, error) {
	if n <= 0 {
		n = 5
	}
	var rows []models.Candidate
	err := conn(ctx, r.db).Order("created_at DESC").Limit(n).Find(&rows).Error
	return rows, err
}

func (r *candidateRepo) UpdateStatus(ctx context.Context, id string, status stage.Status) error {
	res := conn(ctx, r.db).Model(&models.Candidate{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": status, "updated_at": gorm.Expr("now()")})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrNotFound
	}
	return nil
}

func (r *candidateRepo) SetSQLPassed(ctx context.Context, id string, passed bool) error {
	res := conn(ctx, r.db).Model(&models.Candidate{}).
		Where("id = ?", id).
		Update("sql_passed", passed)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrNotFound
	}
	return nil
}

// Delete relies on the ON DELETE CASCADE foreign keys for sessions and reports.
func (r *candidateRepo) Delete(ctx context.Context, id string) error {
	res := conn(ctx, r.db).Where("id = ?", id).Delete(&models.Candidate{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrNotFound
	}
	return nil
}

func (r *candidateRepo) CountByStatus(ctx context.Context) (map[stage.Status]int64, error) {
	var rows []struct {
		Status stage.Status
		N      int64
	}
	err := conn(ctx, r.db).Model(&models.Candidate{}).
		Select("status, count(*) AS n").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[stage.Status]int64, len(rows))
	for _, row := range rows {
		out[row.Status] = row.N
	}
	return out, nil
}
