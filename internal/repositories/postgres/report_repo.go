package postgres

import (
	"context"

	"github.com/yoockh/skillproctor/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReportRepository interface {
	Upsert(ctx context.Context, r *models.Report) error
	GetByCandidate(ctx context.Context, candidateID string) (*models.Report, error)
	List(ctx context.Context) ([]models.Report, error)
	CountByOverall(ctx context.Context) (map[models.OverallStatus]int64, error)
}

type reportRepo struct {
	db *gorm.DB
}

func NewReportRepo(db *gorm.DB) ReportRepository {
	return &reportRepo{db: db}
}

// Upsert keeps one row per candidate; a rerun overwrites every verdict column.
func (r *reportRepo) Upsert(ctx context.Context, rep *models.Report) error {
	return conn(ctx, r.db).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "candidate_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"mcq_score", "mcq_passed", "coding_score", "coding_passed", "test1_passed",
				"interview_score", "interview_passed", "overall_status",
				"detailed_feedback", "proctoring_summary", "generated_at",
			}),
		}).
		Create(rep).Error
}

func (r *reportRepo) GetByCandidate(ctx context.Context, candidateID string) (*models.Report, error) {
	var rep models.Report
	err := conn(ctx, r.db).
		Preload("Candidate").
		Where("candidate_id = ?", candidateID).
		Take(&rep).Error
	if err != nil {
		return nil, translate(err)
	}
	return &rep, nil
}

func (r *reportRepo) List(ctx context.Context) ([]models.Report, error) {
	var rows []models.Report
	err := conn(ctx, r.db).
		Preload("Candidate").
		Order("generated_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *reportRepo) CountByOverall(ctx context.Context) (map[models.OverallStatus]int64, error) {
	var rows []struct {
		OverallStatus models.OverallStatus
		N             int64
	}
	err := conn(ctx, r.db).Model(&models.Report{}).
		Select("overall_status, count(*) AS n").
		Group("overall_status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[models.OverallStatus]int64, len(rows))
	for _, row := range rows {
		out[row.OverallStatus] = row.N
	}
	return out, nil
}
