package postgres

import (
	"context"

	"github.com/yoockh/skillproctor/internal/models"
	"gorm.io/gorm"
)

// Models lists every table this service owns, parents first.
func Models() []any {
	return []any{
		&models.AdminUser{},
		&models.Candidate{},
		&models.MCQSession{},
		&models.CodingSession{},
		&models.InterviewSession{},
		&models.Report{},
	}
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}

type MaintenanceRepository interface {
	// Reset removes every candidate and everything hanging off it.
	// Admin accounts survive.
	Reset(ctx context.Context) error
}

type maintenanceRepo struct {
	db *gorm.DB
}

func NewMaintenanceRepo(db *gorm.DB) MaintenanceRepository {
	return &maintenanceRepo{db: db}
}

func (r *maintenanceRepo) Reset(ctx context.Context) error {
	return conn(ctx, r.db).
		Exec("TRUNCATE TABLE reports, interview_sessions, coding_sessions, mcq_sessions, candidates CASCADE").
		Error
}
