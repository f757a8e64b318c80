package postgres

import (
	"context"

	"github.com/yoockh/skillproctor/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AdminRepository interface {
	GetByUsername(ctx context.Context, username string) (*models.AdminUser, error)
	// CreateIfMissing inserts a unless its username is taken.
	CreateIfMissing(ctx context.Context, a *models.AdminUser) (created bool, err error)
}

type adminRepo struct {
	db *gorm.DB
}

func NewAdminRepo(db *gorm.DB) AdminRepository {
	return &adminRepo{db: db}
}

func (r *adminRepo) GetByUsername(ctx context.Context, username string) (*models.AdminUser, error) {
	var a models.AdminUser
	if err := conn(ctx, r.db).Where("username = ?", username).Take(&a).Error; err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

func (r *adminRepo) CreateIfMissing(ctx context.Context, a *models.AdminUser) (bool, error) {
	res := conn(ctx, r.db).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "username"}}, DoNothing: true}).
		Create(a)
	return res.RowsAffected > 0, res.Error
}
