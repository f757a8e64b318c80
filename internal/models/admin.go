package models

import "time"

type AdminUser struct {
	ID           string    `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Username     string    `gorm:"column:username;type:text;uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"column:password_hash;type:text;not null" json:"-"`
	Name         string    `gorm:"column:name;type:text" json:"name"`
	CreatedAt    time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
}

func (AdminUser) TableName() string { return "admin_users" }
