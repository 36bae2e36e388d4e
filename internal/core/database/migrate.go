package database

import (
	"gorm.io/gorm"

	"halwaipro/internal/domain"
)

// Migrate 建表/补列（users、sweets）
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&domain.User{}, &domain.Sweet{})
}
