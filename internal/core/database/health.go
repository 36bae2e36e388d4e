package database

import (
	"context"

	"gorm.io/gorm"
)

// Pinger 给 /health 用
type Pinger struct{ DB *gorm.DB }

func (p Pinger) Ping(ctx context.Context) error {
	sqlDB, err := p.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
