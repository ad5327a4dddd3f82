package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, device *Device) error
	Update(ctx context.Context, db *gorm.DB, device *Device) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Device, error)
	List(ctx context.Context, db *gorm.DB, status string) ([]Device, error)
	CountByStatus(ctx context.Context, db *gorm.DB) (map[string]int64, error)
}
