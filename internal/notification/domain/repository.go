package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, notification *Notification) error
	UpdateStatus(ctx context.Context, db *gorm.DB, id snowflake.ID, status string) error
}
