package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/upeonet/mtandao/internal/notification/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, notification *domain.Notification) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO notifications (id, payment_id, phone_number, message, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		notification.ID,
		notification.PaymentID,
		notification.PhoneNumber,
		notification.Message,
		notification.Status,
		notification.CreatedAt,
	).Error
}

func (r *repo) UpdateStatus(ctx context.Context, db *gorm.DB, id snowflake.ID, status string) error {
	return db.WithContext(ctx).Exec(
		`UPDATE notifications SET status = ? WHERE id = ?`,
		status,
		id,
	).Error
}
