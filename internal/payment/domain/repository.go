package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/upeonet/mtandao/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	InsertQueued(ctx context.Context, db *gorm.DB, queued *QueuedPayment) error
	// MarkQueued moves a queue row to its terminal status. Rows move
	// pending -> completed|failed exactly once.
	MarkQueued(ctx context.Context, db *gorm.DB, id snowflake.ID, status, failureReason string, processedAt time.Time) error
	InsertPayment(ctx context.Context, db *gorm.DB, payment *Payment) error
	FindPaymentByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Payment, error)
	ListPayments(ctx context.Context, db *gorm.DB, filter ListPaymentFilter, page pagination.Pagination) ([]*Payment, error)
	ListByCustomer(ctx context.Context, db *gorm.DB, customerID snowflake.ID, limit int) ([]*Payment, error)
	ListQueue(ctx context.Context, db *gorm.DB, status string, limit int) ([]*QueuedPayment, error)
	SumCompletedSince(ctx context.Context, db *gorm.DB, since time.Time) (decimal.Decimal, error)
	CountQueueByStatus(ctx context.Context, db *gorm.DB) (map[string]int64, error)
}
