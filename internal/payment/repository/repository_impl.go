package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/upeonet/mtandao/internal/payment/domain"
	"github.com/upeonet/mtandao/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) InsertQueued(ctx context.Context, db *gorm.DB, queued *domain.QueuedPayment) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO payment_queue (id, transaction_id, amount, phone_number, account_reference, payload, status, failure_reason, received_at, processed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		queued.ID,
		queued.TransactionID,
		queued.Amount,
		queued.PhoneNumber,
		queued.AccountReference,
		queued.Payload,
		queued.Status,
		queued.FailureReason,
		queued.ReceivedAt,
		queued.ProcessedAt,
	).Error
}

func (r *repo) MarkQueued(ctx context.Context, db *gorm.DB, id snowflake.ID, status, failureReason string, processedAt time.Time) error {
	return db.WithContext(ctx).Exec(
		`UPDATE payment_queue
		 SET status = ?, failure_reason = ?, processed_at = ?
		 WHERE id = ?`,
		status,
		failureReason,
		processedAt,
		id,
	).Error
}

func (r *repo) InsertPayment(ctx context.Context, db *gorm.DB, payment *domain.Payment) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO payments (id, customer_id, amount, method, transaction_id, phone_number, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		payment.ID,
		payment.CustomerID,
		payment.Amount,
		payment.Method,
		payment.TransactionID,
		payment.PhoneNumber,
		payment.Status,
		payment.CreatedAt,
	).Error
}

func (r *repo) FindPaymentByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Payment, error) {
	var payment domain.Payment
	err := db.WithContext(ctx).Raw(
		`SELECT id, customer_id, amount, method, transaction_id, phone_number, status, created_at
		 FROM payments WHERE id = ?`,
		id,
	).Scan(&payment).Error
	if err != nil {
		return nil, err
	}
	if payment.ID == 0 {
		return nil, nil
	}
	return &payment, nil
}

func (r *repo) ListPayments(ctx context.Context, db *gorm.DB, filter domain.ListPaymentFilter, page pagination.Pagination) ([]*domain.Payment, error) {
	var payments []*domain.Payment
	stmt := db.WithContext(ctx).Model(&domain.Payment{})
	if filter.CustomerID != 0 {
		stmt = stmt.Where("customer_id = ?", filter.CustomerID)
	}
	if filter.Method != "" {
		stmt = stmt.Where("method = ?", filter.Method)
	}
	if filter.From != nil {
		stmt = stmt.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		stmt = stmt.Where("created_at <= ?", *filter.To)
	}
	if cursor, err := pagination.DecodeCursor(page.PageToken); err == nil && cursor != nil && cursor.CreatedAt != "" {
		stmt = stmt.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}
	limit := page.PageSize
	if limit <= 0 {
		limit = 50
	}
	err := stmt.
		Order("created_at desc, id desc").
		Limit(limit + 1).
		Find(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *repo) ListByCustomer(ctx context.Context, db *gorm.DB, customerID snowflake.ID, limit int) ([]*domain.Payment, error) {
	if limit <= 0 {
		limit = 10
	}
	var payments []*domain.Payment
	err := db.WithContext(ctx).
		Model(&domain.Payment{}).
		Where("customer_id = ?", customerID).
		Order("created_at desc, id desc").
		Limit(limit).
		Find(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *repo) ListQueue(ctx context.Context, db *gorm.DB, status string, limit int) ([]*domain.QueuedPayment, error) {
	if limit <= 0 {
		limit = 50
	}
	var queue []*domain.QueuedPayment
	stmt := db.WithContext(ctx).Model(&domain.QueuedPayment{})
	if status != "" {
		stmt = stmt.Where("status = ?", status)
	}
	err := stmt.
		Order("received_at desc, id desc").
		Limit(limit).
		Find(&queue).Error
	if err != nil {
		return nil, err
	}
	return queue, nil
}

func (r *repo) SumCompletedSince(ctx context.Context, db *gorm.DB, since time.Time) (decimal.Decimal, error) {
	var row struct {
		Total decimal.Decimal
	}
	err := db.WithContext(ctx).Raw(
		`SELECT COALESCE(SUM(amount), 0) AS total
		 FROM payments
		 WHERE status = ? AND created_at >= ?`,
		domain.PaymentStatusCompleted,
		since,
	).Scan(&row).Error
	if err != nil {
		return decimal.Zero, err
	}
	return row.Total, nil
}

func (r *repo) CountQueueByStatus(ctx context.Context, db *gorm.DB) (map[string]int64, error) {
	var rows []struct {
		Status string
		Total  int64
	}
	err := db.WithContext(ctx).Raw(
		`SELECT status, COUNT(*) AS total FROM payment_queue GROUP BY status`,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Total
	}
	return counts, nil
}
