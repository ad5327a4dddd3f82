package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/upeonet/mtandao/pkg/db/pagination"
)

// Notification is the payload delivered by the mobile money gateway.
// The sender may retry, so transaction IDs are not guaranteed unique.
type Notification struct {
	TransactionID    string
	Amount           decimal.Decimal
	PhoneNumber      string
	AccountReference string
	Timestamp        *time.Time
	RawPayload       []byte
}

// ProcessResult names the payment and matched customer on success.
type ProcessResult struct {
	PaymentID    snowflake.ID
	CustomerID   snowflake.ID
	CustomerName string
}

type RecordPaymentRequest struct {
	CustomerID    string
	Amount        decimal.Decimal
	Method        string
	TransactionID string
}

type ListPaymentRequest struct {
	PageToken  string
	PageSize   int32
	CustomerID string
	Method     string
	From       *time.Time
	To         *time.Time
}

type ListPaymentFilter struct {
	CustomerID snowflake.ID
	Method     string
	From       *time.Time
	To         *time.Time
}

type ListPaymentResponse struct {
	pagination.PageInfo
	Payments []Payment `json:"payments"`
}

type ListQueueRequest struct {
	Status string
	Limit  int
}

type Service interface {
	// ProcessNotification runs the webhook pipeline: intake, customer
	// match, payment insert, queue completion, best-effort confirmation.
	ProcessNotification(ctx context.Context, notification Notification) (ProcessResult, error)
	Record(ctx context.Context, req RecordPaymentRequest) (Payment, error)
	List(ctx context.Context, req ListPaymentRequest) (ListPaymentResponse, error)
	ListByCustomer(ctx context.Context, customerID snowflake.ID, limit int) ([]Payment, error)
	ListQueue(ctx context.Context, req ListQueueRequest) ([]QueuedPayment, error)
	RevenueSince(ctx context.Context, since time.Time) (decimal.Decimal, error)
	CountQueueByStatus(ctx context.Context) (map[string]int64, error)
}

var (
	ErrInvalidTransactionID = errors.New("invalid_transaction_id")
	ErrInvalidAmount        = errors.New("invalid_amount")
	ErrInvalidPhone         = errors.New("invalid_phone")
	ErrInvalidCustomer      = errors.New("invalid_customer")
	ErrInvalidMethod        = errors.New("invalid_method")
	ErrCustomerNotFound     = errors.New("customer_not_found")
	ErrNotFound             = errors.New("not_found")
)
