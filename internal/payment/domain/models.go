package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Payment is a settled payment posted to a customer account. Rows are
// write-once; the webhook flow only ever creates them with status completed.
type Payment struct {
	ID            snowflake.ID    `gorm:"primaryKey" json:"id"`
	CustomerID    snowflake.ID    `gorm:"not null;index" json:"customer_id"`
	Amount        decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	Method        string          `gorm:"type:text;not null" json:"method"`
	TransactionID string          `gorm:"type:text;not null;index" json:"transaction_id"`
	PhoneNumber   string          `gorm:"type:text" json:"phone_number,omitempty"`
	Status        string          `gorm:"type:text;not null" json:"status"`
	CreatedAt     time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (Payment) TableName() string { return "payments" }

// QueuedPayment is the audit record of a raw incoming payment notification.
// Exactly one row is created per webhook call, before any matching logic,
// and updated exactly once to its terminal status.
type QueuedPayment struct {
	ID               snowflake.ID    `gorm:"primaryKey" json:"id"`
	TransactionID    string          `gorm:"type:text;not null;index" json:"transaction_id"`
	Amount           decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	PhoneNumber      string          `gorm:"type:text;not null" json:"phone_number"`
	AccountReference string          `gorm:"type:text" json:"account_reference,omitempty"`
	Payload          datatypes.JSON  `gorm:"type:jsonb" json:"payload,omitempty"`
	Status           string          `gorm:"type:text;not null" json:"status"`
	FailureReason    string          `gorm:"type:text" json:"failure_reason,omitempty"`
	ReceivedAt       time.Time       `gorm:"not null" json:"received_at"`
	ProcessedAt      *time.Time      `json:"processed_at,omitempty"`
}

func (QueuedPayment) TableName() string { return "payment_queue" }

const (
	QueueStatusPending   = "pending"
	QueueStatusCompleted = "completed"
	QueueStatusFailed    = "failed"

	PaymentStatusCompleted = "completed"

	MethodMobileMoney = "mobile_money"
	MethodCash        = "cash"
	MethodBank        = "bank"
)

func ValidMethod(method string) bool {
	switch method {
	case MethodMobileMoney, MethodCash, MethodBank:
		return true
	default:
		return false
	}
}
