package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Notification is an outbound SMS request. It is recorded before dispatch
// and its status never affects the flow that created it.
type Notification struct {
	ID          snowflake.ID  `gorm:"primaryKey" json:"id"`
	PaymentID   *snowflake.ID `gorm:"index" json:"payment_id,omitempty"`
	PhoneNumber string        `gorm:"type:text;not null" json:"phone_number"`
	Message     string        `gorm:"type:text;not null" json:"message"`
	Status      string        `gorm:"type:text;not null;default:'queued'" json:"status"`
	CreatedAt   time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (Notification) TableName() string { return "notifications" }

const (
	StatusQueued = "queued"
	StatusSent   = "sent"
	StatusFailed = "failed"
)
