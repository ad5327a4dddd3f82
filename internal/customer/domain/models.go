package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type Customer struct {
	ID        snowflake.ID      `gorm:"primaryKey" json:"id"`
	Name      string            `gorm:"not null" json:"name"`
	Email     string            `gorm:"not null" json:"email"`
	Phone     string            `gorm:"type:text;not null;index" json:"phone"`
	PlanID    *snowflake.ID     `gorm:"index" json:"plan_id,omitempty"`
	Status    string            `gorm:"type:text;not null;default:'active'" json:"status"`
	Balance   decimal.Decimal   `gorm:"type:numeric(12,2);not null;default:0" json:"balance"`
	Address   string            `gorm:"type:text" json:"address,omitempty"`
	Metadata  datatypes.JSONMap `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Customer) TableName() string { return "customers" }

const (
	StatusActive       = "active"
	StatusSuspended    = "suspended"
	StatusDisconnected = "disconnected"
)

func ValidStatus(status string) bool {
	switch status {
	case StatusActive, StatusSuspended, StatusDisconnected:
		return true
	default:
		return false
	}
}
