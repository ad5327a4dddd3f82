package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// Plan is a service package sold to customers (speed tier + price).
type Plan struct {
	ID           snowflake.ID    `gorm:"primaryKey" json:"id"`
	Name         string          `gorm:"type:text;not null;uniqueIndex" json:"name"`
	SpeedMbps    int             `gorm:"not null" json:"speed_mbps"`
	Price        decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	BillingCycle string          `gorm:"type:text;not null" json:"billing_cycle"`
	Description  string          `gorm:"type:text" json:"description,omitempty"`
	Active       bool            `gorm:"not null;default:true" json:"active"`
	CreatedAt    time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Plan) TableName() string { return "plans" }

const (
	BillingCycleMonthly = "monthly"
	BillingCycleWeekly  = "weekly"
)

func ValidBillingCycle(cycle string) bool {
	switch cycle {
	case BillingCycleMonthly, BillingCycleWeekly:
		return true
	default:
		return false
	}
}
