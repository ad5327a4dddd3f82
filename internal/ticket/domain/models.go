package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Ticket struct {
	ID         snowflake.ID  `gorm:"primaryKey" json:"id"`
	CustomerID snowflake.ID  `gorm:"not null;index" json:"customer_id"`
	OpenedBy   snowflake.ID  `gorm:"not null" json:"opened_by"`
	AssignedTo *snowflake.ID `gorm:"index" json:"assigned_to,omitempty"`
	Subject    string        `gorm:"type:text;not null" json:"subject"`
	Body       string        `gorm:"type:text;not null" json:"body"`
	Status     string        `gorm:"type:text;not null;default:'open'" json:"status"`
	Priority   string        `gorm:"type:text;not null;default:'normal'" json:"priority"`
	CreatedAt  time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt  time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Ticket) TableName() string { return "tickets" }

type Reply struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	TicketID  snowflake.ID `gorm:"not null;index" json:"ticket_id"`
	AuthorID  snowflake.ID `gorm:"not null" json:"author_id"`
	Body      string       `gorm:"type:text;not null" json:"body"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (Reply) TableName() string { return "ticket_replies" }

const (
	StatusOpen       = "open"
	StatusInProgress = "in_progress"
	StatusResolved   = "resolved"
	StatusClosed     = "closed"

	PriorityLow    = "low"
	PriorityNormal = "normal"
	PriorityHigh   = "high"
)

func ValidStatus(status string) bool {
	switch status {
	case StatusOpen, StatusInProgress, StatusResolved, StatusClosed:
		return true
	default:
		return false
	}
}

func ValidPriority(priority string) bool {
	switch priority {
	case PriorityLow, PriorityNormal, PriorityHigh:
		return true
	default:
		return false
	}
}
