package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

type CreateTicketRequest struct {
	CustomerID string
	OpenedBy   snowflake.ID
	Subject    string
	Body       string
	Priority   string
}

type ListTicketRequest struct {
	// CustomerID scopes the listing; zero lists all customers (staff only,
	// enforced at the HTTP layer).
	CustomerID snowflake.ID
	Status     string
	Limit      int
}

type TicketWithReplies struct {
	Ticket
	Replies []Reply `json:"replies"`
}

type ReplyRequest struct {
	TicketID string
	AuthorID snowflake.ID
	Body     string
}

type TransitionRequest struct {
	TicketID   string
	Status     string
	AssignedTo string
}

type Service interface {
	Create(ctx context.Context, req CreateTicketRequest) (Ticket, error)
	List(ctx context.Context, req ListTicketRequest) ([]Ticket, error)
	GetByID(ctx context.Context, id string) (TicketWithReplies, error)
	Reply(ctx context.Context, req ReplyRequest) (Reply, error)
	Transition(ctx context.Context, req TransitionRequest) (Ticket, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
}

var (
	ErrInvalidCustomer = errors.New("invalid_customer")
	ErrInvalidSubject  = errors.New("invalid_subject")
	ErrInvalidBody     = errors.New("invalid_body")
	ErrInvalidStatus   = errors.New("invalid_status")
	ErrInvalidPriority = errors.New("invalid_priority")
	ErrInvalidID       = errors.New("invalid_id")
	ErrNotFound        = errors.New("not_found")
)
