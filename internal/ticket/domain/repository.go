package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, ticket *Ticket) error
	Update(ctx context.Context, db *gorm.DB, ticket *Ticket) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Ticket, error)
	List(ctx context.Context, db *gorm.DB, customerID snowflake.ID, status string, limit int) ([]*Ticket, error)
	InsertReply(ctx context.Context, db *gorm.DB, reply *Reply) error
	ListReplies(ctx context.Context, db *gorm.DB, ticketID snowflake.ID) ([]Reply, error)
	CountByStatus(ctx context.Context, db *gorm.DB) (map[string]int64, error)
}
