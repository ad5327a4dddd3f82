package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/upeonet/mtandao/internal/ticket/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, ticket *domain.Ticket) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO tickets (id, customer_id, opened_by, assigned_to, subject, body, status, priority, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ticket.ID,
		ticket.CustomerID,
		ticket.OpenedBy,
		ticket.AssignedTo,
		ticket.Subject,
		ticket.Body,
		ticket.Status,
		ticket.Priority,
		ticket.CreatedAt,
		ticket.UpdatedAt,
	).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, ticket *domain.Ticket) error {
	return db.WithContext(ctx).Exec(
		`UPDATE tickets
		 SET assigned_to = ?, status = ?, priority = ?, updated_at = ?
		 WHERE id = ?`,
		ticket.AssignedTo,
		ticket.Status,
		ticket.Priority,
		ticket.UpdatedAt,
		ticket.ID,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Ticket, error) {
	var ticket domain.Ticket
	err := db.WithContext(ctx).Raw(
		`SELECT id, customer_id, opened_by, assigned_to, subject, body, status, priority, created_at, updated_at
		 FROM tickets WHERE id = ?`,
		id,
	).Scan(&ticket).Error
	if err != nil {
		return nil, err
	}
	if ticket.ID == 0 {
		return nil, nil
	}
	return &ticket, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, customerID snowflake.ID, status string, limit int) ([]*domain.Ticket, error) {
	if limit <= 0 {
		limit = 50
	}
	var tickets []*domain.Ticket
	stmt := db.WithContext(ctx).Model(&domain.Ticket{})
	if customerID != 0 {
		stmt = stmt.Where("customer_id = ?", customerID)
	}
	if status != "" {
		stmt = stmt.Where("status = ?", status)
	}
	err := stmt.
		Order("created_at desc, id desc").
		Limit(limit).
		Find(&tickets).Error
	if err != nil {
		return nil, err
	}
	return tickets, nil
}

func (r *repo) InsertReply(ctx context.Context, db *gorm.DB, reply *domain.Reply) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO ticket_replies (id, ticket_id, author_id, body, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		reply.ID,
		reply.TicketID,
		reply.AuthorID,
		reply.Body,
		reply.CreatedAt,
	).Error
}

func (r *repo) ListReplies(ctx context.Context, db *gorm.DB, ticketID snowflake.ID) ([]domain.Reply, error) {
	var replies []domain.Reply
	err := db.WithContext(ctx).
		Model(&domain.Reply{}).
		Where("ticket_id = ?", ticketID).
		Order("created_at asc, id asc").
		Find(&replies).Error
	if err != nil {
		return nil, err
	}
	return replies, nil
}

func (r *repo) CountByStatus(ctx context.Context, db *gorm.DB) (map[string]int64, error) {
	var rows []struct {
		Status string
		Total  int64
	}
	err := db.WithContext(ctx).Raw(
		`SELECT status, COUNT(*) AS total FROM tickets GROUP BY status`,
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
