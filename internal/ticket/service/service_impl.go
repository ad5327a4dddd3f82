package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/upeonet/mtandao/internal/ticket/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &service{
		db:    p.DB,
		log:   p.Log.Named("ticket.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *service) Create(ctx context.Context, req domain.CreateTicketRequest) (domain.Ticket, error) {
	customerID, err := parseID(req.CustomerID)
	if err != nil {
		return domain.Ticket{}, domain.ErrInvalidCustomer
	}
	subject := strings.TrimSpace(req.Subject)
	if subject == "" {
		return domain.Ticket{}, domain.ErrInvalidSubject
	}
	body := strings.TrimSpace(req.Body)
	if body == "" {
		return domain.Ticket{}, domain.ErrInvalidBody
	}
	priority := req.Priority
	if priority == "" {
		priority = domain.PriorityNormal
	}
	if !domain.ValidPriority(priority) {
		return domain.Ticket{}, domain.ErrInvalidPriority
	}

	now := time.Now().UTC()
	ticket := domain.Ticket{
		ID:         s.genID.Generate(),
		CustomerID: customerID,
		OpenedBy:   req.OpenedBy,
		Subject:    subject,
		Body:       body,
		Status:     domain.StatusOpen,
		Priority:   priority,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.repo.Insert(ctx, s.db, &ticket); err != nil {
		s.log.Error("insert ticket", zap.Error(err))
		return domain.Ticket{}, err
	}
	return ticket, nil
}

func (s *service) List(ctx context.Context, req domain.ListTicketRequest) ([]domain.Ticket, error) {
	if req.Status != "" && !domain.ValidStatus(req.Status) {
		return nil, domain.ErrInvalidStatus
	}
	rows, err := s.repo.List(ctx, s.db, req.CustomerID, req.Status, req.Limit)
	if err != nil {
		return nil, err
	}
	tickets := make([]domain.Ticket, 0, len(rows))
	for _, row := range rows {
		tickets = append(tickets, *row)
	}
	return tickets, nil
}

func (s *service) GetByID(ctx context.Context, id string) (domain.TicketWithReplies, error) {
	ticketID, err := parseID(id)
	if err != nil {
		return domain.TicketWithReplies{}, domain.ErrInvalidID
	}
	ticket, err := s.repo.FindByID(ctx, s.db, ticketID)
	if err != nil {
		return domain.TicketWithReplies{}, err
	}
	if ticket == nil {
		return domain.TicketWithReplies{}, domain.ErrNotFound
	}
	replies, err := s.repo.ListReplies(ctx, s.db, ticketID)
	if err != nil {
		return domain.TicketWithReplies{}, err
	}
	return domain.TicketWithReplies{Ticket: *ticket, Replies: replies}, nil
}

func (s *service) Reply(ctx context.Context, req domain.ReplyRequest) (domain.Reply, error) {
	ticketID, err := parseID(req.TicketID)
	if err != nil {
		return domain.Reply{}, domain.ErrInvalidID
	}
	body := strings.TrimSpace(req.Body)
	if body == "" {
		return domain.Reply{}, domain.ErrInvalidBody
	}

	ticket, err := s.repo.FindByID(ctx, s.db, ticketID)
	if err != nil {
		return domain.Reply{}, err
	}
	if ticket == nil {
		return domain.Reply{}, domain.ErrNotFound
	}

	reply := domain.Reply{
		ID:        s.genID.Generate(),
		TicketID:  ticketID,
		AuthorID:  req.AuthorID,
		Body:      body,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.InsertReply(ctx, s.db, &reply); err != nil {
		s.log.Error("insert reply", zap.Error(err), zap.String("ticket_id", ticketID.String()))
		return domain.Reply{}, err
	}

	// A reply bumps the ticket so stale listings sort it back up.
	ticket.UpdatedAt = reply.CreatedAt
	if err := s.repo.Update(ctx, s.db, ticket); err != nil {
		s.log.Warn("touch ticket after reply", zap.Error(err))
	}
	return reply, nil
}

func (s *service) Transition(ctx context.Context, req domain.TransitionRequest) (domain.Ticket, error) {
	ticketID, err := parseID(req.TicketID)
	if err != nil {
		return domain.Ticket{}, domain.ErrInvalidID
	}
	if !domain.ValidStatus(req.Status) {
		return domain.Ticket{}, domain.ErrInvalidStatus
	}

	ticket, err := s.repo.FindByID(ctx, s.db, ticketID)
	if err != nil {
		return domain.Ticket{}, err
	}
	if ticket == nil {
		return domain.Ticket{}, domain.ErrNotFound
	}

	ticket.Status = req.Status
	if req.AssignedTo != "" {
		assignee, err := parseID(req.AssignedTo)
		if err != nil {
			return domain.Ticket{}, domain.ErrInvalidID
		}
		ticket.AssignedTo = &assignee
	}
	ticket.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, s.db, ticket); err != nil {
		s.log.Error("update ticket", zap.Error(err), zap.String("ticket_id", ticketID.String()))
		return domain.Ticket{}, err
	}
	return *ticket, nil
}

func (s *service) CountByStatus(ctx context.Context) (map[string]int64, error) {
	return s.repo.CountByStatus(ctx, s.db)
}

func parseID(raw string) (snowflake.ID, error) {
	return snowflake.ParseString(strings.TrimSpace(raw))
}
