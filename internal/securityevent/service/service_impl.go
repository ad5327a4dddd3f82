package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/upeonet/mtandao/internal/securityevent/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("securityevent.service"),
		genID: p.GenID,
	}
}

func (s *Service) Record(ctx context.Context, req domain.RecordRequest) {
	event := domain.Event{
		ID:        s.genID.Generate(),
		UserEmail: strings.ToLower(strings.TrimSpace(req.UserEmail)),
		Kind:      req.Kind,
		IPAddress: req.IPAddress,
		UserAgent: req.UserAgent,
		Detail:    req.Detail,
		CreatedAt: time.Now().UTC(),
	}

	err := s.db.WithContext(ctx).Exec(
		`INSERT INTO security_events (id, user_email, kind, ip_address, user_agent, detail, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		event.ID,
		event.UserEmail,
		event.Kind,
		event.IPAddress,
		event.UserAgent,
		event.Detail,
		event.CreatedAt,
	).Error
	if err != nil {
		s.log.Warn("security event not recorded",
			zap.String("kind", event.Kind),
			zap.Error(err),
		)
	}
}

func (s *Service) ListRecent(ctx context.Context, limit int) ([]domain.Event, error) {
	if limit <= 0 {
		limit = 50
	}
	var events []domain.Event
	err := s.db.WithContext(ctx).
		Model(&domain.Event{}).
		Order("created_at desc, id desc").
		Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}
