package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/upeonet/mtandao/internal/notification/domain"
	"github.com/upeonet/mtandao/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Repo       domain.Repository
	Dispatcher domain.Dispatcher
	Metrics    *metrics.Metrics `optional:"true"`
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	repo       domain.Repository
	dispatcher domain.Dispatcher
	metrics    *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("notification.service"),
		genID:      p.GenID,
		repo:       p.Repo,
		dispatcher: p.Dispatcher,
		metrics:    p.Metrics,
	}
}

func (s *Service) Send(ctx context.Context, req domain.SendRequest) (domain.Notification, error) {
	notification := domain.Notification{
		ID:          s.genID.Generate(),
		PaymentID:   req.PaymentID,
		PhoneNumber: strings.TrimSpace(req.PhoneNumber),
		Message:     req.Message,
		Status:      domain.StatusQueued,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.repo.Insert(ctx, s.db, &notification); err != nil {
		return domain.Notification{}, err
	}

	paymentID := ""
	if req.PaymentID != nil {
		paymentID = req.PaymentID.String()
	}

	status := domain.StatusSent
	if err := s.dispatcher.Dispatch(ctx, notification.PhoneNumber, notification.Message, paymentID); err != nil {
		// Dispatch is best effort. The notification record keeps the
		// failure visible but the caller is never failed for it.
		s.log.Warn("sms dispatch failed",
			zap.String("notification_id", notification.ID.String()),
			zap.Error(err),
		)
		status = domain.StatusFailed
	}
	s.metrics.SMSDispatch(status)

	if err := s.repo.UpdateStatus(ctx, s.db, notification.ID, status); err != nil {
		s.log.Warn("failed to update notification status",
			zap.String("notification_id", notification.ID.String()),
			zap.Error(err),
		)
	}
	notification.Status = status

	return notification, nil
}
