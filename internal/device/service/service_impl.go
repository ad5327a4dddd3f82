package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/upeonet/mtandao/internal/device/domain"
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
		log:   p.Log.Named("device.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *service) Register(ctx context.Context, req domain.RegisterRequest) (domain.Device, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Device{}, domain.ErrInvalidName
	}
	kind := strings.TrimSpace(req.Kind)
	if kind == "" {
		return domain.Device{}, domain.ErrInvalidKind
	}

	now := time.Now().UTC()
	device := domain.Device{
		ID:        s.genID.Generate(),
		Name:      name,
		Kind:      kind,
		IPAddress: strings.TrimSpace(req.IPAddress),
		Location:  strings.TrimSpace(req.Location),
		Status:    domain.StatusOffline,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Insert(ctx, s.db, &device); err != nil {
		s.log.Error("insert device", zap.Error(err))
		return domain.Device{}, err
	}
	return device, nil
}

func (s *service) List(ctx context.Context, status string) ([]domain.Device, error) {
	if status != "" && !domain.ValidStatus(status) {
		return nil, domain.ErrInvalidStatus
	}
	return s.repo.List(ctx, s.db, status)
}

func (s *service) GetByID(ctx context.Context, id string) (domain.Device, error) {
	device, err := s.find(ctx, id)
	if err != nil {
		return domain.Device{}, err
	}
	return *device, nil
}

func (s *service) UpdateStatus(ctx context.Context, req domain.UpdateStatusRequest) (domain.Device, error) {
	if !domain.ValidStatus(req.Status) {
		return domain.Device{}, domain.ErrInvalidStatus
	}
	device, err := s.find(ctx, req.DeviceID)
	if err != nil {
		return domain.Device{}, err
	}

	now := time.Now().UTC()
	device.Status = req.Status
	device.UpdatedAt = now
	if req.Status == domain.StatusOnline || req.Status == domain.StatusDegraded {
		device.LastSeenAt = &now
	}

	if err := s.repo.Update(ctx, s.db, device); err != nil {
		s.log.Error("update device", zap.Error(err), zap.String("device_id", device.ID.String()))
		return domain.Device{}, err
	}
	return *device, nil
}

// Heartbeat marks a device online and refreshes last_seen_at.
func (s *service) Heartbeat(ctx context.Context, id string) (domain.Device, error) {
	device, err := s.find(ctx, id)
	if err != nil {
		return domain.Device{}, err
	}

	now := time.Now().UTC()
	device.Status = domain.StatusOnline
	device.LastSeenAt = &now
	device.UpdatedAt = now

	if err := s.repo.Update(ctx, s.db, device); err != nil {
		s.log.Error("heartbeat", zap.Error(err), zap.String("device_id", device.ID.String()))
		return domain.Device{}, err
	}
	return *device, nil
}

func (s *service) CountByStatus(ctx context.Context) (map[string]int64, error) {
	return s.repo.CountByStatus(ctx, s.db)
}

func (s *service) find(ctx context.Context, raw string) (*domain.Device, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(raw))
	if err != nil {
		return nil, domain.ErrInvalidID
	}
	device, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if device == nil {
		return nil, domain.ErrNotFound
	}
	return device, nil
}
