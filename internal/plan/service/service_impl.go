package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/upeonet/mtandao/internal/plan/domain"
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

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("plan.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreatePlanRequest) (domain.Plan, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Plan{}, domain.ErrInvalidName
	}
	if req.SpeedMbps <= 0 {
		return domain.Plan{}, domain.ErrInvalidSpeed
	}
	if req.Price.IsNegative() || req.Price.IsZero() {
		return domain.Plan{}, domain.ErrInvalidPrice
	}
	cycle := strings.TrimSpace(req.BillingCycle)
	if cycle == "" {
		cycle = domain.BillingCycleMonthly
	}
	if !domain.ValidBillingCycle(cycle) {
		return domain.Plan{}, domain.ErrInvalidBillingCycle
	}

	now := time.Now().UTC()
	plan := domain.Plan{
		ID:           s.genID.Generate(),
		Name:         name,
		SpeedMbps:    req.SpeedMbps,
		Price:        req.Price,
		BillingCycle: cycle,
		Description:  strings.TrimSpace(req.Description),
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Insert(ctx, s.db, &plan); err != nil {
		return domain.Plan{}, err
	}

	return plan, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdatePlanRequest) (domain.Plan, error) {
	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.Plan{}, err
	}

	plan, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Plan{}, err
	}
	if plan == nil {
		return domain.Plan{}, domain.ErrNotFound
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.Plan{}, domain.ErrInvalidName
		}
		plan.Name = name
	}
	if req.SpeedMbps != nil {
		if *req.SpeedMbps <= 0 {
			return domain.Plan{}, domain.ErrInvalidSpeed
		}
		plan.SpeedMbps = *req.SpeedMbps
	}
	if req.Price != nil {
		if req.Price.Cmp(decimal.Zero) <= 0 {
			return domain.Plan{}, domain.ErrInvalidPrice
		}
		plan.Price = *req.Price
	}
	if req.BillingCycle != nil {
		if !domain.ValidBillingCycle(*req.BillingCycle) {
			return domain.Plan{}, domain.ErrInvalidBillingCycle
		}
		plan.BillingCycle = *req.BillingCycle
	}
	if req.Description != nil {
		plan.Description = strings.TrimSpace(*req.Description)
	}
	if req.Active != nil {
		plan.Active = *req.Active
	}
	plan.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, s.db, plan); err != nil {
		return domain.Plan{}, err
	}

	return *plan, nil
}

func (s *Service) List(ctx context.Context, req domain.ListPlanRequest) ([]domain.Plan, error) {
	items, err := s.repo.List(ctx, s.db, req.ActiveOnly)
	if err != nil {
		return nil, err
	}

	plans := make([]domain.Plan, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		plans = append(plans, *item)
	}
	return plans, nil
}

func (s *Service) GetByID(ctx context.Context, req domain.GetPlanRequest) (domain.Plan, error) {
	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.Plan{}, err
	}

	plan, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Plan{}, err
	}
	if plan == nil {
		return domain.Plan{}, domain.ErrNotFound
	}
	return *plan, nil
}

func (s *Service) parseID(raw string) (snowflake.ID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, domain.ErrInvalidID
	}
	id, err := snowflake.ParseString(raw)
	if err != nil {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
