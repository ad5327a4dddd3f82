package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/upeonet/mtandao/internal/plan/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, plan *domain.Plan) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO plans (id, name, speed_mbps, price, billing_cycle, description, active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		plan.ID,
		plan.Name,
		plan.SpeedMbps,
		plan.Price,
		plan.BillingCycle,
		plan.Description,
		plan.Active,
		plan.CreatedAt,
		plan.UpdatedAt,
	).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, plan *domain.Plan) error {
	return db.WithContext(ctx).Exec(
		`UPDATE plans
		 SET name = ?, speed_mbps = ?, price = ?, billing_cycle = ?, description = ?, active = ?, updated_at = ?
		 WHERE id = ?`,
		plan.Name,
		plan.SpeedMbps,
		plan.Price,
		plan.BillingCycle,
		plan.Description,
		plan.Active,
		plan.UpdatedAt,
		plan.ID,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Plan, error) {
	var plan domain.Plan
	err := db.WithContext(ctx).Raw(
		`SELECT id, name, speed_mbps, price, billing_cycle, description, active, created_at, updated_at
		 FROM plans WHERE id = ?`,
		id,
	).Scan(&plan).Error
	if err != nil {
		return nil, err
	}
	if plan.ID == 0 {
		return nil, nil
	}
	return &plan, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, activeOnly bool) ([]*domain.Plan, error) {
	var plans []*domain.Plan
	stmt := db.WithContext(ctx).Model(&domain.Plan{})
	if activeOnly {
		stmt = stmt.Where("active = ?", true)
	}
	err := stmt.Order("price asc, id asc").Find(&plans).Error
	if err != nil {
		return nil, err
	}
	return plans, nil
}
