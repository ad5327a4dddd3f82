package domain

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

type CreatePlanRequest struct {
	Name         string
	SpeedMbps    int
	Price        decimal.Decimal
	BillingCycle string
	Description  string
}

type UpdatePlanRequest struct {
	ID           string
	Name         *string
	SpeedMbps    *int
	Price        *decimal.Decimal
	BillingCycle *string
	Description  *string
	Active       *bool
}

type ListPlanRequest struct {
	ActiveOnly bool
}

type GetPlanRequest struct {
	ID string
}

type Service interface {
	Create(context.Context, CreatePlanRequest) (Plan, error)
	Update(context.Context, UpdatePlanRequest) (Plan, error)
	List(context.Context, ListPlanRequest) ([]Plan, error)
	GetByID(context.Context, GetPlanRequest) (Plan, error)
}

var (
	ErrInvalidName         = errors.New("invalid_name")
	ErrInvalidSpeed        = errors.New("invalid_speed")
	ErrInvalidPrice        = errors.New("invalid_price")
	ErrInvalidBillingCycle = errors.New("invalid_billing_cycle")
	ErrInvalidID           = errors.New("invalid_id")
	ErrNotFound            = errors.New("not_found")
)
