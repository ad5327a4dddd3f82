package domain

import (
	"context"
	"errors"
	"strings"

	"github.com/upeonet/mtandao/pkg/db/pagination"
)

// NormalizePhone reduces a phone number to digits plus an optional
// leading +. Customer rows store this form and every phone lookup goes
// through it, so gateway formatting ("0712-000-001", "0712 000 001")
// still matches. Returns "" when fewer than seven digits remain.
func NormalizePhone(raw string) string {
	raw = strings.TrimSpace(raw)
	var b strings.Builder
	for i, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
			continue
		}
		if r == '+' && i == 0 {
			b.WriteRune(r)
			continue
		}
	}
	out := b.String()
	if len(strings.TrimPrefix(out, "+")) < 7 {
		return ""
	}
	return out
}

type CreateCustomerRequest struct {
	Name    string
	Email   string
	Phone   string
	PlanID  string
	Address string
}

type UpdateCustomerRequest struct {
	ID      string
	Name    *string
	Email   *string
	Phone   *string
	PlanID  *string
	Status  *string
	Address *string
}

type ListCustomerRequest struct {
	PageToken string
	PageSize  int32
	Name      string
	Phone     string
	Status    string
}

type ListCustomerResponse struct {
	pagination.PageInfo
	Customers []Customer `json:"customers"`
}

type ListCustomerFilter struct {
	Name   string
	Phone  string
	Status string
}

type GetCustomerRequest struct {
	ID string
}

type Service interface {
	Create(context.Context, CreateCustomerRequest) (Customer, error)
	Update(context.Context, UpdateCustomerRequest) (Customer, error)
	List(context.Context, ListCustomerRequest) (ListCustomerResponse, error)
	GetByID(context.Context, GetCustomerRequest) (Customer, error)
	GetByPhone(ctx context.Context, phone string) (Customer, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
}

var (
	ErrInvalidName   = errors.New("invalid_name")
	ErrInvalidEmail  = errors.New("invalid_email")
	ErrInvalidPhone  = errors.New("invalid_phone")
	ErrInvalidPlan   = errors.New("invalid_plan")
	ErrInvalidStatus = errors.New("invalid_status")
	ErrInvalidID     = errors.New("invalid_id")
	ErrNotFound      = errors.New("not_found")
)
