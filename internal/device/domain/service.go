package domain

import (
	"context"
	"errors"
)

type RegisterRequest struct {
	Name      string
	Kind      string
	IPAddress string
	Location  string
}

type UpdateStatusRequest struct {
	DeviceID string
	Status   string
}

type Service interface {
	Register(ctx context.Context, req RegisterRequest) (Device, error)
	List(ctx context.Context, status string) ([]Device, error)
	GetByID(ctx context.Context, id string) (Device, error)
	UpdateStatus(ctx context.Context, req UpdateStatusRequest) (Device, error)
	Heartbeat(ctx context.Context, id string) (Device, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
}

var (
	ErrInvalidName   = errors.New("invalid_name")
	ErrInvalidKind   = errors.New("invalid_kind")
	ErrInvalidStatus = errors.New("invalid_status")
	ErrInvalidID     = errors.New("invalid_id")
	ErrNotFound      = errors.New("not_found")
)
