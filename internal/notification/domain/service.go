package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type SendRequest struct {
	PaymentID   *snowflake.ID
	PhoneNumber string
	Message     string
}

// Service records an outbound notification and dispatches it best effort.
// Send never fails the caller for dispatch problems; only the insert of the
// notification record can return an error.
type Service interface {
	Send(ctx context.Context, req SendRequest) (Notification, error)
}

// Dispatcher delivers a message through an external gateway.
type Dispatcher interface {
	Dispatch(ctx context.Context, phoneNumber, message string, paymentID string) error
}
