package domain

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	customerdomain "github.com/upeonet/mtandao/internal/customer/domain"
	paymentdomain "github.com/upeonet/mtandao/internal/payment/domain"
	plandomain "github.com/upeonet/mtandao/internal/plan/domain"
	ticketdomain "github.com/upeonet/mtandao/internal/ticket/domain"
)

// CustomerDashboard is what a subscriber sees after login.
type CustomerDashboard struct {
	Customer       customerdomain.Customer `json:"customer"`
	Plan           *plandomain.Plan        `json:"plan,omitempty"`
	Balance        decimal.Decimal         `json:"balance"`
	RecentPayments []paymentdomain.Payment `json:"recent_payments"`
	OpenTickets    []ticketdomain.Ticket   `json:"open_tickets"`
}

type SupportDashboard struct {
	TicketCounts  map[string]int64      `json:"ticket_counts"`
	RecentTickets []ticketdomain.Ticket `json:"recent_tickets"`
	DeviceCounts  map[string]int64      `json:"device_counts"`
}

type AdminDashboard struct {
	CustomerCounts  map[string]int64 `json:"customer_counts"`
	RevenueMTD      decimal.Decimal  `json:"revenue_mtd"`
	QueueCounts     map[string]int64 `json:"queue_counts"`
	TicketCounts    map[string]int64 `json:"ticket_counts"`
	DevicesOffline  int64            `json:"devices_offline"`
	DevicesDegraded int64            `json:"devices_degraded"`
}

type Service interface {
	Customer(ctx context.Context, customerID string) (CustomerDashboard, error)
	Support(ctx context.Context) (SupportDashboard, error)
	Admin(ctx context.Context) (AdminDashboard, error)
}

var (
	ErrNoCustomer = errors.New("no_customer")
	ErrNotFound   = errors.New("not_found")
)
