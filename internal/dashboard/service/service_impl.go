package service

import (
	"context"
	"errors"
	"time"

	"github.com/upeonet/mtandao/internal/dashboard/domain"
	customerdomain "github.com/upeonet/mtandao/internal/customer/domain"
	devicedomain "github.com/upeonet/mtandao/internal/device/domain"
	paymentdomain "github.com/upeonet/mtandao/internal/payment/domain"
	plandomain "github.com/upeonet/mtandao/internal/plan/domain"
	ticketdomain "github.com/upeonet/mtandao/internal/ticket/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const recentLimit = 10

type Params struct {
	fx.In

	Log         *zap.Logger
	CustomerSvc customerdomain.Service
	PlanSvc     plandomain.Service
	PaymentSvc  paymentdomain.Service
	TicketSvc   ticketdomain.Service
	DeviceSvc   devicedomain.Service
}

type service struct {
	log         *zap.Logger
	customerSvc customerdomain.Service
	planSvc     plandomain.Service
	paymentSvc  paymentdomain.Service
	ticketSvc   ticketdomain.Service
	deviceSvc   devicedomain.Service
}

func New(p Params) domain.Service {
	return &service{
		log:         p.Log.Named("dashboard.service"),
		customerSvc: p.CustomerSvc,
		planSvc:     p.PlanSvc,
		paymentSvc:  p.PaymentSvc,
		ticketSvc:   p.TicketSvc,
		deviceSvc:   p.DeviceSvc,
	}
}

func (s *service) Customer(ctx context.Context, customerID string) (domain.CustomerDashboard, error) {
	if customerID == "" {
		return domain.CustomerDashboard{}, domain.ErrNoCustomer
	}

	customer, err := s.customerSvc.GetByID(ctx, customerdomain.GetCustomerRequest{ID: customerID})
	if err != nil {
		if errors.Is(err, customerdomain.ErrNotFound) || errors.Is(err, customerdomain.ErrInvalidID) {
			return domain.CustomerDashboard{}, domain.ErrNotFound
		}
		return domain.CustomerDashboard{}, err
	}

	dash := domain.CustomerDashboard{
		Customer: customer,
		Balance:  customer.Balance,
	}

	if customer.PlanID != nil {
		plan, err := s.planSvc.GetByID(ctx, plandomain.GetPlanRequest{ID: customer.PlanID.String()})
		if err == nil {
			dash.Plan = &plan
		} else if !errors.Is(err, plandomain.ErrNotFound) {
			return domain.CustomerDashboard{}, err
		}
	}

	payments, err := s.paymentSvc.ListByCustomer(ctx, customer.ID, recentLimit)
	if err != nil {
		return domain.CustomerDashboard{}, err
	}
	dash.RecentPayments = payments

	tickets, err := s.ticketSvc.List(ctx, ticketdomain.ListTicketRequest{
		CustomerID: customer.ID,
		Status:     ticketdomain.StatusOpen,
		Limit:      recentLimit,
	})
	if err != nil {
		return domain.CustomerDashboard{}, err
	}
	dash.OpenTickets = tickets

	return dash, nil
}

func (s *service) Support(ctx context.Context) (domain.SupportDashboard, error) {
	ticketCounts, err := s.ticketSvc.CountByStatus(ctx)
	if err != nil {
		return domain.SupportDashboard{}, err
	}

	recent, err := s.ticketSvc.List(ctx, ticketdomain.ListTicketRequest{Limit: recentLimit})
	if err != nil {
		return domain.SupportDashboard{}, err
	}

	deviceCounts, err := s.deviceSvc.CountByStatus(ctx)
	if err != nil {
		return domain.SupportDashboard{}, err
	}

	return domain.SupportDashboard{
		TicketCounts:  ticketCounts,
		RecentTickets: recent,
		DeviceCounts:  deviceCounts,
	}, nil
}

func (s *service) Admin(ctx context.Context) (domain.AdminDashboard, error) {
	customerCounts, err := s.customerSvc.CountByStatus(ctx)
	if err != nil {
		return domain.AdminDashboard{}, err
	}

	now := time.Now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	revenue, err := s.paymentSvc.RevenueSince(ctx, monthStart)
	if err != nil {
		return domain.AdminDashboard{}, err
	}

	queueCounts, err := s.paymentSvc.CountQueueByStatus(ctx)
	if err != nil {
		return domain.AdminDashboard{}, err
	}

	ticketCounts, err := s.ticketSvc.CountByStatus(ctx)
	if err != nil {
		return domain.AdminDashboard{}, err
	}

	deviceCounts, err := s.deviceSvc.CountByStatus(ctx)
	if err != nil {
		return domain.AdminDashboard{}, err
	}

	return domain.AdminDashboard{
		CustomerCounts:  customerCounts,
		RevenueMTD:      revenue,
		QueueCounts:     queueCounts,
		TicketCounts:    ticketCounts,
		DevicesOffline:  deviceCounts[devicedomain.StatusOffline],
		DevicesDegraded: deviceCounts[devicedomain.StatusDegraded],
	}, nil
}
