package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	customerdomain "github.com/upeonet/mtandao/internal/customer/domain"
	notificationdomain "github.com/upeonet/mtandao/internal/notification/domain"
	"github.com/upeonet/mtandao/internal/observability/metrics"
	"github.com/upeonet/mtandao/internal/payment/domain"
	"github.com/upeonet/mtandao/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB              *gorm.DB
	Log             *zap.Logger
	GenID           *snowflake.Node
	Repo            domain.Repository
	CustomerRepo    customerdomain.Repository
	NotificationSvc notificationdomain.Service
	Metrics         *metrics.Metrics `optional:"true"`
}

type Service struct {
	db              *gorm.DB
	log             *zap.Logger
	genID           *snowflake.Node
	repo            domain.Repository
	customerRepo    customerdomain.Repository
	notificationSvc notificationdomain.Service
	metrics         *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:              p.DB,
		log:             p.Log.Named("payment.service"),
		genID:           p.GenID,
		repo:            p.Repo,
		customerRepo:    p.CustomerRepo,
		notificationSvc: p.NotificationSvc,
		metrics:         p.Metrics,
	}
}

// ProcessNotification posts one mobile money notification to a customer
// account. Every call writes exactly one payment_queue row before any
// matching logic runs; a payments row is written only on a successful
// customer match. Nothing is retried here, the gateway retries on its own
// schedule. There is deliberately no uniqueness check on transaction_id:
// a resubmitted transaction produces a second independent payment (kept
// for parity with the reconciliation tooling, see DESIGN.md).
func (s *Service) ProcessNotification(ctx context.Context, notification domain.Notification) (domain.ProcessResult, error) {
	if err := validateNotification(notification); err != nil {
		s.countWebhook("invalid")
		return domain.ProcessResult{}, err
	}

	now := time.Now().UTC()
	receivedAt := now
	if notification.Timestamp != nil {
		receivedAt = notification.Timestamp.UTC()
	}

	queued := domain.QueuedPayment{
		ID:               s.genID.Generate(),
		TransactionID:    strings.TrimSpace(notification.TransactionID),
		Amount:           notification.Amount,
		PhoneNumber:      customerdomain.NormalizePhone(notification.PhoneNumber),
		AccountReference: strings.TrimSpace(notification.AccountReference),
		Payload:          datatypes.JSON(notification.RawPayload),
		Status:           domain.QueueStatusPending,
		ReceivedAt:       receivedAt,
	}
	if err := s.repo.InsertQueued(ctx, s.db, &queued); err != nil {
		// Intake failed: nothing recorded, the gateway is expected to
		// retry out of band.
		s.log.Error("payment intake failed",
			zap.String("transaction_id", queued.TransactionID),
			zap.Error(err),
		)
		s.countWebhook("intake_error")
		return domain.ProcessResult{}, err
	}

	// The queue row already holds the normalized phone, the same form
	// customer rows store.
	customer, err := s.customerRepo.FindByPhone(ctx, s.db, queued.PhoneNumber)
	if err != nil || customer == nil {
		reason := "no customer with phone " + queued.PhoneNumber
		if err != nil {
			reason = err.Error()
		}
		s.markFailed(ctx, queued.ID, reason)
		s.countWebhook("customer_not_found")
		return domain.ProcessResult{}, domain.ErrCustomerNotFound
	}

	payment := domain.Payment{
		ID:            s.genID.Generate(),
		CustomerID:    customer.ID,
		Amount:        queued.Amount,
		Method:        domain.MethodMobileMoney,
		TransactionID: queued.TransactionID,
		PhoneNumber:   queued.PhoneNumber,
		Status:        domain.PaymentStatusCompleted,
		CreatedAt:     now,
	}
	if err := s.repo.InsertPayment(ctx, s.db, &payment); err != nil {
		s.markFailed(ctx, queued.ID, err.Error())
		s.countWebhook("payment_error")
		return domain.ProcessResult{}, err
	}

	if err := s.repo.MarkQueued(ctx, s.db, queued.ID, domain.QueueStatusCompleted, "", time.Now().UTC()); err != nil {
		// The payment is already posted; a stale pending row is a
		// reconciliation nuisance, not a failure.
		s.log.Warn("failed to complete payment queue entry",
			zap.String("queue_id", queued.ID.String()),
			zap.Error(err),
		)
	}

	s.sendConfirmation(ctx, payment, customer.Name)
	s.countWebhook("completed")

	s.log.Info("payment posted",
		zap.String("payment_id", payment.ID.String()),
		zap.String("transaction_id", payment.TransactionID),
		zap.String("customer_id", customer.ID.String()),
	)

	return domain.ProcessResult{
		PaymentID:    payment.ID,
		CustomerID:   customer.ID,
		CustomerName: customer.Name,
	}, nil
}

func (s *Service) Record(ctx context.Context, req domain.RecordPaymentRequest) (domain.Payment, error) {
	customerID, err := snowflake.ParseString(strings.TrimSpace(req.CustomerID))
	if err != nil {
		return domain.Payment{}, domain.ErrInvalidCustomer
	}
	if req.Amount.Cmp(decimal.Zero) <= 0 {
		return domain.Payment{}, domain.ErrInvalidAmount
	}
	method := strings.TrimSpace(req.Method)
	if !domain.ValidMethod(method) {
		return domain.Payment{}, domain.ErrInvalidMethod
	}

	customer, err := s.customerRepo.FindByID(ctx, s.db, customerID)
	if err != nil {
		return domain.Payment{}, err
	}
	if customer == nil {
		return domain.Payment{}, domain.ErrCustomerNotFound
	}

	payment := domain.Payment{
		ID:            s.genID.Generate(),
		CustomerID:    customer.ID,
		Amount:        req.Amount,
		Method:        method,
		TransactionID: strings.TrimSpace(req.TransactionID),
		PhoneNumber:   customer.Phone,
		Status:        domain.PaymentStatusCompleted,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.repo.InsertPayment(ctx, s.db, &payment); err != nil {
		return domain.Payment{}, err
	}

	return payment, nil
}

func (s *Service) List(ctx context.Context, req domain.ListPaymentRequest) (domain.ListPaymentResponse, error) {
	filter := domain.ListPaymentFilter{
		Method: strings.TrimSpace(req.Method),
		From:   req.From,
		To:     req.To,
	}
	if strings.TrimSpace(req.CustomerID) != "" {
		id, err := snowflake.ParseString(strings.TrimSpace(req.CustomerID))
		if err != nil {
			return domain.ListPaymentResponse{}, domain.ErrInvalidCustomer
		}
		filter.CustomerID = id
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	items, err := s.repo.ListPayments(ctx, s.db, filter, pagination.Pagination{
		PageToken: req.PageToken,
		PageSize:  int(pageSize),
	})
	if err != nil {
		return domain.ListPaymentResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(payment *domain.Payment) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        payment.ID.String(),
			CreatedAt: payment.CreatedAt.Format(time.RFC3339),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > int(pageSize) {
		items = items[:pageSize]
	}

	payments := make([]domain.Payment, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		payments = append(payments, *item)
	}

	resp := domain.ListPaymentResponse{Payments: payments}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}
	return resp, nil
}

func (s *Service) ListByCustomer(ctx context.Context, customerID snowflake.ID, limit int) ([]domain.Payment, error) {
	items, err := s.repo.ListByCustomer(ctx, s.db, customerID, limit)
	if err != nil {
		return nil, err
	}
	payments := make([]domain.Payment, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		payments = append(payments, *item)
	}
	return payments, nil
}

func (s *Service) ListQueue(ctx context.Context, req domain.ListQueueRequest) ([]domain.QueuedPayment, error) {
	status := strings.TrimSpace(req.Status)
	switch status {
	case "", domain.QueueStatusPending, domain.QueueStatusCompleted, domain.QueueStatusFailed:
	default:
		return nil, domain.ErrNotFound
	}

	items, err := s.repo.ListQueue(ctx, s.db, status, req.Limit)
	if err != nil {
		return nil, err
	}
	queue := make([]domain.QueuedPayment, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		queue = append(queue, *item)
	}
	return queue, nil
}

func (s *Service) RevenueSince(ctx context.Context, since time.Time) (decimal.Decimal, error) {
	return s.repo.SumCompletedSince(ctx, s.db, since)
}

func (s *Service) CountQueueByStatus(ctx context.Context) (map[string]int64, error) {
	return s.repo.CountQueueByStatus(ctx, s.db)
}

func (s *Service) markFailed(ctx context.Context, id snowflake.ID, reason string) {
	if err := s.repo.MarkQueued(ctx, s.db, id, domain.QueueStatusFailed, reason, time.Now().UTC()); err != nil {
		s.log.Error("failed to mark payment queue entry failed",
			zap.String("queue_id", id.String()),
			zap.Error(err),
		)
	}
}

// sendConfirmation is best effort: the dispatch result never affects the
// posted payment.
func (s *Service) sendConfirmation(ctx context.Context, payment domain.Payment, customerName string) {
	message := fmt.Sprintf(
		"Dear %s, your payment of KES %s has been received. Ref: %s. Thank you.",
		customerName,
		payment.Amount.StringFixed(2),
		payment.TransactionID,
	)

	paymentID := payment.ID
	if _, err := s.notificationSvc.Send(ctx, notificationdomain.SendRequest{
		PaymentID:   &paymentID,
		PhoneNumber: payment.PhoneNumber,
		Message:     message,
	}); err != nil {
		s.log.Warn("payment confirmation not recorded",
			zap.String("payment_id", payment.ID.String()),
			zap.Error(err),
		)
	}
}

func (s *Service) countWebhook(result string) {
	if s.metrics != nil {
		s.metrics.PaymentWebhook(result)
	}
}

func validateNotification(notification domain.Notification) error {
	if strings.TrimSpace(notification.TransactionID) == "" {
		return domain.ErrInvalidTransactionID
	}
	if notification.Amount.Cmp(decimal.Zero) <= 0 {
		return domain.ErrInvalidAmount
	}
	if customerdomain.NormalizePhone(notification.PhoneNumber) == "" {
		return domain.ErrInvalidPhone
	}
	return nil
}
