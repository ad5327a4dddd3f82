package service

import (
	"context"
	"errors"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	customerdomain "github.com/upeonet/mtandao/internal/customer/domain"
	customerrepository "github.com/upeonet/mtandao/internal/customer/repository"
	notificationdomain "github.com/upeonet/mtandao/internal/notification/domain"
	notificationrepository "github.com/upeonet/mtandao/internal/notification/repository"
	notificationservice "github.com/upeonet/mtandao/internal/notification/service"
	"github.com/upeonet/mtandao/internal/payment/domain"
	"github.com/upeonet/mtandao/internal/payment/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type dispatchCall struct {
	PhoneNumber string
	Message     string
	PaymentID   string
}

type fakeDispatcher struct {
	calls []dispatchCall
	err   error
}

func (f *fakeDispatcher) Dispatch(ctx context.Context, phoneNumber, message, paymentID string) error {
	_ = ctx
	f.calls = append(f.calls, dispatchCall{
		PhoneNumber: phoneNumber,
		Message:     message,
		PaymentID:   paymentID,
	})
	return f.err
}

func setupPaymentService(t *testing.T, dsn string, dispatcher notificationdomain.Dispatcher) (domain.Service, *gorm.DB, *snowflake.Node) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&customerdomain.Customer{},
		&domain.QueuedPayment{},
		&domain.Payment{},
		&notificationdomain.Notification{},
	)
	require.NoError(t, err)

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	logger := zap.NewNop()

	notificationSvc := notificationservice.New(notificationservice.Params{
		DB:         db,
		Log:        logger,
		GenID:      node,
		Repo:       notificationrepository.Provide(),
		Dispatcher: dispatcher,
	})

	svc := New(Params{
		DB:              db,
		Log:             logger,
		GenID:           node,
		Repo:            repository.Provide(),
		CustomerRepo:    customerrepository.Provide(),
		NotificationSvc: notificationSvc,
	})

	return svc, db, node
}

func seedCustomer(t *testing.T, db *gorm.DB, node *snowflake.Node, name, phone string) customerdomain.Customer {
	t.Helper()
	customer := customerdomain.Customer{
		ID:      node.Generate(),
		Name:    name,
		Email:   "customer@example.com",
		Phone:   phone,
		Status:  customerdomain.StatusActive,
		Balance: decimal.Zero,
	}
	require.NoError(t, db.Create(&customer).Error)
	return customer
}

func TestProcessNotification_MatchingCustomer(t *testing.T) {
	dispatcher := &fakeDispatcher{}
	svc, db, node := setupPaymentService(t, "file:payment_match?mode=memory&cache=shared", dispatcher)

	customer := seedCustomer(t, db, node, "Jane Wanjiku", "0712345678")

	result, err := svc.ProcessNotification(context.Background(), domain.Notification{
		TransactionID: "TX1001",
		Amount:        decimal.NewFromInt(1500),
		PhoneNumber:   "0712345678",
		RawPayload:    []byte(`{"transaction_id":"TX1001"}`),
	})
	require.NoError(t, err)
	assert.NotZero(t, result.PaymentID)
	assert.Equal(t, customer.ID, result.CustomerID)
	assert.Equal(t, "Jane Wanjiku", result.CustomerName)

	var queue []domain.QueuedPayment
	require.NoError(t, db.Find(&queue).Error)
	require.Len(t, queue, 1)
	assert.Equal(t, domain.QueueStatusCompleted, queue[0].Status)
	assert.NotNil(t, queue[0].ProcessedAt)

	var payments []domain.Payment
	require.NoError(t, db.Find(&payments).Error)
	require.Len(t, payments, 1)
	assert.Equal(t, result.PaymentID, payments[0].ID)
	assert.Equal(t, customer.ID, payments[0].CustomerID)
	assert.Equal(t, domain.MethodMobileMoney, payments[0].Method)
	assert.Equal(t, domain.PaymentStatusCompleted, payments[0].Status)

	require.Len(t, dispatcher.calls, 1)
	assert.Equal(t, "0712345678", dispatcher.calls[0].PhoneNumber)
	assert.Equal(t, result.PaymentID.String(), dispatcher.calls[0].PaymentID)
}

func TestProcessNotification_NoMatchingCustomer(t *testing.T) {
	dispatcher := &fakeDispatcher{}
	svc, db, _ := setupPaymentService(t, "file:payment_nomatch?mode=memory&cache=shared", dispatcher)

	_, err := svc.ProcessNotification(context.Background(), domain.Notification{
		TransactionID: "TX2001",
		Amount:        decimal.NewFromInt(900),
		PhoneNumber:   "0799999999",
	})
	require.ErrorIs(t, err, domain.ErrCustomerNotFound)

	var queue []domain.QueuedPayment
	require.NoError(t, db.Find(&queue).Error)
	require.Len(t, queue, 1)
	assert.Equal(t, domain.QueueStatusFailed, queue[0].Status)
	assert.Contains(t, queue[0].FailureReason, "0799999999")

	var paymentCount int64
	require.NoError(t, db.Model(&domain.Payment{}).Count(&paymentCount).Error)
	assert.Zero(t, paymentCount)

	assert.Empty(t, dispatcher.calls)
}

// Gateways format MSISDNs inconsistently; matching runs on the same
// normalized form customer rows store.
func TestProcessNotification_GatewayPhoneFormatting(t *testing.T) {
	dispatcher := &fakeDispatcher{}
	svc, db, node := setupPaymentService(t, "file:payment_phonefmt?mode=memory&cache=shared", dispatcher)

	customer := seedCustomer(t, db, node, "Grace Njeri", "0712000001")

	result, err := svc.ProcessNotification(context.Background(), domain.Notification{
		TransactionID: "TX5001",
		Amount:        decimal.NewFromInt(1000),
		PhoneNumber:   "0712-000-001",
	})
	require.NoError(t, err)
	assert.Equal(t, customer.ID, result.CustomerID)

	var queue []domain.QueuedPayment
	require.NoError(t, db.Find(&queue).Error)
	require.Len(t, queue, 1)
	assert.Equal(t, "0712000001", queue[0].PhoneNumber)

	// A phone that normalizes to nothing is a validation failure, not a
	// missed match.
	_, err = svc.ProcessNotification(context.Background(), domain.Notification{
		TransactionID: "TX5002",
		Amount:        decimal.NewFromInt(1000),
		PhoneNumber:   "n/a",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidPhone)
}

// A resubmitted transaction_id creates a second independent payment.
// There is no idempotency key on the intake path; this test pins that
// behavior so any future dedupe work has to change it consciously.
func TestProcessNotification_DuplicateTransactionID(t *testing.T) {
	dispatcher := &fakeDispatcher{}
	svc, db, node := setupPaymentService(t, "file:payment_dup?mode=memory&cache=shared", dispatcher)

	seedCustomer(t, db, node, "Peter Otieno", "0722000111")

	notification := domain.Notification{
		TransactionID: "TX3001",
		Amount:        decimal.NewFromInt(2000),
		PhoneNumber:   "0722000111",
	}

	first, err := svc.ProcessNotification(context.Background(), notification)
	require.NoError(t, err)
	second, err := svc.ProcessNotification(context.Background(), notification)
	require.NoError(t, err)
	assert.NotEqual(t, first.PaymentID, second.PaymentID)

	var payments []domain.Payment
	require.NoError(t, db.Where("transaction_id = ?", "TX3001").Find(&payments).Error)
	assert.Len(t, payments, 2)

	var queueCount int64
	require.NoError(t, db.Model(&domain.QueuedPayment{}).Count(&queueCount).Error)
	assert.Equal(t, int64(2), queueCount)
}

func TestProcessNotification_MissingAmount(t *testing.T) {
	dispatcher := &fakeDispatcher{}
	svc, db, _ := setupPaymentService(t, "file:payment_badamount?mode=memory&cache=shared", dispatcher)

	_, err := svc.ProcessNotification(context.Background(), domain.Notification{
		TransactionID: "TX4001",
		PhoneNumber:   "0712345678",
	})
	require.ErrorIs(t, err, domain.ErrInvalidAmount)

	var queueCount int64
	require.NoError(t, db.Model(&domain.QueuedPayment{}).Count(&queueCount).Error)
	assert.Zero(t, queueCount)

	var paymentCount int64
	require.NoError(t, db.Model(&domain.Payment{}).Count(&paymentCount).Error)
	assert.Zero(t, paymentCount)
}

func TestProcessNotification_EndToEnd(t *testing.T) {
	dispatcher := &fakeDispatcher{}
	svc, db, node := setupPaymentService(t, "file:payment_e2e?mode=memory&cache=shared", dispatcher)

	customer := seedCustomer(t, db, node, "Jane Wanjiku", "0712000001")

	result, err := svc.ProcessNotification(context.Background(), domain.Notification{
		TransactionID: "MP123",
		Amount:        decimal.NewFromInt(2500),
		PhoneNumber:   "0712000001",
		RawPayload:    []byte(`{"transaction_id":"MP123","amount":2500,"phone_number":"0712000001"}`),
	})
	require.NoError(t, err)
	assert.Equal(t, customer.ID, result.CustomerID)

	var payment domain.Payment
	require.NoError(t, db.Where("transaction_id = ?", "MP123").First(&payment).Error)
	assert.True(t, payment.Amount.Equal(decimal.NewFromInt(2500)))
	assert.Equal(t, "0712000001", payment.PhoneNumber)

	var notifications []notificationdomain.Notification
	require.NoError(t, db.Find(&notifications).Error)
	require.Len(t, notifications, 1)
	assert.Equal(t, notificationdomain.StatusSent, notifications[0].Status)
	assert.Contains(t, notifications[0].Message, "Jane Wanjiku")
	assert.Contains(t, notifications[0].Message, "KES 2500.00")
	assert.Contains(t, notifications[0].Message, "Ref: MP123")
}

func TestProcessNotification_SMSFailureDoesNotFailPayment(t *testing.T) {
	dispatcher := &fakeDispatcher{err: errors.New("gateway timeout")}
	svc, db, node := setupPaymentService(t, "file:payment_smsfail?mode=memory&cache=shared", dispatcher)

	seedCustomer(t, db, node, "Grace Njeri", "0733444555")

	result, err := svc.ProcessNotification(context.Background(), domain.Notification{
		TransactionID: "TX5001",
		Amount:        decimal.NewFromInt(1200),
		PhoneNumber:   "0733444555",
	})
	require.NoError(t, err)
	assert.NotZero(t, result.PaymentID)

	var notifications []notificationdomain.Notification
	require.NoError(t, db.Find(&notifications).Error)
	require.Len(t, notifications, 1)
	assert.Equal(t, notificationdomain.StatusFailed, notifications[0].Status)

	var queue domain.QueuedPayment
	require.NoError(t, db.First(&queue).Error)
	assert.Equal(t, domain.QueueStatusCompleted, queue.Status)
}

func TestRecord_ManualPayment(t *testing.T) {
	dispatcher := &fakeDispatcher{}
	svc, db, node := setupPaymentService(t, "file:payment_manual?mode=memory&cache=shared", dispatcher)

	customer := seedCustomer(t, db, node, "Ali Hassan", "0744555666")

	payment, err := svc.Record(context.Background(), domain.RecordPaymentRequest{
		CustomerID:    customer.ID.String(),
		Amount:        decimal.NewFromInt(3000),
		Method:        domain.MethodCash,
		TransactionID: "CASH-001",
	})
	require.NoError(t, err)
	assert.Equal(t, customer.ID, payment.CustomerID)
	assert.Equal(t, domain.MethodCash, payment.Method)

	_, err = svc.Record(context.Background(), domain.RecordPaymentRequest{
		CustomerID: customer.ID.String(),
		Amount:     decimal.NewFromInt(3000),
		Method:     "cheque",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidMethod)

	var count int64
	require.NoError(t, db.Model(&domain.Payment{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
