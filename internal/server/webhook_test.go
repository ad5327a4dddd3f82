package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	paymentdomain "github.com/upeonet/mtandao/internal/payment/domain"
	"go.uber.org/zap"
)

type fakePaymentService struct {
	result paymentdomain.ProcessResult
	err    error
	last   *paymentdomain.Notification
}

func (f *fakePaymentService) ProcessNotification(ctx context.Context, notification paymentdomain.Notification) (paymentdomain.ProcessResult, error) {
	_ = ctx
	f.last = &notification
	return f.result, f.err
}

func (f *fakePaymentService) Record(ctx context.Context, req paymentdomain.RecordPaymentRequest) (paymentdomain.Payment, error) {
	_ = ctx
	_ = req
	return paymentdomain.Payment{}, nil
}

func (f *fakePaymentService) List(ctx context.Context, req paymentdomain.ListPaymentRequest) (paymentdomain.ListPaymentResponse, error) {
	_ = ctx
	_ = req
	return paymentdomain.ListPaymentResponse{}, nil
}

func (f *fakePaymentService) ListByCustomer(ctx context.Context, customerID snowflake.ID, limit int) ([]paymentdomain.Payment, error) {
	_ = ctx
	_ = customerID
	_ = limit
	return nil, nil
}

func (f *fakePaymentService) ListQueue(ctx context.Context, req paymentdomain.ListQueueRequest) ([]paymentdomain.QueuedPayment, error) {
	_ = ctx
	_ = req
	return nil, nil
}

func (f *fakePaymentService) RevenueSince(ctx context.Context, since time.Time) (decimal.Decimal, error) {
	_ = ctx
	_ = since
	return decimal.Zero, nil
}

func (f *fakePaymentService) CountQueueByStatus(ctx context.Context) (map[string]int64, error) {
	_ = ctx
	return nil, nil
}

func newWebhookTestServer(svc paymentdomain.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	s := &Server{
		engine:     gin.New(),
		log:        zap.NewNop(),
		paymentSvc: svc,
	}
	s.engine.POST("/webhooks/payments", s.PaymentWebhook)
	return s.engine
}

func postWebhook(t *testing.T, engine *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/webhooks/payments", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestPaymentWebhook_Success(t *testing.T) {
	fake := &fakePaymentService{
		result: paymentdomain.ProcessResult{
			PaymentID:    snowflake.ID(42),
			CustomerID:   snowflake.ID(7),
			CustomerName: "Jane Wanjiku",
		},
	}
	engine := newWebhookTestServer(fake)

	rec := postWebhook(t, engine, `{"transaction_id":"MP123","amount":2500,"phone_number":"0712000001"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, "42", resp["payment_id"])
	assert.Equal(t, "Jane Wanjiku", resp["customer"])

	require.NotNil(t, fake.last)
	assert.Equal(t, "MP123", fake.last.TransactionID)
	assert.True(t, fake.last.Amount.Equal(decimal.NewFromInt(2500)))
	assert.JSONEq(t, `{"transaction_id":"MP123","amount":2500,"phone_number":"0712000001"}`, string(fake.last.RawPayload))
}

func TestPaymentWebhook_CustomerNotFound(t *testing.T) {
	fake := &fakePaymentService{err: paymentdomain.ErrCustomerNotFound}
	engine := newWebhookTestServer(fake)

	rec := postWebhook(t, engine, `{"transaction_id":"MP124","amount":100,"phone_number":"0799999999"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Customer not found"}`, rec.Body.String())
}

func TestPaymentWebhook_MalformedPayload(t *testing.T) {
	fake := &fakePaymentService{}
	engine := newWebhookTestServer(fake)

	rec := postWebhook(t, engine, `{"transaction_id":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Invalid payload"}`, rec.Body.String())
	assert.Nil(t, fake.last)
}

func TestPaymentWebhook_ValidationError(t *testing.T) {
	fake := &fakePaymentService{err: paymentdomain.ErrInvalidAmount}
	engine := newWebhookTestServer(fake)

	rec := postWebhook(t, engine, `{"transaction_id":"MP125","phone_number":"0712000001"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Invalid payload"}`, rec.Body.String())
}

func TestPaymentWebhook_ProcessingFailure(t *testing.T) {
	fake := &fakePaymentService{err: assert.AnError}
	engine := newWebhookTestServer(fake)

	rec := postWebhook(t, engine, `{"transaction_id":"MP126","amount":500,"phone_number":"0712000001"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Failed to process payment"}`, rec.Body.String())
}
