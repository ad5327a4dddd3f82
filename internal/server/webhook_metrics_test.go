package server

import (
	"context"
	"net/http"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	customerdomain "github.com/upeonet/mtandao/internal/customer/domain"
	customerrepository "github.com/upeonet/mtandao/internal/customer/repository"
	customerservice "github.com/upeonet/mtandao/internal/customer/service"
	notificationdomain "github.com/upeonet/mtandao/internal/notification/domain"
	notificationrepository "github.com/upeonet/mtandao/internal/notification/repository"
	notificationservice "github.com/upeonet/mtandao/internal/notification/service"
	obsmetrics "github.com/upeonet/mtandao/internal/observability/metrics"
	paymentdomain "github.com/upeonet/mtandao/internal/payment/domain"
	paymentrepository "github.com/upeonet/mtandao/internal/payment/repository"
	paymentservice "github.com/upeonet/mtandao/internal/payment/service"
	planrepository "github.com/upeonet/mtandao/internal/plan/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type noopDispatcher struct{}

func (noopDispatcher) Dispatch(ctx context.Context, phoneNumber, message, paymentID string) error {
	_ = ctx
	_ = phoneNumber
	_ = message
	_ = paymentID
	return nil
}

// Each webhook outcome must land on the counter exactly once, whether
// the handler or the payment service observed it.
func TestPaymentWebhook_CountsOutcomeOnce(t *testing.T) {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open("file:webhook_metrics?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&customerdomain.Customer{},
		&paymentdomain.QueuedPayment{},
		&paymentdomain.Payment{},
		&notificationdomain.Notification{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	logger := zap.NewNop()

	reg := prometheus.NewRegistry()
	m, err := obsmetrics.New(reg)
	require.NoError(t, err)

	customerSvc := customerservice.New(customerservice.Params{
		DB: db, Log: logger, GenID: node,
		Repo:     customerrepository.Provide(),
		PlanRepo: planrepository.Provide(),
	})
	notificationSvc := notificationservice.New(notificationservice.Params{
		DB: db, Log: logger, GenID: node,
		Repo:       notificationrepository.Provide(),
		Dispatcher: noopDispatcher{},
	})
	paymentSvc := paymentservice.New(paymentservice.Params{
		DB: db, Log: logger, GenID: node,
		Repo:            paymentrepository.Provide(),
		CustomerRepo:    customerrepository.Provide(),
		NotificationSvc: notificationSvc,
		Metrics:         m,
	})

	_, err = customerSvc.Create(context.Background(), customerdomain.CreateCustomerRequest{
		Name:  "Jane Wanjiku",
		Email: "jane@example.com",
		Phone: "0712000001",
	})
	require.NoError(t, err)

	s := &Server{
		engine:     gin.New(),
		log:        logger,
		metrics:    m,
		paymentSvc: paymentSvc,
	}
	s.engine.POST("/webhooks/payments", s.PaymentWebhook)

	rec := postWebhook(t, s.engine, `{"transaction_id":"MP800","amount":1500,"phone_number":"0712000001"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), webhookOutcomeCount(t, reg, "completed"))

	rec = postWebhook(t, s.engine, `{"transaction_id":"MP801","amount":1500,"phone_number":"0700999888"}`)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, float64(1), webhookOutcomeCount(t, reg, "customer_not_found"))

	// Malformed JSON is counted by the handler; a payload that decodes
	// but fails validation is counted by the service. Exactly two.
	rec = postWebhook(t, s.engine, `{"transaction_id":`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	rec = postWebhook(t, s.engine, `{"transaction_id":"MP802","phone_number":"0712000001"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, float64(2), webhookOutcomeCount(t, reg, "invalid"))

	var total float64
	for _, result := range []string{"completed", "customer_not_found", "invalid"} {
		total += webhookOutcomeCount(t, reg, result)
	}
	assert.Equal(t, float64(4), total)
}

func webhookOutcomeCount(t *testing.T, reg *prometheus.Registry, result string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, family := range families {
		if family.GetName() != "mtandao_payment_webhooks_total" {
			continue
		}
		for _, metric := range family.GetMetric() {
			for _, label := range metric.GetLabel() {
				if label.GetName() == "result" && label.GetValue() == result {
					return metric.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}
