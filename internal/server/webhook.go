package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	paymentdomain "github.com/upeonet/mtandao/internal/payment/domain"
	"go.uber.org/zap"
)

type paymentWebhookRequest struct {
	TransactionID    string          `json:"transaction_id"`
	Amount           decimal.Decimal `json:"amount"`
	PhoneNumber      string          `json:"phone_number"`
	AccountReference string          `json:"account_reference"`
	Timestamp        *time.Time      `json:"timestamp"`
}

// PaymentWebhook receives mobile money notifications. The gateway is an
// external caller, so responses use its expected shapes instead of the
// error envelope the authenticated API uses.
func (s *Server) PaymentWebhook(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		s.metrics.PaymentWebhook("invalid")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}

	var req paymentWebhookRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		s.metrics.PaymentWebhook("invalid")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}

	result, err := s.paymentSvc.ProcessNotification(c.Request.Context(), paymentdomain.Notification{
		TransactionID:    req.TransactionID,
		Amount:           req.Amount,
		PhoneNumber:      req.PhoneNumber,
		AccountReference: req.AccountReference,
		Timestamp:        req.Timestamp,
		RawPayload:       raw,
	})
	if err != nil {
		// Outcomes past this point are counted by the payment service,
		// which knows the failure stage.
		switch {
		case isPaymentValidationError(err):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		case errors.Is(err, paymentdomain.ErrCustomerNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
		default:
			s.log.Error("payment webhook", zap.Error(err),
				zap.String("transaction_id", req.TransactionID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process payment"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"payment_id": result.PaymentID.String(),
		"customer":   result.CustomerName,
	})
}
