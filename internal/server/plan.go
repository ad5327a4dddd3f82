package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	plandomain "github.com/upeonet/mtandao/internal/plan/domain"
)

type createPlanRequest struct {
	Name         string          `json:"name"`
	SpeedMbps    int             `json:"speed_mbps"`
	Price        decimal.Decimal `json:"price"`
	BillingCycle string          `json:"billing_cycle"`
	Description  string          `json:"description"`
}

func (s *Server) CreatePlan(c *gin.Context) {
	var req createPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.planSvc.Create(c.Request.Context(), plandomain.CreatePlanRequest{
		Name:         strings.TrimSpace(req.Name),
		SpeedMbps:    req.SpeedMbps,
		Price:        req.Price,
		BillingCycle: strings.TrimSpace(req.BillingCycle),
		Description:  strings.TrimSpace(req.Description),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListPlans(c *gin.Context) {
	var query struct {
		ActiveOnly bool `form:"active_only"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.planSvc.List(c.Request.Context(), plandomain.ListPlanRequest{
		ActiveOnly: query.ActiveOnly,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetPlanByID(c *gin.Context) {
	resp, err := s.planSvc.GetByID(c.Request.Context(), plandomain.GetPlanRequest{
		ID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type updatePlanRequest struct {
	Name         *string          `json:"name"`
	SpeedMbps    *int             `json:"speed_mbps"`
	Price        *decimal.Decimal `json:"price"`
	BillingCycle *string          `json:"billing_cycle"`
	Description  *string          `json:"description"`
	Active       *bool            `json:"active"`
}

func (s *Server) UpdatePlan(c *gin.Context) {
	var req updatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.planSvc.Update(c.Request.Context(), plandomain.UpdatePlanRequest{
		ID:           strings.TrimSpace(c.Param("id")),
		Name:         req.Name,
		SpeedMbps:    req.SpeedMbps,
		Price:        req.Price,
		BillingCycle: req.BillingCycle,
		Description:  req.Description,
		Active:       req.Active,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func isPlanValidationError(err error) bool {
	switch err {
	case plandomain.ErrInvalidName,
		plandomain.ErrInvalidSpeed,
		plandomain.ErrInvalidPrice,
		plandomain.ErrInvalidBillingCycle,
		plandomain.ErrInvalidID:
		return true
	default:
		return false
	}
}
