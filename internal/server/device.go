package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	devicedomain "github.com/upeonet/mtandao/internal/device/domain"
)

type registerDeviceRequest struct {
	Name      string `json:"name"`
	Kind      string `json:"kind"`
	IPAddress string `json:"ip_address"`
	Location  string `json:"location"`
}

func (s *Server) RegisterDevice(c *gin.Context) {
	var req registerDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.deviceSvc.Register(c.Request.Context(), devicedomain.RegisterRequest{
		Name:      strings.TrimSpace(req.Name),
		Kind:      strings.TrimSpace(req.Kind),
		IPAddress: strings.TrimSpace(req.IPAddress),
		Location:  strings.TrimSpace(req.Location),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListDevices(c *gin.Context) {
	var query struct {
		Status string `form:"status"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.deviceSvc.List(c.Request.Context(), strings.TrimSpace(query.Status))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetDeviceByID(c *gin.Context) {
	resp, err := s.deviceSvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type updateDeviceStatusRequest struct {
	Status string `json:"status"`
}

func (s *Server) UpdateDeviceStatus(c *gin.Context) {
	var req updateDeviceStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.deviceSvc.UpdateStatus(c.Request.Context(), devicedomain.UpdateStatusRequest{
		DeviceID: strings.TrimSpace(c.Param("id")),
		Status:   strings.TrimSpace(req.Status),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeviceHeartbeat(c *gin.Context) {
	resp, err := s.deviceSvc.Heartbeat(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func isDeviceValidationError(err error) bool {
	switch err {
	case devicedomain.ErrInvalidName,
		devicedomain.ErrInvalidKind,
		devicedomain.ErrInvalidStatus,
		devicedomain.ErrInvalidID:
		return true
	default:
		return false
	}
}
