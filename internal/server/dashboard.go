package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	authdomain "github.com/upeonet/mtandao/internal/auth/domain"
)

// Dashboard resolves by the caller's role. The switch is exhaustive
// over the role enum; an unknown role is rejected.
func (s *Server) Dashboard(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	switch user.Role {
	case authdomain.RoleCustomer:
		if user.CustomerID == nil {
			AbortWithError(c, ErrForbidden)
			return
		}
		resp, err := s.dashboardSvc.Customer(c.Request.Context(), user.CustomerID.String())
		if err != nil {
			AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": resp})
	case authdomain.RoleSupport:
		resp, err := s.dashboardSvc.Support(c.Request.Context())
		if err != nil {
			AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": resp})
	case authdomain.RoleAdmin:
		resp, err := s.dashboardSvc.Admin(c.Request.Context())
		if err != nil {
			AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": resp})
	default:
		AbortWithError(c, ErrForbidden)
	}
}
