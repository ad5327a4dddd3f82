package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	authdomain "github.com/upeonet/mtandao/internal/auth/domain"
	"go.uber.org/zap"
)

func setUser(user *authdomain.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		if user != nil {
			c.Set(ctxUserKey, user)
		}
		c.Next()
	}
}

func roleGuardStatus(t *testing.T, user *authdomain.User, guard func(s *Server) gin.HandlerFunc) int {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s := &Server{log: zap.NewNop()}
	engine := gin.New()
	engine.Use(ErrorHandlingMiddleware())
	engine.GET("/guarded", setUser(user), guard(s), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec.Code
}

func TestRequireStaff(t *testing.T) {
	staffGuard := func(s *Server) gin.HandlerFunc { return s.RequireStaff() }

	cases := []struct {
		name string
		user *authdomain.User
		want int
	}{
		{"no session", nil, http.StatusUnauthorized},
		{"customer", &authdomain.User{ID: snowflake.ID(1), Role: authdomain.RoleCustomer}, http.StatusForbidden},
		{"support", &authdomain.User{ID: snowflake.ID(2), Role: authdomain.RoleSupport}, http.StatusOK},
		{"admin", &authdomain.User{ID: snowflake.ID(3), Role: authdomain.RoleAdmin}, http.StatusOK},
		{"unknown role", &authdomain.User{ID: snowflake.ID(4), Role: authdomain.Role("root")}, http.StatusForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, roleGuardStatus(t, tc.user, staffGuard))
		})
	}
}

func TestRequireRole(t *testing.T) {
	adminGuard := func(s *Server) gin.HandlerFunc { return s.RequireRole(authdomain.RoleAdmin) }

	cases := []struct {
		name string
		user *authdomain.User
		want int
	}{
		{"no session", nil, http.StatusUnauthorized},
		{"customer", &authdomain.User{ID: snowflake.ID(1), Role: authdomain.RoleCustomer}, http.StatusForbidden},
		{"support", &authdomain.User{ID: snowflake.ID(2), Role: authdomain.RoleSupport}, http.StatusForbidden},
		{"admin", &authdomain.User{ID: snowflake.ID(3), Role: authdomain.RoleAdmin}, http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, roleGuardStatus(t, tc.user, adminGuard))
		})
	}
}
