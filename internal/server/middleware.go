package server

import (
	"github.com/gin-gonic/gin"
	authdomain "github.com/upeonet/mtandao/internal/auth/domain"
)

const (
	ctxUserKey    = "auth.user"
	ctxSessionKey = "auth.session"
)

// RequireSession resolves the session cookie to a user and aborts with
// 401 when there is no valid session.
func (s *Server) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := s.sessions.ReadToken(c)
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		user, sess, err := s.authSvc.Authenticate(c.Request.Context(), token)
		if err != nil {
			s.sessions.Clear(c)
			AbortWithError(c, err)
			return
		}

		c.Set(ctxUserKey, user)
		c.Set(ctxSessionKey, sess)
		c.Next()
	}
}

// RequireRole allows only the listed roles through.
func (s *Server) RequireRole(roles ...authdomain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		for _, role := range roles {
			if user.Role == role {
				c.Next()
				return
			}
		}
		AbortWithError(c, ErrForbidden)
	}
}

// RequireStaff allows support and admin accounts.
func (s *Server) RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		if !user.Role.Staff() {
			AbortWithError(c, ErrForbidden)
			return
		}
		c.Next()
	}
}

func currentUser(c *gin.Context) (*authdomain.User, bool) {
	value, exists := c.Get(ctxUserKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*authdomain.User)
	if !ok || user == nil {
		return nil, false
	}
	return user, true
}
