package httpapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/walletapi/internal/common"
	"github.com/dmitrijs2005/walletapi/internal/server/auth"
	"github.com/gin-gonic/gin"
)

const claimsKey = "walletapi.claims"

func (s *HTTPServer) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		s.logger.Info(c.Request.Context(), "request",
			"method", c.Request.Method,
			"path", path,
			"status", c.Writer.Status(),
			"latency", time.Since(start).String(),
		)
	}
}

// requireAuth rejects requests without a valid, unrevoked bearer token and
// stores its claims in the gin context.
func (s *HTTPServer) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := bearerToken(c.GetHeader(common.AuthorizationHeaderName))
		if err != nil {
			s.logger.Warn(c.Request.Context(), "authorization header invalid", "error", err, "path", c.Request.URL.Path)
			writeFailure(c, http.StatusUnauthorized, "authentication required", nil)
			return
		}

		claims, err := s.auth.Authorize(c.Request.Context(), token)
		if err != nil {
			s.logger.Warn(c.Request.Context(), "token validation failed", "error", err, "path", c.Request.URL.Path)
			s.writeError(c, err)
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

func claimsFromContext(c *gin.Context) (*auth.Claims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*auth.Claims)
	return claims, ok
}

func bearerToken(header string) (string, error) {
	if strings.TrimSpace(header) == "" {
		return "", errors.New("missing authorization header")
	}
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], common.BearerScheme) {
		return "", errors.New("invalid authorization header format")
	}
	return parts[1], nil
}
