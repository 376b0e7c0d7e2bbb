package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/walletapi/internal/common"
	"github.com/dmitrijs2005/walletapi/internal/server/models"
	"github.com/dmitrijs2005/walletapi/internal/server/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const healthTimeout = 2 * time.Second

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string       `json:"token"`
	TokenType string       `json:"token_type"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user"`
}

func (s *HTTPServer) ListUsers(c *gin.Context) {
	users, err := s.users.ListUsers(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	writeSuccess(c, http.StatusOK, "users retrieved", users)
}

func (s *HTTPServer) CreateUser(c *gin.Context) {
	var req services.CreateUserInput
	if err := c.ShouldBindJSON(&req); err != nil {
		writeFailure(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	user, err := s.users.CreateUser(c.Request.Context(), req)
	if err != nil {
		s.writeError(c, err)
		return
	}

	s.logger.Info(c.Request.Context(), "Registered", "user_id", user.ID)
	writeSuccess(c, http.StatusCreated, "user created", user)
}

func (s *HTTPServer) DeleteUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		writeFailure(c, http.StatusBadRequest, "invalid user id", nil)
		return
	}

	if err := s.users.DeleteUser(c.Request.Context(), id); err != nil {
		s.writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Login returns the token in the body and in the Authorization header.
func (s *HTTPServer) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeFailure(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	res, err := s.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.Header(common.AuthorizationHeaderName, common.BearerScheme+" "+res.Token)
	writeSuccess(c, http.StatusOK, "login successful", loginResponse{
		Token:     res.Token,
		TokenType: common.BearerScheme,
		ExpiresAt: res.ExpiresAt,
		User:      res.User,
	})
}

func (s *HTTPServer) Me(c *gin.Context) {
	claims, ok := claimsFromContext(c)
	if !ok {
		writeFailure(c, http.StatusUnauthorized, "authentication required", nil)
		return
	}

	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		writeFailure(c, http.StatusUnauthorized, "authentication required", nil)
		return
	}

	user, err := s.users.GetUser(c.Request.Context(), id)
	if err != nil {
		// the token outlived its subject
		if errors.Is(err, common.ErrorNotFound) {
			writeFailure(c, http.StatusUnauthorized, "authentication required", nil)
			return
		}
		s.writeError(c, err)
		return
	}
	writeSuccess(c, http.StatusOK, "current user", user)
}

func (s *HTTPServer) Logout(c *gin.Context) {
	claims, ok := claimsFromContext(c)
	if !ok {
		writeFailure(c, http.StatusUnauthorized, "authentication required", nil)
		return
	}

	if err := s.auth.Logout(c.Request.Context(), claims); err != nil {
		s.writeError(c, err)
		return
	}
	writeSuccess(c, http.StatusOK, "logged out", nil)
}

func (s *HTTPServer) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	if err := s.db.PingContext(ctx); err != nil {
		s.logger.Warn(ctx, "database ping failed", "error", err)
		writeFailure(c, http.StatusServiceUnavailable, "database unavailable", nil)
		return
	}
	writeSuccess(c, http.StatusOK, "ok", gin.H{"status": "ok"})
}
