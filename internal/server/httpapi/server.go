// Package httpapi exposes the account and authentication services over HTTP
// using gin.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/walletapi/internal/common"
	"github.com/dmitrijs2005/walletapi/internal/logging"
	"github.com/dmitrijs2005/walletapi/internal/server/auth"
	"github.com/dmitrijs2005/walletapi/internal/server/models"
	"github.com/dmitrijs2005/walletapi/internal/server/services"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 10 * time.Second
)

type UserService interface {
	CreateUser(ctx context.Context, in services.CreateUserInput) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
}

type AuthService interface {
	Login(ctx context.Context, email, password string) (*services.LoginResult, error)
	Authorize(ctx context.Context, token string) (*auth.Claims, error)
	Logout(ctx context.Context, claims *auth.Claims) error
}

// Pinger reports whether the database is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type HTTPServer struct {
	address        string
	users          UserService
	auth           AuthService
	db             Pinger
	logger         logging.Logger
	allowedOrigins []string
}

func NewHTTPServer(a string, l logging.Logger, us UserService, as AuthService, db Pinger, allowedOrigins string) *HTTPServer {
	return &HTTPServer{
		address:        a,
		logger:         l.With("module", "http_server"),
		users:          us,
		auth:           as,
		db:             db,
		allowedOrigins: splitOrigins(allowedOrigins),
	}
}

func splitOrigins(s string) []string {
	var out []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// Router builds the gin engine with middleware and all routes registered.
func (s *HTTPServer) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.accessLog())

	if len(s.allowedOrigins) > 0 {
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowOrigins = s.allowedOrigins
		corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", common.AuthorizationHeaderName}
		corsConfig.ExposeHeaders = []string{common.AuthorizationHeaderName}
		r.Use(cors.New(corsConfig))
	}

	r.NoRoute(func(c *gin.Context) {
		writeFailure(c, http.StatusNotFound, "route not found", nil)
	})

	r.GET("/healthz", s.Health)

	r.GET("/users", s.ListUsers)
	r.POST("/users", s.CreateUser)
	r.DELETE("/users/:id", s.DeleteUser)
	r.POST("/login", s.Login)

	protected := r.Group("")
	protected.Use(s.requireAuth())
	{
		protected.GET("/me", s.Me)
		protected.POST("/logout", s.Logout)
	}

	return r
}

// Run serves HTTP on the configured address until ctx is cancelled, then
// shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	stopped := make(chan error, 1)
	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		stopped <- srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return <-stopped
}
