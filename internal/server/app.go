// Package server wires configuration, storage, services and the HTTP
// transport together and runs them until the process is signalled to stop.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/walletapi/internal/dbx"
	"github.com/dmitrijs2005/walletapi/internal/logging"
	"github.com/dmitrijs2005/walletapi/internal/server/auth"
	"github.com/dmitrijs2005/walletapi/internal/server/config"
	"github.com/dmitrijs2005/walletapi/internal/server/httpapi"
	"github.com/dmitrijs2005/walletapi/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/walletapi/internal/server/revocation"
	"github.com/dmitrijs2005/walletapi/internal/server/services"
	"github.com/gin-gonic/gin"
	"github.com/uptrace/bun"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *bun.DB
	denylist    revocation.Denylist
	userService *services.UserService
	authService *services.AuthService
}

// NewApp validates c, opens the database, applies migrations and builds the
// services. Resources acquired before a failure are released.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.NewJSONLogger(os.Stdout, "walletapi", c.LogLevel)

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	db, err := dbx.Open(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	m := repomanager.NewPostgresRepositoryManager()
	if err := m.RunMigrations(ctx, db.DB); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	denylist, err := newDenylist(c)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("denylist init error: %w", err)
	}

	hasher := auth.NewPasswordHasher(c.BcryptCost)
	issuer := auth.NewTokenIssuer([]byte(c.SecretKey), c.AccessTokenValidityDuration)

	us := services.NewUserService(db, m, hasher, logger)
	as := services.NewAuthService(db, m, hasher, issuer, denylist, logger)

	return &App{
		config:      c,
		logger:      logger,
		db:          db,
		denylist:    denylist,
		userService: us,
		authService: as,
	}, nil
}

// newDenylist returns a Redis-backed denylist when Redis is configured and a
// no-op one otherwise.
func newDenylist(c *config.Config) (revocation.Denylist, error) {
	if c.RedisAddr == "" {
		return revocation.NopDenylist{}, nil
	}
	return revocation.NewRedisDenylist(c.RedisAddr, c.RedisPassword, c.RedisDB)
}

// Run serves HTTP until ctx is cancelled or SIGINT/SIGTERM/SIGQUIT arrives.
func (app *App) Run(ctx context.Context) error {

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	defer app.close(ctx)

	app.logger.Info(ctx, "Starting app...")

	gin.SetMode(app.config.GinMode)

	s := httpapi.NewHTTPServer(app.config.EndpointAddrHTTP, app.logger,
		app.userService, app.authService, app.db, app.config.CORSAllowedOrigins)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		return err
	}

	return nil
}

func (app *App) close(ctx context.Context) {
	if err := app.denylist.Close(); err != nil {
		app.logger.Error(ctx, "error closing denylist", "error", err)
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "error closing database", "error", err)
	}
}
