// Package server wires the auth service together: logging, the connection
// pool, schema migrations, the token codec and the HTTP server, and runs it
// until a termination signal arrives.
package server

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/licitacrm/licitacrm/internal/dbx"
	"github.com/licitacrm/licitacrm/internal/logging"
	"github.com/licitacrm/licitacrm/internal/server/auth"
	"github.com/licitacrm/licitacrm/internal/server/config"
	"github.com/licitacrm/licitacrm/internal/server/httpapi"
	"github.com/licitacrm/licitacrm/internal/server/repositories/repomanager"
	"github.com/licitacrm/licitacrm/internal/server/services"
)

const (
	defaultAccessSecret  = "accessSecretKey"
	defaultRefreshSecret = "refreshSecretKey"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	pool        *dbx.Pool
	repomanager repomanager.RepositoryManager
	codec       *auth.Codec
	authService *services.AuthService
}

// NewLogger builds the process logger from c. Production always logs JSON.
func NewLogger(c *config.Config) logging.Logger {
	format := c.LogFormat
	if c.IsProduction() {
		format = "json"
	}
	return logging.New(os.Stdout, format, c.LogLevel)
}

// OpenPool opens the PostgreSQL pool described by c. No connection is made
// until first use.
func OpenPool(c *config.Config) (*dbx.Pool, error) {
	return dbx.Open("pgx", c.DatabaseDSN, dbx.PoolConfig{
		MaxOpenConns:    c.DBMaxOpenConns,
		MaxIdleConns:    c.DBMaxIdleConns,
		ConnMaxLifetime: c.DBConnMaxLifetime,
	})
}

// NewCodec builds the token codec from c.
func NewCodec(c *config.Config) *auth.Codec {
	return auth.NewCodec(
		[]byte(c.AccessTokenSecret),
		[]byte(c.RefreshTokenSecret),
		c.AccessTokenValidityDuration,
		c.RefreshTokenValidityDuration,
	)
}

func NewApp(c *config.Config) (*App, error) {
	if err := validateConfig(c); err != nil {
		return nil, err
	}

	logger := NewLogger(c)

	pool, err := OpenPool(c)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	codec := NewCodec(c)
	svc := services.NewAuthService(pool, rm, codec, logger)

	return &App{
		config:      c,
		logger:      logger,
		pool:        pool,
		repomanager: rm,
		codec:       codec,
		authService: svc,
	}, nil
}

func validateConfig(c *config.Config) error {
	if c.AccessTokenSecret == "" || c.RefreshTokenSecret == "" {
		return errors.New("token secrets must not be empty")
	}
	if c.IsProduction() && (c.AccessTokenSecret == defaultAccessSecret || c.RefreshTokenSecret == defaultRefreshSecret) {
		return errors.New("default token secrets are not allowed in production")
	}
	if c.AccessTokenValidityDuration <= 0 || c.RefreshTokenValidityDuration <= 0 {
		return errors.New("token validity durations must be positive")
	}
	return nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := httpapi.NewServer(httpapi.Options{
		Address:       app.config.EndpointAddrHTTP,
		LoginPath:     app.config.LoginPath,
		PublicPaths:   app.config.PublicPaths,
		AllowedOrigin: app.config.AllowedOrigin,
		SecureCookies: app.config.CookieSecure(),
	}, app.authService, app.codec, app.pool, app.logger)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, "HTTP server failed", "error", err)
		cancelFunc()
	}
}

// Run applies migrations and serves HTTP until ctx is cancelled or a
// termination signal arrives. The pool is closed before returning.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	defer func() {
		if err := app.pool.Close(); err != nil {
			app.logger.Error(ctx, "closing pool", "error", err)
		}
	}()

	app.logger.Info(ctx, "Starting app...", "env", app.config.Environment)

	if err := app.repomanager.RunMigrations(ctx, app.pool.DB()); err != nil {
		return fmt.Errorf("migrations failed: %w", err)
	}

	if app.config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()
	app.logger.Info(ctx, "App stopped")
	return nil
}
