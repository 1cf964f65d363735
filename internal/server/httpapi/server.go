// Package httpapi exposes the authentication flows over HTTP with gin: the
// edge gate, the /auth endpoints, cookie handling and request middleware.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/licitacrm/licitacrm/internal/logging"
	"github.com/licitacrm/licitacrm/internal/server/auth"
	"github.com/licitacrm/licitacrm/internal/server/models"
	"github.com/licitacrm/licitacrm/internal/server/services"
	"github.com/licitacrm/licitacrm/internal/validator"
)

const shutdownTimeout = 10 * time.Second

// AuthFlows is the part of services.AuthService the handlers need.
type AuthFlows interface {
	Login(ctx context.Context, email, password string) (*services.LoginResult, error)
	Logout(ctx context.Context, refreshToken string) error
	Refresh(ctx context.Context, refreshToken string) (*services.RefreshResult, error)
	Verify(ctx context.Context, accessToken string) (*models.User, error)
}

// AccessVerifier checks access tokens without touching the store.
// *auth.Codec satisfies it.
type AccessVerifier interface {
	VerifyAccess(token string) (*auth.AccessClaims, error)
}

// Pinger reports store reachability for the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Options configures the HTTP surface.
type Options struct {
	Address       string
	LoginPath     string
	PublicPaths   []string
	AllowedOrigin string
	SecureCookies bool
	// Now is used to compute cookie Max-Age. Defaults to time.Now.
	Now func() time.Time
}

type Server struct {
	opts      Options
	flows     AuthFlows
	tokens    AccessVerifier
	pinger    Pinger
	logger    logging.Logger
	validator *validator.Validator
	engine    *gin.Engine
}

func NewServer(opts Options, flows AuthFlows, tokens AccessVerifier, pinger Pinger, l logging.Logger) *Server {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if l == nil {
		l = logging.Nop{}
	}

	s := &Server{
		opts:      opts,
		flows:     flows,
		tokens:    tokens,
		pinger:    pinger,
		logger:    l.With("module", "http_server"),
		validator: validator.NewValidator(),
	}
	s.engine = s.routes()
	return s
}

// Handler returns the fully wired gin engine.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(requestid.New(requestid.WithCustomHeaderStrKey("X-Request-Id")))
	r.Use(requestLogger(s.logger))
	if s.opts.AllowedOrigin != "" {
		r.Use(corsMiddleware(s.opts.AllowedOrigin))
	}
	r.Use(gzip.Gzip(gzip.DefaultCompression))
	r.Use(NewGate(s.opts.LoginPath, s.opts.PublicPaths, s.tokens, s.logger).Handler())

	r.GET("/healthz", s.health)

	a := r.Group("/auth")
	a.POST("/login", s.login)
	a.POST("/logout", s.logout)
	a.POST("/refresh", s.refresh)
	a.GET("/verify", s.verify)

	api := r.Group("/api", RequireAccess(s.tokens))
	api.GET("/session", s.session)

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Address,
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP server shutdown failed", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.opts.Address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
