// Package api serves a small read-only HTTP view of the giveaway: health,
// key stock, the current round and per-round claim reports.
package api

import (
	"context"
	"log/slog"
	"time"

	"github.com/disgoorg/keybot/internal/domain/giveaway"
	"github.com/disgoorg/keybot/keybot/config"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// Pinger reports whether the store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Options struct {
	Address string
	// Token is compared against the bearer token of every /api request.
	Token string
	// RequestsPerMinute limits /api requests per client address; 0 uses the default.
	RequestsPerMinute int
	// TrustedProxies may set X-Forwarded-For. Without any, the peer address
	// identifies the client.
	TrustedProxies []string
	Version        string
	Commit         string
}

type Server struct {
	app      *fiber.App
	giveaway giveaway.Service
	db       Pinger
	opts     Options
}

func New(svc giveaway.Service, db Pinger, opts Options) *Server {
	if opts.RequestsPerMinute <= 0 {
		opts.RequestsPerMinute = config.DefaultAPIRequestsPerMinute
	}

	s := &Server{
		giveaway: svc,
		db:       db,
		opts:     opts,
	}

	fiberConfig := fiber.Config{
		AppName:               "KeyBot API",
		ServerHeader:          "KeyBot",
		ErrorHandler:          ErrorHandler,
		DisableStartupMessage: true,
		ReadTimeout:           config.APIReadTimeout,
		WriteTimeout:          config.APIWriteTimeout,
	}
	if len(opts.TrustedProxies) > 0 {
		fiberConfig.ProxyHeader = fiber.HeaderXForwardedFor
		fiberConfig.EnableTrustedProxyCheck = true
		fiberConfig.TrustedProxies = opts.TrustedProxies
		fiberConfig.EnableIPValidation = true
	}
	s.app = fiber.New(fiberConfig)

	s.app.Use(recover.New())
	s.app.Use(SecurityHeaders())
	s.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
	s.app.Use(LoggingMiddleware())

	s.routes()
	return s
}

func (s *Server) routes() {
	s.app.Get("/health", s.health)

	api := s.app.Group("/api",
		limiter.New(limiter.Config{
			Max:          s.opts.RequestsPerMinute,
			Expiration:   time.Minute,
			KeyGenerator: clientAddress,
			LimitReached: func(c *fiber.Ctx) error {
				slog.Warn("Rate limit exceeded",
					slog.String("type", "api"),
					slog.String("ip", clientAddress(c)),
					slog.String("path", c.Path()))
				return SendError(c, fiber.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED",
					"Too many requests. Please try again later.")
			},
		}),
		TokenRequired(s.opts.Token),
	)
	api.Get("/stats", s.stats)
	api.Get("/rounds/current", s.currentRound)
	api.Get("/rounds/:id/claims", s.roundClaims)
}

// App exposes the fiber app for in-process requests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Run serves until ctx is cancelled, then shuts down within
// config.ShutdownTimeout.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("Starting API server",
			slog.String("type", "api"),
			slog.String("address", s.opts.Address))
		errCh <- s.app.Listen(s.opts.Address)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()
	if err := s.app.ShutdownWithContext(shutdownCtx); err != nil {
		return err
	}
	slog.Info("API server stopped", slog.String("type", "api"))
	return nil
}
