// Package peso собирает HTTP-приложение учёта клиентов, долгов и платежей.
package peso

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/peso/internal/cache"
	"github.com/magabrotheeeer/peso/internal/config"
	"github.com/magabrotheeeer/peso/internal/lib/cookie"
	"github.com/magabrotheeeer/peso/internal/lib/jwt"
	"github.com/magabrotheeeer/peso/internal/lib/metrics"
	"github.com/magabrotheeeer/peso/internal/lib/sl"
	"github.com/magabrotheeeer/peso/internal/migrations"
	authservice "github.com/magabrotheeeer/peso/internal/services/auth"
	clientservice "github.com/magabrotheeeer/peso/internal/services/client"
	dashboardservice "github.com/magabrotheeeer/peso/internal/services/dashboard"
	invoiceservice "github.com/magabrotheeeer/peso/internal/services/invoice"
	paymentservice "github.com/magabrotheeeer/peso/internal/services/payment"
	"github.com/magabrotheeeer/peso/internal/storage/repository"
)

const shutdownTimeout = 15 * time.Second

type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	cache  *cache.Cache
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "peso.New"

	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	app := &App{
		logger: logger,
		db:     db,
	}

	// Без Redis выход из системы только удаляет cookie.
	var revoked authservice.RevocationStore
	if cfg.AddressRedis != "" {
		app.cache, err = cache.InitServer(ctx, cfg.RedisConnection)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		revoked = app.cache
	} else {
		logger.Warn("redis is not configured, session revocation disabled")
	}

	router := chi.NewRouter()
	RegisterRoutes(router, NewDeps(db, revoked, cfg, logger))

	app.server = &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return app, nil
}

// NewDeps собирает сервисы поверх хранилища. revoked может быть nil.
func NewDeps(db *repository.Storage, revoked authservice.RevocationStore, cfg *config.Config, logger *slog.Logger) Deps {
	m := metrics.New()
	return Deps{
		Log:       logger,
		DB:        db,
		Jar:       cookie.New(cfg.CookieName, cfg.TokenTTL, cfg.SecureCookies()),
		Metrics:   m,
		RateLimit: cfg.RateLimit,
		Auth:      authservice.NewAuthService(db, jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL), revoked, logger),
		Clients:   clientservice.NewClientService(db, logger),
		Invoices:  invoiceservice.NewInvoiceService(db, logger),
		Payments:  paymentservice.New(db, m, logger),
		Dashboard: dashboardservice.NewDashboardService(db, logger),
	}
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.close()
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.close()
		return err
	}
}

func (a *App) close() {
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.Error("failed to close redis", sl.Err(err))
		}
	}
	if err := a.db.Close(); err != nil {
		a.logger.Error("failed to close database", sl.Err(err))
	}
}
