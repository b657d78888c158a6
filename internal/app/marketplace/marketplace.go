// Package marketplace собирает HTTP-приложение маркетплейса: хранилище,
// кэш, брокер уведомлений, сервисы и маршруты.
package marketplace

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/job-marketplace/internal/cache"
	"github.com/magabrotheeeer/job-marketplace/internal/config"
	"github.com/magabrotheeeer/job-marketplace/internal/http/handlers/health"
	"github.com/magabrotheeeer/job-marketplace/internal/lib/jwt"
	"github.com/magabrotheeeer/job-marketplace/internal/lib/sl"
	"github.com/magabrotheeeer/job-marketplace/internal/metrics"
	"github.com/magabrotheeeer/job-marketplace/internal/migrations"
	"github.com/magabrotheeeer/job-marketplace/internal/paymentprovider"
	"github.com/magabrotheeeer/job-marketplace/internal/rabbitmq"
	actorservice "github.com/magabrotheeeer/job-marketplace/internal/services/actors"
	appservice "github.com/magabrotheeeer/job-marketplace/internal/services/applications"
	authservice "github.com/magabrotheeeer/job-marketplace/internal/services/auth"
	hireservice "github.com/magabrotheeeer/job-marketplace/internal/services/hire"
	jobservice "github.com/magabrotheeeer/job-marketplace/internal/services/jobs"
	"github.com/magabrotheeeer/job-marketplace/internal/services/notification"
	prservice "github.com/magabrotheeeer/job-marketplace/internal/services/paymentrequests"
	paymentservice "github.com/magabrotheeeer/job-marketplace/internal/services/payments"
	profileservice "github.com/magabrotheeeer/job-marketplace/internal/services/profiles"
	"github.com/magabrotheeeer/job-marketplace/internal/storage/repository"
	"github.com/magabrotheeeer/job-marketplace/internal/telemetry"
)

const shutdownTimeout = 15 * time.Second

// Services набор доменных сервисов, которые обслуживают маршруты.
type Services struct {
	Auth            *authservice.AuthService
	Jobs            *jobservice.Service
	Applications    *appservice.Service
	Hire            *hireservice.Service
	PaymentRequests *prservice.Service
	Payments        *paymentservice.Service
	Profiles        *profileservice.Service
	Actors          *actorservice.Service
}

// App HTTP-приложение маркетплейса.
type App struct {
	server   *http.Server
	logger   *slog.Logger
	db       *repository.Storage
	cache    *cache.Cache
	conn     *amqp.Connection
	ch       *amqp.Channel
	shutdown func(context.Context) error
}

// New поднимает зависимости и собирает роутер. При ошибке уже открытые
// ресурсы закрываются.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (_ *App, err error) {
	const op = "marketplace.New"

	a := &App{logger: logger}
	defer func() {
		if err != nil {
			a.close(context.Background())
		}
	}()

	a.shutdown, err = telemetry.InitTracer(ctx, cfg.ServiceName, cfg.CollectorAddress)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	a.db, err = repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	version, err := migrations.Run(a.db.DB, cfg.MigrationsPath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	logger.Info("database schema is up to date", slog.Uint64("version", uint64(version)))

	a.cache, err = cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	a.conn, err = rabbitmq.Connect(ctx, cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	a.ch, err = rabbitmq.SetupChannel(a.conn, rabbitmq.GetNotificationQueues())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	m := metrics.New(prometheus.DefaultRegisterer)
	notifier := notification.New(logger, rabbitmq.NewPublisher(a.ch), a.db, cfg.FrontendURL)
	gateway := paymentprovider.NewClient(cfg.GatewayBaseURL, cfg.GatewaySecret, cfg.GatewayTimeout)

	jobs := jobservice.New(logger, a.db, a.cache, cfg.JobTTL)
	services := Services{
		Auth:            authservice.NewAuthService(logger, a.db, jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL), notifier),
		Jobs:            jobs,
		Applications:    appservice.New(logger, a.db, jobs, notifier, m),
		Hire:            hireservice.New(logger, a.db, notifier, m),
		PaymentRequests: prservice.New(logger, a.db, notifier, m),
		Payments:        paymentservice.New(logger, a.db, gateway, notifier, m, cfg.Gateway, cfg.Subscription),
		Profiles:        profileservice.New(logger, a.db, notifier),
		Actors:          actorservice.New(logger, a.db, jobs),
	}

	if cfg.AdminEmail != "" {
		if err = services.Auth.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	router := chi.NewRouter()
	RegisterRoutes(router, logger, RouteDeps{
		Services: services,
		Metrics:  m,
		Health: map[string]health.Pinger{
			"postgres": a.db,
			"redis":    a.cache,
		},
		RateLimit:    cfg.RateLimit,
		CookieTTL:    cfg.TokenTTL,
		SecureCookie: cfg.Env != "local",
	})

	a.server = &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return a, nil
}

// Run обслуживает запросы до отмены ctx, затем останавливает сервер
// и освобождает ресурсы.
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
		a.close(context.Background())
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.close(timeoutCtx)
		return err
	}
}

func (a *App) close(ctx context.Context) {
	if a.ch != nil {
		if err := a.ch.Close(); err != nil {
			a.logger.Error("failed to close channel", sl.Err(err))
		}
	}
	if a.conn != nil {
		if err := a.conn.Close(); err != nil {
			a.logger.Error("failed to close connection", sl.Err(err))
		}
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.Error("failed to close cache", sl.Err(err))
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Error("failed to close storage", sl.Err(err))
		}
	}
	if a.shutdown != nil {
		if err := a.shutdown(ctx); err != nil {
			a.logger.Error("failed to flush traces", sl.Err(err))
		}
	}
}
