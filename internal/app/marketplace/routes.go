package marketplace

import (
	"log/slog"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/job-marketplace/internal/config"
	"github.com/magabrotheeeer/job-marketplace/internal/http/handlers/admin"
	"github.com/magabrotheeeer/job-marketplace/internal/http/handlers/applications"
	"github.com/magabrotheeeer/job-marketplace/internal/http/handlers/auth"
	"github.com/magabrotheeeer/job-marketplace/internal/http/handlers/health"
	"github.com/magabrotheeeer/job-marketplace/internal/http/handlers/hire"
	"github.com/magabrotheeeer/job-marketplace/internal/http/handlers/jobs"
	"github.com/magabrotheeeer/job-marketplace/internal/http/handlers/payment"
	"github.com/magabrotheeeer/job-marketplace/internal/http/handlers/paymentrequests"
	"github.com/magabrotheeeer/job-marketplace/internal/http/handlers/profiles"
	"github.com/magabrotheeeer/job-marketplace/internal/http/middlewarectx"
	"github.com/magabrotheeeer/job-marketplace/internal/metrics"
	"github.com/magabrotheeeer/job-marketplace/internal/models"
)

// RouteDeps зависимости, необходимые для регистрации маршрутов.
type RouteDeps struct {
	Services     Services
	Metrics      *metrics.Metrics
	Health       map[string]health.Pinger
	RateLimit    config.RateLimit
	CookieTTL    time.Duration
	SecureCookie bool
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, deps RouteDeps) {
	s := deps.Services

	authHandler := auth.New(logger, s.Auth, deps.CookieTTL, deps.SecureCookie)
	jobHandler := jobs.New(logger, s.Jobs)
	applicationHandler := applications.New(logger, s.Applications)
	hireHandler := hire.New(logger, s.Hire)
	requestHandler := paymentrequests.New(logger, s.PaymentRequests)
	paymentHandler := payment.New(logger, s.Payments)
	profileHandler := profiles.New(logger, s.Profiles)
	adminHandler := admin.New(logger, s.Actors)

	limiter := middlewarectx.NewRateLimiter(deps.RateLimit.RPS, deps.RateLimit.Burst)

	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
		deps.Metrics.Middleware,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки, лимит по IP
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.RateLimitMiddleware(logger, limiter))

			r.Post("/auth/register", authHandler.Register)
			r.Post("/auth/login", authHandler.Login)
			r.Get("/auth/verify/{token}", authHandler.VerifyEmail)
			r.Post("/auth/resend-verification", authHandler.ResendVerification)
			r.Post("/auth/forgot-password", authHandler.ForgotPassword)
			r.Post("/auth/reset-password/{token}", authHandler.ResetPassword)
			r.Get("/auth/logout", authHandler.Logout)
			r.Post("/auth/logout", authHandler.Logout)

			r.Get("/jobs", jobHandler.List)
			r.Get("/jobs/{id}", jobHandler.Read)
			r.Get("/workers", profileHandler.List)
			r.Get("/workers/{id}", profileHandler.Read)
			r.Get("/reviews/{workerId}", profileHandler.Reviews)
		})

		// Webhook шлюза проверяется по подписи
		r.Post("/payments/webhook", paymentHandler.Webhook)

		// Группа с JWT аутентификацией, лимит по участнику
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(s.Auth, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger, limiter))

			r.Get("/auth/me", authHandler.Me)

			r.Post("/jobs", jobHandler.Create)
			r.Get("/jobs/bookmarked", jobHandler.Bookmarked)
			r.Put("/jobs/{id}", jobHandler.Update)
			r.Delete("/jobs/{id}", jobHandler.Delete)
			r.Patch("/jobs/{id}/bookmark", jobHandler.ToggleBookmark)

			r.Post("/applications", applicationHandler.Submit)
			r.Get("/applications/my", applicationHandler.Mine)
			r.Get("/applications/job/{jobId}", applicationHandler.ForJob)
			r.Put("/applications/{id}/status", applicationHandler.Decide)
			r.Delete("/applications/{id}", applicationHandler.Withdraw)

			r.Post("/requests", hireHandler.Create)
			r.Get("/requests/my", hireHandler.ForWorker)
			r.Get("/requests/client", hireHandler.ForClient)
			r.Get("/requests/favorites", hireHandler.Favorites)
			r.Patch("/requests/{id}/status", hireHandler.Decide)
			r.Patch("/requests/{id}/progress", hireHandler.SetProgress)
			r.Get("/requests/{id}/progress", hireHandler.GetProgress)
			r.Patch("/requests/{id}/favorite", hireHandler.ToggleFavorite)

			r.Post("/payment-requests", requestHandler.Create)
			r.Get("/payment-requests/client", requestHandler.ForClient)
			r.Get("/payment-requests/worker", requestHandler.ForWorker)
			r.Put("/payment-requests/{id}", requestHandler.Decide)
			r.Post("/payment-requests/{id}/pay", paymentHandler.Pay)

			r.Get("/payments/verify/{ref}", paymentHandler.Verify)
			r.Get("/payments/worker/history", paymentHandler.WorkerHistory)
			r.Post("/subscriptions/initiate", paymentHandler.Subscribe)
			r.Get("/subscriptions/my", paymentHandler.MySubscriptions)

			r.Put("/workers/profile", profileHandler.Upsert)
			r.Put("/clients/profile", profileHandler.UpdateClient)
			r.Get("/clients", profileHandler.ListClients)
			r.Get("/clients/{id}", profileHandler.ReadClient)
			r.Post("/reviews/{workerId}", profileHandler.Review)

			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.RequireRole(logger, models.RoleAdmin))

				r.Get("/subscriptions/all", paymentHandler.AllSubscriptions)
				r.Get("/admin/users", adminHandler.ListUsers)
				r.Delete("/admin/users/{id}", adminHandler.DeleteUser)
			})
		})
	})

	r.Get("/health", health.New(logger, deps.Health).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
