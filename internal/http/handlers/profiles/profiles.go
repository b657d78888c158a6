// Package profiles реализует HTTP-обработчики профилей исполнителей
// и клиентов, а также отзывов.
package profiles

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/job-marketplace/internal/http/request"
	"github.com/magabrotheeeer/job-marketplace/internal/http/response"
	"github.com/magabrotheeeer/job-marketplace/internal/models"
	profileservice "github.com/magabrotheeeer/job-marketplace/internal/services/profiles"
)

// Service описывает интерфейс бизнес-логики профилей.
type Service interface {
	UpsertProfile(ctx context.Context, p models.Principal, in profileservice.ProfileInput) (*models.WorkerProfile, error)
	GetProfile(ctx context.Context, workerID string) (*models.WorkerProfile, error)
	ListProfiles(ctx context.Context, limit, offset int) ([]models.WorkerProfile, error)
	Review(ctx context.Context, p models.Principal, workerID string, rating int, comment string) (*models.WorkerProfile, error)
	ListReviews(ctx context.Context, workerID string) ([]models.Review, error)

	UpdateClientProfile(ctx context.Context, p models.Principal, in models.ClientProfileUpdate) (*models.Actor, error)
	GetClient(ctx context.Context, p models.Principal, clientID string) (*models.Actor, error)
	ListClients(ctx context.Context, p models.Principal) ([]models.Actor, error)
}

// ProfileRequest — редактируемые поля профиля.
type ProfileRequest struct {
	Bio                string   `json:"bio" validate:"max=5000"`
	Skills             []string `json:"skills"`
	ExperienceYears    int      `json:"experience_years"`
	AvailabilityStatus string   `json:"availability_status"`
}

// ReviewRequest — оценка и комментарий клиента.
type ReviewRequest struct {
	Rating  int    `json:"rating" validate:"required"`
	Comment string `json:"comment" validate:"max=2000"`
}

// Handler обрабатывает запросы к профилям.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

func (h *Handler) logger(r *http.Request, op string) *slog.Logger {
	return h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}

// Upsert godoc
// @Summary Сохранение своего профиля
// @Tags Workers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ProfileRequest true "Профиль"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse "Только исполнитель"
// @Router /workers/profile [put]
func (h *Handler) Upsert(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.profiles.upsert")

	p, ok := request.Principal(w, r, log)
	if !ok {
		return
	}
	var req ProfileRequest
	if !request.Decode(w, r, log, h.validate, &req) {
		return
	}

	profile, err := h.service.UpsertProfile(r.Context(), p, profileservice.ProfileInput{
		Bio:                req.Bio,
		Skills:             req.Skills,
		ExperienceYears:    req.ExperienceYears,
		AvailabilityStatus: models.Availability(req.AvailabilityStatus),
	})
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	render.JSON(w, r, response.StatusOKWithData(profile))
}

// List godoc
// @Summary Каталог исполнителей
// @Tags Workers
// @Produce json
// @Param limit query int false "Размер страницы"
// @Param offset query int false "Смещение"
// @Success 200 {object} response.Response
// @Router /workers [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.profiles.list")

	profiles, err := h.service.ListProfiles(r.Context(), request.IntQuery(r, "limit", 0), request.IntQuery(r, "offset", 0))
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	render.JSON(w, r, response.StatusOKWithData(profiles))
}

// Read godoc
// @Summary Профиль исполнителя
// @Tags Workers
// @Produce json
// @Param id path string true "ID исполнителя"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Router /workers/{id} [get]
func (h *Handler) Read(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.profiles.read")

	profile, err := h.service.GetProfile(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	render.JSON(w, r, response.StatusOKWithData(profile))
}

// Review godoc
// @Summary Отзыв об исполнителе
// @Description Повторный отзыв того же клиента заменяет предыдущий, средняя оценка пересчитывается.
// @Tags Reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param workerId path string true "ID исполнителя"
// @Param request body ReviewRequest true "Отзыв"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Оценка вне 1..5"
// @Failure 403 {object} response.ErrorResponse "Только клиент"
// @Failure 404 {object} response.ErrorResponse
// @Router /reviews/{workerId} [post]
func (h *Handler) Review(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.profiles.review")

	p, ok := request.Principal(w, r, log)
	if !ok {
		return
	}
	var req ReviewRequest
	if !request.Decode(w, r, log, h.validate, &req) {
		return
	}

	profile, err := h.service.Review(r.Context(), p, chi.URLParam(r, "workerId"), req.Rating, req.Comment)
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}

	log.Info("review saved", slog.String("worker_id", profile.UserID), slog.Float64("rating_average", profile.RatingAverage))
	render.JSON(w, r, response.StatusOKWithData(profile))
}

// Reviews godoc
// @Summary Отзывы об исполнителе
// @Tags Reviews
// @Produce json
// @Param workerId path string true "ID исполнителя"
// @Success 200 {object} response.Response
// @Router /reviews/{workerId} [get]
func (h *Handler) Reviews(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.profiles.reviews")

	reviews, err := h.service.ListReviews(r.Context(), chi.URLParam(r, "workerId"))
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	render.JSON(w, r, response.StatusOKWithData(reviews))
}
