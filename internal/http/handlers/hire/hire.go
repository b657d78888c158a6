// Package hire реализует HTTP-обработчики прямых заявок на найм.
package hire

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
	hireservice "github.com/magabrotheeeer/job-marketplace/internal/services/hire"
)

// Service описывает интерфейс бизнес-логики заявок на найм.
type Service interface {
	Create(ctx context.Context, p models.Principal, in hireservice.CreateInput) (*models.HireRequest, error)
	Decide(ctx context.Context, p models.Principal, requestID string, to models.HireStatus) (*models.HireRequest, error)
	SetProgress(ctx context.Context, p models.Principal, requestID string, to models.Progress) (*models.HireRequest, error)
	GetProgress(ctx context.Context, p models.Principal, requestID string) (*models.HireRequest, error)
	ToggleFavorite(ctx context.Context, p models.Principal, requestID string) (bool, error)
	ListByClient(ctx context.Context, p models.Principal) ([]models.HireRequest, error)
	ListByWorker(ctx context.Context, p models.Principal) ([]models.HireRequest, error)
	ListFavorites(ctx context.Context, p models.Principal) ([]models.HireRequest, error)
}

// CreateRequest — тело заявки.
type CreateRequest struct {
	WorkerID string `json:"worker_id" validate:"required"`
	JobID    string `json:"job_id"`
	Message  string `json:"message" validate:"max=2000"`
}

// StatusRequest — ответ исполнителя на заявку.
type StatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// ProgressRequest — новый ход работ.
type ProgressRequest struct {
	Progress string `json:"progress" validate:"required"`
}

// Handler обрабатывает запросы к заявкам на найм.
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

// Create godoc
// @Summary Заявка исполнителю
// @Tags HireRequests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateRequest true "Заявка"
// @Success 201 {object} response.Response
// @Failure 403 {object} response.ErrorResponse "Недопустимая роль"
// @Failure 404 {object} response.ErrorResponse
// @Router /requests [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.hire.create")

	p, ok := request.Principal(w, r, log)
	if !ok {
		return
	}
	var req CreateRequest
	if !request.Decode(w, r, log, h.validate, &req) {
		return
	}

	hr, err := h.service.Create(r.Context(), p, hireservice.CreateInput{
		WorkerID: req.WorkerID,
		JobID:    req.JobID,
		Message:  req.Message,
	})
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}

	log.Info("hire request created", slog.String("hire_request_id", hr.ID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(hr))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request, op string,
	fn func(ctx context.Context, p models.Principal) ([]models.HireRequest, error)) {
	log := h.logger(r, op)

	p, ok := request.Principal(w, r, log)
	if !ok {
		return
	}
	items, err := fn(r.Context(), p)
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	render.JSON(w, r, response.StatusOKWithData(items))
}

// ForWorker godoc
// @Summary Заявки, адресованные мне
// @Tags HireRequests
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 403 {object} response.ErrorResponse
// @Router /requests/my [get]
func (h *Handler) ForWorker(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, "handlers.hire.for_worker", h.service.ListByWorker)
}

// ForClient godoc
// @Summary Мои отправленные заявки
// @Tags HireRequests
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 403 {object} response.ErrorResponse
// @Router /requests/client [get]
func (h *Handler) ForClient(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, "handlers.hire.for_client", h.service.ListByClient)
}

// Favorites godoc
// @Summary Избранные заявки
// @Tags HireRequests
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /requests/favorites [get]
func (h *Handler) Favorites(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, "handlers.hire.favorites", h.service.ListFavorites)
}

// Decide godoc
// @Summary Ответ исполнителя на заявку
// @Tags HireRequests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID заявки"
// @Param request body StatusRequest true "accepted или rejected"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Router /requests/{id}/status [patch]
func (h *Handler) Decide(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.hire.decide")

	p, ok := request.Principal(w, r, log)
	if !ok {
		return
	}
	var req StatusRequest
	if !request.Decode(w, r, log, h.validate, &req) {
		return
	}

	hr, err := h.service.Decide(r.Context(), p, chi.URLParam(r, "id"), models.HireStatus(req.Status))
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}

	log.Info("hire request decided", slog.String("hire_request_id", hr.ID), slog.String("status", string(hr.Status)))
	render.JSON(w, r, response.StatusOKWithData(hr))
}

// SetProgress godoc
// @Summary Изменение хода работ
// @Tags HireRequests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID заявки"
// @Param request body ProgressRequest true "ongoing или done"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.ErrorResponse
// @Failure 412 {object} response.ErrorResponse "Заявка не принята"
// @Router /requests/{id}/progress [patch]
func (h *Handler) SetProgress(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.hire.set_progress")

	p, ok := request.Principal(w, r, log)
	if !ok {
		return
	}
	var req ProgressRequest
	if !request.Decode(w, r, log, h.validate, &req) {
		return
	}

	hr, err := h.service.SetProgress(r.Context(), p, chi.URLParam(r, "id"), models.Progress(req.Progress))
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	render.JSON(w, r, response.StatusOKWithData(hr))
}

// GetProgress godoc
// @Summary Ход работ
// @Tags HireRequests
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID заявки"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.ErrorResponse
// @Router /requests/{id}/progress [get]
func (h *Handler) GetProgress(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.hire.get_progress")

	p, ok := request.Principal(w, r, log)
	if !ok {
		return
	}
	hr, err := h.service.GetProgress(r.Context(), p, chi.URLParam(r, "id"))
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"id":       hr.ID,
		"status":   hr.Status,
		"progress": hr.Progress,
	}))
}

// ToggleFavorite godoc
// @Summary Добавить или убрать заявку из избранного
// @Tags HireRequests
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID заявки"
// @Success 200 {object} response.Response
// @Router /requests/{id}/favorite [patch]
func (h *Handler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.hire.favorite")

	p, ok := request.Principal(w, r, log)
	if !ok {
		return
	}
	favorited, err := h.service.ToggleFavorite(r.Context(), p, chi.URLParam(r, "id"))
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"favorited": favorited,
	}))
}
