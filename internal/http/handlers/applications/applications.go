// Package applications реализует HTTP-обработчики откликов на вакансии.
package applications

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
	appservice "github.com/magabrotheeeer/job-marketplace/internal/services/applications"
)

// Service описывает интерфейс бизнес-логики откликов.
type Service interface {
	Submit(ctx context.Context, p models.Principal, in appservice.SubmitInput) (*models.Application, error)
	Decide(ctx context.Context, p models.Principal, applicationID string, to models.ApplicationStatus) (*models.Application, error)
	Withdraw(ctx context.Context, p models.Principal, applicationID string) error
	ListForJob(ctx context.Context, p models.Principal, jobID string) ([]models.Application, error)
	ListForWorker(ctx context.Context, p models.Principal, workerID string) ([]models.Application, error)
}

// SubmitRequest — тело отклика.
type SubmitRequest struct {
	JobID     string         `json:"job_id" validate:"required"`
	Contact   models.Contact `json:"contact"`
	ResumeRef string         `json:"resume_ref"`
}

// StatusRequest — решение клиента по отклику.
type StatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// Handler обрабатывает запросы к откликам.
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

// Submit godoc
// @Summary Отклик на вакансию
// @Tags Applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SubmitRequest true "Отклик"
// @Success 201 {object} response.Response
// @Failure 403 {object} response.ErrorResponse "Только исполнитель"
// @Failure 404 {object} response.ErrorResponse "Вакансия не найдена"
// @Failure 409 {object} response.ErrorResponse "Повторный отклик"
// @Router /applications [post]
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.applications.submit")

	p, ok := request.Principal(w, r, log)
	if !ok {
		return
	}
	var req SubmitRequest
	if !request.Decode(w, r, log, h.validate, &req) {
		return
	}

	app, err := h.service.Submit(r.Context(), p, appservice.SubmitInput{
		JobID:     req.JobID,
		Contact:   req.Contact,
		ResumeRef: req.ResumeRef,
	})
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}

	log.Info("application submitted", slog.String("application_id", app.ID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(app))
}

// Mine godoc
// @Summary Мои отклики
// @Tags Applications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /applications/my [get]
func (h *Handler) Mine(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.applications.mine")

	p, ok := request.Principal(w, r, log)
	if !ok {
		return
	}
	apps, err := h.service.ListForWorker(r.Context(), p, p.ID)
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	render.JSON(w, r, response.StatusOKWithData(apps))
}

// ForJob godoc
// @Summary Отклики на вакансию
// @Description Доступно владельцу вакансии и администратору.
// @Tags Applications
// @Produce json
// @Security BearerAuth
// @Param jobId path string true "ID вакансии"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.ErrorResponse
// @Router /applications/job/{jobId} [get]
func (h *Handler) ForJob(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.applications.for_job")

	p, ok := request.Principal(w, r, log)
	if !ok {
		return
	}
	apps, err := h.service.ListForJob(r.Context(), p, chi.URLParam(r, "jobId"))
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	render.JSON(w, r, response.StatusOKWithData(apps))
}

// Decide godoc
// @Summary Решение по отклику
// @Tags Applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID отклика"
// @Param request body StatusRequest true "accepted или rejected"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Router /applications/{id}/status [put]
func (h *Handler) Decide(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.applications.decide")

	p, ok := request.Principal(w, r, log)
	if !ok {
		return
	}
	var req StatusRequest
	if !request.Decode(w, r, log, h.validate, &req) {
		return
	}

	app, err := h.service.Decide(r.Context(), p, chi.URLParam(r, "id"), models.ApplicationStatus(req.Status))
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}

	log.Info("application decided", slog.String("application_id", app.ID), slog.String("status", string(app.Status)))
	render.JSON(w, r, response.StatusOKWithData(app))
}

// Withdraw godoc
// @Summary Отзыв отклика
// @Tags Applications
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID отклика"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /applications/{id} [delete]
func (h *Handler) Withdraw(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.applications.withdraw")

	p, ok := request.Principal(w, r, log)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	if err := h.service.Withdraw(r.Context(), p, id); err != nil {
		response.FromError(w, r, log, err)
		return
	}
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"withdrawn_application_id": id,
	}))
}
