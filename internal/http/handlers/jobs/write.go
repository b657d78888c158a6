package jobs

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/job-marketplace/internal/http/request"
	"github.com/magabrotheeeer/job-marketplace/internal/http/response"
	"github.com/magabrotheeeer/job-marketplace/internal/models"
)

// Create godoc
// @Summary Создание вакансии
// @Tags Jobs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.JobInput true "Вакансия"
// @Success 201 {object} response.Response
// @Failure 403 {object} response.ErrorResponse "Только клиент"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /jobs [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.jobs.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	p, ok := request.Principal(w, r, log)
	if !ok {
		return
	}
	var req models.JobInput
	if !request.Decode(w, r, log, h.validate, &req) {
		return
	}

	job, err := h.service.Create(r.Context(), p, req)
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}

	log.Info("job created", slog.String("job_id", job.ID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(job))
}

// Update godoc
// @Summary Изменение вакансии
// @Description Поле version защищает от потерянных обновлений: при расхождении возвращается 409.
// @Tags Jobs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID вакансии"
// @Param request body UpdateRequest true "Вакансия"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse "Версия устарела"
// @Router /jobs/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.jobs.update"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	p, ok := request.Principal(w, r, log)
	if !ok {
		return
	}
	var req UpdateRequest
	if !request.Decode(w, r, log, h.validate, &req) {
		return
	}

	job, err := h.service.Update(r.Context(), p, chi.URLParam(r, "id"), req.Version, req.JobInput)
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}

	log.Info("job updated", slog.String("job_id", job.ID), slog.Int("version", job.Version))
	render.JSON(w, r, response.StatusOKWithData(job))
}

// Delete godoc
// @Summary Удаление вакансии
// @Tags Jobs
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID вакансии"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /jobs/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.jobs.delete"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	p, ok := request.Principal(w, r, log)
	if !ok {
		return
	}

	jobID := chi.URLParam(r, "id")
	if err := h.service.Delete(r.Context(), p, jobID); err != nil {
		response.FromError(w, r, log, err)
		return
	}

	log.Info("job deleted", slog.String("job_id", jobID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"deleted_job_id": jobID,
	}))
}
