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

// List godoc
// @Summary Список вакансий
// @Tags Jobs
// @Produce json
// @Param category query string false "Категория"
// @Param type query string false "Тип занятости"
// @Param location query string false "Локация"
// @Param limit query int false "Размер страницы"
// @Param offset query int false "Смещение"
// @Success 200 {object} response.Response
// @Router /jobs [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.jobs.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	q := r.URL.Query()
	jobs, err := h.service.List(r.Context(), models.JobFilter{
		Category: q.Get("category"),
		Type:     models.JobType(q.Get("type")),
		Location: q.Get("location"),
		Limit:    request.IntQuery(r, "limit", 0),
		Offset:   request.IntQuery(r, "offset", 0),
	})
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}

	log.Info("jobs listed", slog.Int("count", len(jobs)))
	render.JSON(w, r, response.StatusOKWithData(jobs))
}

// Read godoc
// @Summary Вакансия по ID
// @Tags Jobs
// @Produce json
// @Param id path string true "ID вакансии"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Router /jobs/{id} [get]
func (h *Handler) Read(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.jobs.read"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	job, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	render.JSON(w, r, response.StatusOKWithData(job))
}
