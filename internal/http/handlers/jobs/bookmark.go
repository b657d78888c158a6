package jobs

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/job-marketplace/internal/http/request"
	"github.com/magabrotheeeer/job-marketplace/internal/http/response"
)

// ToggleBookmark godoc
// @Summary Добавить или убрать закладку
// @Tags Jobs
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID вакансии"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Router /jobs/{id}/bookmark [patch]
func (h *Handler) ToggleBookmark(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.jobs.bookmark"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	p, ok := request.Principal(w, r, log)
	if !ok {
		return
	}

	bookmarked, err := h.service.ToggleBookmark(r.Context(), p, chi.URLParam(r, "id"))
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"bookmarked": bookmarked,
	}))
}

// Bookmarked godoc
// @Summary Мои закладки
// @Tags Jobs
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /jobs/bookmarked [get]
func (h *Handler) Bookmarked(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.jobs.bookmarked"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	p, ok := request.Principal(w, r, log)
	if !ok {
		return
	}

	jobs, err := h.service.ListBookmarked(r.Context(), p)
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	render.JSON(w, r, response.StatusOKWithData(jobs))
}
