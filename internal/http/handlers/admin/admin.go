// Package admin реализует HTTP-обработчики администрирования участников.
package admin

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/job-marketplace/internal/http/request"
	"github.com/magabrotheeeer/job-marketplace/internal/http/response"
	"github.com/magabrotheeeer/job-marketplace/internal/models"
)

// Service описывает интерфейс управления участниками.
type Service interface {
	List(ctx context.Context, p models.Principal, role models.Role) ([]models.Actor, error)
	Delete(ctx context.Context, p models.Principal, actorID string) error
}

// Handler обрабатывает административные запросы.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ListUsers godoc
// @Summary Список участников
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param role query string false "client, worker или admin"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.ErrorResponse
// @Router /admin/users [get]
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.list_users"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	p, ok := request.Principal(w, r, log)
	if !ok {
		return
	}
	actors, err := h.service.List(r.Context(), p, models.Role(r.URL.Query().Get("role")))
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	render.JSON(w, r, response.StatusOKWithData(actors))
}

// DeleteUser godoc
// @Summary Удаление участника
// @Description Удаляет участника вместе с вакансиями, откликами, заявками на найм, профилем и отзывами. Запросы оплаты и транзакции сохраняются.
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID участника"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 412 {object} response.ErrorResponse "Удаление самого себя"
// @Router /admin/users/{id} [delete]
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.delete_user"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	p, ok := request.Principal(w, r, log)
	if !ok {
		return
	}
	actorID := chi.URLParam(r, "id")
	if err := h.service.Delete(r.Context(), p, actorID); err != nil {
		response.FromError(w, r, log, err)
		return
	}

	log.Info("actor deleted", slog.String("actor_id", actorID), slog.String("by", p.ID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"deleted_actor_id": actorID,
	}))
}
