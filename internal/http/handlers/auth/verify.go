package auth

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/job-marketplace/internal/http/response"
)

// VerifyEmail godoc
// @Summary Подтверждение e-mail
// @Tags Auth
// @Produce json
// @Param token path string true "Токен из письма"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse "Токен не найден"
// @Router /auth/verify/{token} [get]
func (h *Handler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.verify"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	actor, err := h.service.VerifyEmail(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}

	log.Info("email verified", slog.String("actor_id", actor.ID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"actor":   actor,
		"message": "email verified",
	}))
}
