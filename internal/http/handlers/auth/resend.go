package auth

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/job-marketplace/internal/http/request"
	"github.com/magabrotheeeer/job-marketplace/internal/http/response"
)

// ResendVerificationRequest — e-mail неподтверждённой учётной записи.
type ResendVerificationRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResendVerification godoc
// @Summary Повторная отправка письма подтверждения
// @Description Выпускает новый токен, прежний перестаёт действовать. Для неизвестного e-mail отвечает успехом.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body ResendVerificationRequest true "E-mail"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.ErrorResponse "Учётная запись уже подтверждена"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /auth/resend-verification [post]
func (h *Handler) ResendVerification(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.resend_verification"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req ResendVerificationRequest
	if !request.Decode(w, r, log, h.validate, &req) {
		return
	}

	if err := h.service.ResendVerification(r.Context(), req.Email); err != nil {
		response.FromError(w, r, log, err)
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"message": "if the account exists, a verification link has been sent",
	}))
}
