package auth

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/job-marketplace/internal/http/request"
	"github.com/magabrotheeeer/job-marketplace/internal/http/response"
)

// ForgotPasswordRequest — запрос ссылки для сброса пароля.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest — новый пароль.
type ResetPasswordRequest struct {
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// ForgotPassword godoc
// @Summary Запрос сброса пароля
// @Description Всегда отвечает успехом, чтобы не раскрывать наличие учётной записи.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body ForgotPasswordRequest true "E-mail"
// @Success 200 {object} response.Response
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /auth/forgot-password [post]
func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.forgot_password"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req ForgotPasswordRequest
	if !request.Decode(w, r, log, h.validate, &req) {
		return
	}

	if err := h.service.RequestPasswordReset(r.Context(), req.Email); err != nil {
		response.FromError(w, r, log, err)
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"message": "if the account exists, a reset link has been sent",
	}))
}

// ResetPassword godoc
// @Summary Сброс пароля
// @Tags Auth
// @Accept json
// @Produce json
// @Param token path string true "Токен сброса"
// @Param request body ResetPasswordRequest true "Новый пароль"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse "Токен не найден или истёк"
// @Router /auth/reset-password/{token} [post]
func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.reset_password"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req ResetPasswordRequest
	if !request.Decode(w, r, log, h.validate, &req) {
		return
	}

	if err := h.service.ResetPassword(r.Context(), chi.URLParam(r, "token"), req.Password); err != nil {
		response.FromError(w, r, log, err)
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"message": "password updated",
	}))
}
