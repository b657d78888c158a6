package auth

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/job-marketplace/internal/http/request"
	"github.com/magabrotheeeer/job-marketplace/internal/http/response"
	"github.com/magabrotheeeer/job-marketplace/internal/models"
	authservice "github.com/magabrotheeeer/job-marketplace/internal/services/auth"
)

// RegisterRequest — входные данные для регистрации.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Role     string `json:"role" validate:"required"`
	Phone    string `json:"phone"`
}

// Register godoc
// @Summary Регистрация участника
// @Description Создаёт клиента или исполнителя и отправляет письмо для подтверждения e-mail.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Данные регистрации"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 403 {object} response.ErrorResponse "Недопустимая роль"
// @Failure 409 {object} response.ErrorResponse "E-mail уже занят"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /auth/register [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.register"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req RegisterRequest
	if !request.Decode(w, r, log, h.validate, &req) {
		return
	}

	actor, err := h.service.Register(r.Context(), authservice.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     models.Role(req.Role),
		Phone:    req.Phone,
	})
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}

	log.Info("actor registered", slog.String("actor_id", actor.ID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"actor":   actor,
		"message": "user created successfully, check your email to verify the account",
	}))
}
