package profiles

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/job-marketplace/internal/http/request"
	"github.com/magabrotheeeer/job-marketplace/internal/http/response"
	"github.com/magabrotheeeer/job-marketplace/internal/models"
)

// ClientProfileRequest — контактные данные клиента. Пустое поле не меняется.
type ClientProfileRequest struct {
	Name   string `json:"name" validate:"max=200"`
	Phone  string `json:"phone" validate:"max=32"`
	Gender string `json:"gender" validate:"max=16"`
}

// UpdateClient godoc
// @Summary Сохранение своего профиля клиента
// @Tags Clients
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ClientProfileRequest true "Профиль"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Неизвестный пол"
// @Failure 403 {object} response.ErrorResponse "Только клиент"
// @Router /clients/profile [put]
func (h *Handler) UpdateClient(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.profiles.update_client")

	p, ok := request.Principal(w, r, log)
	if !ok {
		return
	}
	var req ClientProfileRequest
	if !request.Decode(w, r, log, h.validate, &req) {
		return
	}

	actor, err := h.service.UpdateClientProfile(r.Context(), p, models.ClientProfileUpdate{
		Name:   req.Name,
		Phone:  req.Phone,
		Gender: req.Gender,
	})
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}

	log.Info("client profile saved", slog.String("actor_id", actor.ID))
	render.JSON(w, r, response.StatusOKWithData(actor))
}

// ReadClient godoc
// @Summary Профиль клиента
// @Tags Clients
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID клиента"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Router /clients/{id} [get]
func (h *Handler) ReadClient(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.profiles.read_client")

	p, ok := request.Principal(w, r, log)
	if !ok {
		return
	}
	actor, err := h.service.GetClient(r.Context(), p, chi.URLParam(r, "id"))
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	render.JSON(w, r, response.StatusOKWithData(actor))
}

// ListClients godoc
// @Summary Список клиентов
// @Tags Clients
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /clients [get]
func (h *Handler) ListClients(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.profiles.list_clients")

	p, ok := request.Principal(w, r, log)
	if !ok {
		return
	}
	clients, err := h.service.ListClients(r.Context(), p)
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	render.JSON(w, r, response.StatusOKWithData(clients))
}
