package payment

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/job-marketplace/internal/http/request"
	"github.com/magabrotheeeer/job-marketplace/internal/http/response"
	"github.com/magabrotheeeer/job-marketplace/internal/models"
)

// SubscribeRequest — выбор периода подписки.
type SubscribeRequest struct {
	SubscriptionType string `json:"subscription_type" validate:"required"`
}

// Pay godoc
// @Summary Оплата принятого запроса
// @Description Создаёт новую попытку оплаты и возвращает ссылку шлюза. Каждая попытка получает свой tx_ref.
// @Tags Payments
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID запроса оплаты"
// @Success 201 {object} response.Response
// @Failure 403 {object} response.ErrorResponse
// @Failure 412 {object} response.ErrorResponse "Запрос не принят"
// @Failure 502 {object} response.ErrorResponse "Ошибка шлюза"
// @Router /payment-requests/{id}/pay [post]
func (h *Handler) Pay(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.payment.pay")

	p, ok := request.Principal(w, r, log)
	if !ok {
		return
	}

	checkout, err := h.service.PayRequest(r.Context(), p, chi.URLParam(r, "id"))
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}

	log.Info("payment initiated", slog.String("tx_ref", checkout.ExternalRef))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(checkout))
}

// Subscribe godoc
// @Summary Оплата подписки
// @Tags Subscriptions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SubscribeRequest true "monthly или yearly"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 502 {object} response.ErrorResponse "Ошибка шлюза"
// @Router /subscriptions/initiate [post]
func (h *Handler) Subscribe(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.payment.subscribe")

	p, ok := request.Principal(w, r, log)
	if !ok {
		return
	}
	var req SubscribeRequest
	if !request.Decode(w, r, log, h.validate, &req) {
		return
	}

	checkout, err := h.service.Subscribe(r.Context(), p, models.SubscriptionType(req.SubscriptionType))
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}

	log.Info("subscription payment initiated", slog.String("tx_ref", checkout.ExternalRef))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(checkout))
}

// Verify godoc
// @Summary Проверка статуса платежа
// @Description Запрашивает статус у шлюза и завершает транзакцию, если он окончательный. Повторные вызовы безопасны.
// @Tags Payments
// @Produce json
// @Security BearerAuth
// @Param ref path string true "tx_ref"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 502 {object} response.ErrorResponse
// @Router /payments/verify/{ref} [get]
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.payment.verify")

	p, ok := request.Principal(w, r, log)
	if !ok {
		return
	}

	tx, err := h.service.Verify(r.Context(), p, chi.URLParam(r, "ref"))
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	render.JSON(w, r, response.StatusOKWithData(tx))
}
