package payment

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/job-marketplace/internal/http/request"
	"github.com/magabrotheeeer/job-marketplace/internal/http/response"
)

// WorkerHistory godoc
// @Summary Полученные платежи
// @Tags Payments
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 403 {object} response.ErrorResponse
// @Router /payments/worker/history [get]
func (h *Handler) WorkerHistory(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.payment.worker_history")

	p, ok := request.Principal(w, r, log)
	if !ok {
		return
	}
	txs, err := h.service.WorkerHistory(r.Context(), p)
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	render.JSON(w, r, response.StatusOKWithData(txs))
}

// MySubscriptions godoc
// @Summary Мои платежи за подписку
// @Tags Subscriptions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /subscriptions/my [get]
func (h *Handler) MySubscriptions(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.payment.my_subscriptions")

	p, ok := request.Principal(w, r, log)
	if !ok {
		return
	}
	items, err := h.service.ListMySubscriptionPayments(r.Context(), p)
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	render.JSON(w, r, response.StatusOKWithData(items))
}

// AllSubscriptions godoc
// @Summary Все платежи за подписку
// @Tags Subscriptions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 403 {object} response.ErrorResponse "Только администратор"
// @Router /subscriptions/all [get]
func (h *Handler) AllSubscriptions(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.payment.all_subscriptions")

	p, ok := request.Principal(w, r, log)
	if !ok {
		return
	}
	items, err := h.service.ListAllSubscriptionPayments(r.Context(), p)
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	render.JSON(w, r, response.StatusOKWithData(items))
}
