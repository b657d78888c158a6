// Package paymentrequests реализует HTTP-обработчики запросов оплаты
// от исполнителя клиенту.
package paymentrequests

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/job-marketplace/internal/http/request"
	"github.com/magabrotheeeer/job-marketplace/internal/http/response"
	"github.com/magabrotheeeer/job-marketplace/internal/models"
	prservice "github.com/magabrotheeeer/job-marketplace/internal/services/paymentrequests"
)

// Service описывает интерфейс бизнес-логики запросов оплаты.
type Service interface {
	Create(ctx context.Context, p models.Principal, in prservice.CreateInput) (*models.PaymentRequest, error)
	Decide(ctx context.Context, p models.Principal, requestID string, to models.PaymentRequestStatus) (*models.PaymentRequest, error)
	ListByClient(ctx context.Context, p models.Principal) ([]models.PaymentRequest, error)
	ListByWorker(ctx context.Context, p models.Principal) ([]models.PaymentRequest, error)
}

// CreateRequest — тело запроса оплаты. Сумма в основных единицах валюты.
type CreateRequest struct {
	ClientID string  `json:"client_id" validate:"required"`
	Amount   float64 `json:"amount" validate:"required"`
	Message  string  `json:"message" validate:"max=2000"`
}

// StatusRequest — решение клиента.
type StatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// Handler обрабатывает запросы оплаты.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// Create godoc
// @Summary Запрос оплаты клиенту
// @Tags PaymentRequests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateRequest true "Запрос оплаты"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Некорректная сумма"
// @Failure 403 {object} response.ErrorResponse "Недопустимая роль"
// @Router /payment-requests [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.paymentrequests.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	p, ok := request.Principal(w, r, log)
	if !ok {
		return
	}
	var req CreateRequest
	if !request.Decode(w, r, log, h.validate, &req) {
		return
	}

	pr, err := h.service.Create(r.Context(), p, prservice.CreateInput{
		ClientID: req.ClientID,
		Amount:   req.Amount,
		Message:  req.Message,
	})
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}

	log.Info("payment request created", slog.String("payment_request_id", pr.ID), slog.Int64("amount_minor", pr.AmountMinor))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(pr))
}

// ForClient godoc
// @Summary Запросы оплаты, адресованные мне
// @Tags PaymentRequests
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /payment-requests/client [get]
func (h *Handler) ForClient(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, "handlers.paymentrequests.for_client", h.service.ListByClient)
}

// ForWorker godoc
// @Summary Мои запросы оплаты
// @Tags PaymentRequests
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /payment-requests/worker [get]
func (h *Handler) ForWorker(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, "handlers.paymentrequests.for_worker", h.service.ListByWorker)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request, op string,
	fn func(ctx context.Context, p models.Principal) ([]models.PaymentRequest, error)) {
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	p, ok := request.Principal(w, r, log)
	if !ok {
		return
	}
	items, err := fn(r.Context(), p)
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	render.JSON(w, r, response.StatusOKWithData(items))
}

// Decide godoc
// @Summary Решение клиента по запросу оплаты
// @Description Клиент может принять или отклонить запрос. Статус paid выставляется только платёжным мостом.
// @Tags PaymentRequests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID запроса"
// @Param request body StatusRequest true "accepted или rejected"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Router /payment-requests/{id} [put]
func (h *Handler) Decide(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.paymentrequests.decide"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	p, ok := request.Principal(w, r, log)
	if !ok {
		return
	}
	var req StatusRequest
	if !request.Decode(w, r, log, h.validate, &req) {
		return
	}

	pr, err := h.service.Decide(r.Context(), p, chi.URLParam(r, "id"), models.PaymentRequestStatus(req.Status))
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}

	log.Info("payment request decided", slog.String("payment_request_id", pr.ID), slog.String("status", string(pr.Status)))
	render.JSON(w, r, response.StatusOKWithData(pr))
}
