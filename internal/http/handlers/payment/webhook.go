package payment

import (
	"io"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/job-marketplace/internal/http/response"
	"github.com/magabrotheeeer/job-marketplace/internal/lib/sl"
)

// maxWebhookBody ограничивает размер тела уведомления шлюза.
const maxWebhookBody = 1 << 20

// SignatureHeaders — заголовки, в которых шлюз присылает подпись тела.
var SignatureHeaders = []string{"Chapa-Signature", "X-Chapa-Signature"}

func signature(r *http.Request) string {
	for _, name := range SignatureHeaders {
		if v := r.Header.Get(name); v != "" {
			return v
		}
	}
	return ""
}

// Webhook godoc
// @Summary Уведомление платёжного шлюза
// @Description Подпись проверяется по HMAC-SHA256 от сырого тела. Повторная доставка не меняет состояние.
// @Tags Payments
// @Accept json
// @Produce json
// @Param Chapa-Signature header string true "HMAC-SHA256 подпись тела"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse "Неверная подпись"
// @Failure 404 {object} response.ErrorResponse "Транзакция не найдена"
// @Router /payments/webhook [post]
func (h *Handler) Webhook(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.payment.webhook")

	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		log.Error("failed to read webhook body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to read body"))
		return
	}
	defer func() {
		_ = r.Body.Close()
	}()

	if err := h.service.HandleWebhook(r.Context(), body, signature(r)); err != nil {
		response.FromError(w, r, log, err)
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"message": "webhook processed",
	}))
}
