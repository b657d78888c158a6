// Package request содержит общие шаги разбора HTTP-запроса: чтение JSON-тела
// с валидацией, извлечение участника и параметров пагинации.
package request

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/job-marketplace/internal/http/middlewarectx"
	"github.com/magabrotheeeer/job-marketplace/internal/http/response"
	"github.com/magabrotheeeer/job-marketplace/internal/lib/apperrors"
	"github.com/magabrotheeeer/job-marketplace/internal/lib/sl"
	"github.com/magabrotheeeer/job-marketplace/internal/models"
)

// Decode читает JSON-тело в dst и проверяет его валидатором.
// При ошибке пишет ответ сам и возвращает false.
func Decode(w http.ResponseWriter, r *http.Request, log *slog.Logger, validate *validator.Validate, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return false
	}

	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			log.Error("validator misuse", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("internal service error"))
			return false
		}
		log.Info("validation failed", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(verrs))
		return false
	}
	return true
}

// Principal возвращает участника, положенного в контекст JWTMiddleware.
// Если его нет, пишет 401 и возвращает false.
func Principal(w http.ResponseWriter, r *http.Request, log *slog.Logger) (models.Principal, bool) {
	p, ok := middlewarectx.PrincipalFrom(r.Context())
	if !ok {
		response.FromError(w, r, log, apperrors.Unauthenticated("authentication required"))
		return models.Principal{}, false
	}
	return p, true
}

// IntQuery читает целый query-параметр. Отсутствующее или нечисловое значение
// заменяется на def.
func IntQuery(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}
