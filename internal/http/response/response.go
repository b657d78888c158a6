// Package response формирует JSON-конверт {status, error, kind, data} всех
// ответов API и переводит доменные ошибки в HTTP-статусы.
package response

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/job-marketplace/internal/lib/apperrors"
	"github.com/magabrotheeeer/job-marketplace/internal/lib/sl"
)

// Response — конверт ответа. Kind заполняется только для доменных ошибок.
type Response struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
	Kind   string `json:"kind,omitempty"`
	Data   any    `json:"data,omitempty"`
}

// ErrorResponse — тело ответа с ошибкой, на него ссылаются аннотации @Failure.
type ErrorResponse struct {
	Status string `json:"status" example:"Error"`
	Error  string `json:"error" example:"invalid request body"`
	Kind   string `json:"kind,omitempty" example:"VALIDATION_ERROR"`
}

const (
	StatusOK    = "OK"
	StatusError = "Error"
)

// StatusOKWithData возвращает успешный Response с переданными данными.
func StatusOKWithData(data any) Response {
	return Response{
		Status: StatusOK,
		Data:   data,
	}
}

// Error возвращает Response с ошибкой и переданным сообщением.
func Error(msg string) ErrorResponse {
	return ErrorResponse{
		Status: StatusError,
		Error:  msg,
	}
}

// StatusCode сопоставляет вид доменной ошибки HTTP-статусу.
func StatusCode(kind apperrors.Kind) int {
	switch kind {
	case apperrors.KindValidation:
		return http.StatusBadRequest
	case apperrors.KindUnauthenticated:
		return http.StatusUnauthorized
	case apperrors.KindUnauthorized, apperrors.KindInvalidRole:
		return http.StatusForbidden
	case apperrors.KindNotFound:
		return http.StatusNotFound
	case apperrors.KindDuplicate, apperrors.KindConflict, apperrors.KindInvalidTransition:
		return http.StatusConflict
	case apperrors.KindPreconditionFailed:
		return http.StatusPreconditionFailed
	case apperrors.KindGateway:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// FromError пишет ответ по доменной ошибке. Ошибки без вида считаются
// внутренними, их текст наружу не отдаётся.
func FromError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	appErr, ok := apperrors.As(err)
	if !ok {
		log.Error("internal error", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, Error("internal service error"))
		return
	}

	status := StatusCode(appErr.Kind)
	if status >= http.StatusInternalServerError {
		log.Error("request failed", sl.Err(err), sl.ErrKind(err))
	} else {
		log.Info("request rejected", sl.Err(err), sl.ErrKind(err))
	}
	render.Status(r, status)
	render.JSON(w, r, ErrorResponse{
		Status: StatusError,
		Error:  appErr.Message,
		Kind:   string(appErr.Kind),
	})
}

// ValidationError собирает нарушения правил validate в одно сообщение.
func ValidationError(errs validator.ValidationErrors) Response {
	msgs := make([]string, 0, len(errs))
	for _, fe := range errs {
		msgs = append(msgs, describe(fe))
	}
	return Response{
		Status: StatusError,
		Kind:   string(apperrors.KindValidation),
		Error:  strings.Join(msgs, ", "),
	}
}

func describe(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.ActualTag() {
	case "required":
		return fmt.Sprintf("field %s is a required field", field)
	case "email":
		return fmt.Sprintf("field %s must be a valid email", field)
	case "uuid":
		return fmt.Sprintf("field %s can contain only uuid", field)
	case "oneof":
		return fmt.Sprintf("field %s must be one of: %s", field, fe.Param())
	case "min", "gte":
		return fmt.Sprintf("field %s must be at least %s", field, fe.Param())
	case "max", "lte":
		return fmt.Sprintf("field %s must be at most %s", field, fe.Param())
	default:
		return fmt.Sprintf("field %s is not a valid", field)
	}
}
