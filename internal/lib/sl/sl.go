// Package sl содержит вспомогательные атрибуты для slog.
package sl

import (
	"log/slog"

	"github.com/magabrotheeeer/job-marketplace/internal/lib/apperrors"
)

// Err возвращает атрибут "error" с текстом ошибки.
//
//	log.Error("failed to decide application", sl.Err(err))
func Err(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "<nil>")
	}
	return slog.String("error", err.Error())
}

// ErrKind возвращает атрибут "error_kind" с видом доменной ошибки.
// Для ошибок вне таксономии значение "internal".
func ErrKind(err error) slog.Attr {
	kind := apperrors.KindOf(err)
	if kind == "" {
		return slog.String("error_kind", "internal")
	}
	return slog.String("error_kind", string(kind))
}
