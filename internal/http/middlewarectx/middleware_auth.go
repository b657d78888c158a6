// Package middlewarectx содержит HTTP middleware аутентификации, проверки
// ролей и ограничения частоты запросов.
//
// JWTMiddleware достаёт токен из заголовка Authorization или cookie "jwt",
// проверяет его через сервис аутентификации и кладёт Principal в контекст
// запроса. При ошибке проверки возвращается 401 Unauthorized.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/job-marketplace/internal/http/response"
	"github.com/magabrotheeeer/job-marketplace/internal/lib/apperrors"
	"github.com/magabrotheeeer/job-marketplace/internal/lib/sl"
	"github.com/magabrotheeeer/job-marketplace/internal/models"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

// PrincipalKey — ключ аутентифицированного участника в контексте.
const PrincipalKey Key = "principal"

// CookieName — имя cookie с сессионным токеном.
const CookieName = "jwt"

// WithPrincipal возвращает контекст с участником.
func WithPrincipal(ctx context.Context, p models.Principal) context.Context {
	return context.WithValue(ctx, PrincipalKey, p)
}

// PrincipalFrom извлекает участника из контекста.
func PrincipalFrom(ctx context.Context) (models.Principal, bool) {
	p, ok := ctx.Value(PrincipalKey).(models.Principal)
	if !ok || p.ID == "" {
		return models.Principal{}, false
	}
	return p, true
}

func tokenFromRequest(r *http.Request) string {
	if authHeader := r.Header.Get("Authorization"); strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	if c, err := r.Cookie(CookieName); err == nil {
		return c.Value
	}
	return ""
}

// JWTMiddleware возвращает HTTP middleware, который проверяет сессионный токен.
//
// Если токен валиден, добавляет Principal в контекст запроса,
// иначе возвращает ошибку с HTTP статусом 401 Unauthorized.
func JWTMiddleware(authService Service, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.JWTMiddleware"
			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			tokenStr := tokenFromRequest(r)
			if tokenStr == "" {
				log.Info("missing session token")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.ErrorResponse{
					Status: response.StatusError,
					Error:  "missing or invalid authorization header",
					Kind:   string(apperrors.KindUnauthenticated),
				})
				return
			}

			principal, err := authService.ValidateToken(r.Context(), tokenStr)
			if err != nil {
				log.Info("invalid or expired token", sl.Err(err))
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.ErrorResponse{
					Status: response.StatusError,
					Error:  "invalid or expired token",
					Kind:   string(apperrors.KindUnauthenticated),
				})
				return
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
		})
	}
}
