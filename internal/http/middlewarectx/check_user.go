package middlewarectx

import (
	"log/slog"
	"net/http"
	"slices"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/job-marketplace/internal/http/response"
	"github.com/magabrotheeeer/job-marketplace/internal/lib/apperrors"
	"github.com/magabrotheeeer/job-marketplace/internal/models"
)

// RequireRole пропускает запрос, только если роль участника входит в roles.
// Должен стоять после JWTMiddleware.
func RequireRole(log *slog.Logger, roles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := PrincipalFrom(r.Context())
			if !ok {
				log.Error("principal missing in context")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.ErrorResponse{
					Status: response.StatusError,
					Error:  "user identification missing",
					Kind:   string(apperrors.KindUnauthenticated),
				})
				return
			}

			if !slices.Contains(roles, p.Role) {
				log.Info("role is not allowed", slog.String("role", string(p.Role)), slog.String("path", r.URL.Path))
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.ErrorResponse{
					Status: response.StatusError,
					Error:  "role is not allowed to perform this action",
					Kind:   string(apperrors.KindUnauthorized),
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
