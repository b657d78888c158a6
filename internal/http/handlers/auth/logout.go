package auth

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/job-marketplace/internal/http/middlewarectx"
	"github.com/magabrotheeeer/job-marketplace/internal/http/response"
)

// Logout godoc
// @Summary Выход
// @Description Удаляет cookie jwt. Выданный токен остаётся действительным до истечения срока.
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Response
// @Router /auth/logout [post]
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middlewarectx.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"message": "logged out",
	}))
}
