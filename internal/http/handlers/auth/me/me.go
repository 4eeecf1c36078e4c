// Package me отдаёт текущего пользователя сессии.
package me

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/peso/internal/http/middlewarectx"
	"github.com/magabrotheeeer/peso/internal/http/response"
)

// Handler возвращает пользователя из контекста запроса.
type Handler struct {
	log *slog.Logger
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger) *Handler {
	return &Handler{log: log}
}

// ServeHTTP godoc
// @Summary Текущий пользователь
// @Tags Auth
// @Produce  json
// @Success 200 {object} map[string]any "Пользователь"
// @Failure 401 {object} response.ErrorResponse "Нет сессии"
// @Router /auth/me [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	user, ok := middlewarectx.UserFromContext(r.Context())
	if !ok {
		h.log.Error("user missing in context")
		response.Fail(w, r, http.StatusUnauthorized, "unauthorized")
		return
	}
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"user": user,
	}))
}
