// Package logout реализует выход из системы. Запрос без cookie тоже завершается успехом.
package logout

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/peso/internal/http/response"
	"github.com/magabrotheeeer/peso/internal/lib/cookie"
	"github.com/magabrotheeeer/peso/internal/lib/sl"
)

// Service отзывает токен сессии.
type Service interface {
	EndSession(ctx context.Context, token string) error
}

// Handler обрабатывает выход из системы.
type Handler struct {
	log     *slog.Logger
	service Service
	jar     *cookie.Jar
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service, jar *cookie.Jar) *Handler {
	return &Handler{
		log:     log,
		service: service,
		jar:     jar,
	}
}

// ServeHTTP godoc
// @Summary Выход из системы
// @Description Удаляет cookie сессии и отзывает токен, если настроен Redis.
// @Tags Auth
// @Produce  json
// @Success 200 {object} response.Response "Сессия завершена"
// @Router /auth/logout [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.logout"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if err := h.service.EndSession(r.Context(), h.jar.Token(r)); err != nil {
		log.Error("failed to revoke session", sl.Err(err))
	}

	h.jar.Clear(w)
	render.JSON(w, r, response.Message("logged out"))
}
