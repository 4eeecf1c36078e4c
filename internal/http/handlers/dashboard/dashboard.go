// Package dashboard отдаёт агрегаты для главной страницы.
package dashboard

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/peso/internal/http/middlewarectx"
	"github.com/magabrotheeeer/peso/internal/http/response"
	"github.com/magabrotheeeer/peso/internal/models"
)

// Service считает статистику пользователя. Ошибок не возвращает.
type Service interface {
	Stats(ctx context.Context, userID string) *models.DashboardStats
}

// Handler обрабатывает GET /dashboard.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Статистика
// @Description Количество клиентов и долгов, суммы к оплате и оплаченного, оплаты за 7 дней, месяц и год.
// @Tags Dashboard
// @Produce  json
// @Success 200 {object} map[string]any "Статистика"
// @Failure 401 {object} response.ErrorResponse "Нет сессии"
// @Security CookieAuth
// @Router /dashboard [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.dashboard"

	session, ok := middlewarectx.SessionFromContext(r.Context())
	if !ok {
		h.log.Error("session missing in context",
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)
		response.Fail(w, r, http.StatusUnauthorized, "unauthorized")
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"stats": h.service.Stats(r.Context(), session.UserID),
	}))
}
