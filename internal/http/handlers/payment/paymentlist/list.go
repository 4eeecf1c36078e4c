// Package paymentlist отдаёт платежи пользователя, при необходимости по одному долгу.
package paymentlist

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/peso/internal/http/middlewarectx"
	"github.com/magabrotheeeer/peso/internal/http/request"
	"github.com/magabrotheeeer/peso/internal/http/response"
	"github.com/magabrotheeeer/peso/internal/models"
)

// Service определяет чтение платежей.
type Service interface {
	List(ctx context.Context, userID string, invoiceID *string) ([]*models.Payment, error)
}

// Handler обрабатывает GET /payments.
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
// @Summary Список платежей
// @Description Платежи пользователя, новые первыми.
// @Tags Payments
// @Produce  json
// @Param invoiceId query string false "Фильтр по долгу"
// @Success 200 {object} map[string]any "Список платежей"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security CookieAuth
// @Router /payments [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	session, ok := middlewarectx.SessionFromContext(r.Context())
	if !ok {
		log.Error("session missing in context")
		response.Fail(w, r, http.StatusUnauthorized, "unauthorized")
		return
	}

	payments, err := h.service.List(r.Context(), session.UserID, request.OptionalQuery(r, "invoiceId"))
	if err != nil {
		response.ServiceError(w, r, log, err, "list payments")
		return
	}
	if payments == nil {
		payments = []*models.Payment{}
	}
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"payments": payments,
	}))
}
