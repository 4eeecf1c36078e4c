// Package invoiceremove реализует удаление долга вместе с его платежами.
package invoiceremove

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/peso/internal/http/middlewarectx"
	"github.com/magabrotheeeer/peso/internal/http/request"
	"github.com/magabrotheeeer/peso/internal/http/response"
)

// Service описывает удаление долга.
type Service interface {
	Delete(ctx context.Context, userID, id string) error
}

// Handler обрабатывает DELETE /invoices?id=.
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
// @Summary Удаление долга
// @Tags Invoices
// @Produce  json
// @Param id query string true "ID долга"
// @Success 200 {object} response.Response "Долг удалён"
// @Failure 400 {object} response.ErrorResponse "Не передан id"
// @Failure 401 {object} response.ErrorResponse "Нет сессии"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security CookieAuth
// @Router /invoices [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.invoice.remove"

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

	id, ok := request.Query(r, "id")
	if !ok {
		response.Fail(w, r, http.StatusBadRequest, "id is required")
		return
	}

	if err := h.service.Delete(r.Context(), session.UserID, id); err != nil {
		response.ServiceError(w, r, log, err, "delete invoice")
		return
	}

	log.Info("invoice deleted", slog.String("invoice_id", id))
	render.JSON(w, r, response.Message("invoice deleted"))
}
