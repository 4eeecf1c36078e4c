// Package clientremove реализует удаление клиента. Пока у клиента есть
// непогашенные долги, удаление отклоняется с 409.
package clientremove

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

// Service описывает удаление клиента.
type Service interface {
	Delete(ctx context.Context, userID, id string) error
}

// Handler обрабатывает DELETE /clients?id=.
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
// @Summary Удаление клиента
// @Tags Clients
// @Produce  json
// @Param id query string true "ID клиента"
// @Success 200 {object} response.Response "Клиент удалён"
// @Failure 400 {object} response.ErrorResponse "Не передан id"
// @Failure 401 {object} response.ErrorResponse "Нет сессии"
// @Failure 409 {object} response.ErrorResponse "У клиента есть непогашенные долги"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security CookieAuth
// @Router /clients [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.client.remove"

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
		response.ServiceError(w, r, log, err, "delete client")
		return
	}

	log.Info("client deleted", slog.String("client_id", id))
	render.JSON(w, r, response.Message("client deleted"))
}
