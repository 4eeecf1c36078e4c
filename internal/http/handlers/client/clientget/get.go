// Package clientget реализует чтение клиентов: одного по ?id= вместе с его
// долгами или всего списка пользователя.
package clientget

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

// Service описывает чтение клиентов.
type Service interface {
	Get(ctx context.Context, userID, id string) (*models.Client, []*models.Invoice, error)
	List(ctx context.Context, userID string, sort models.ClientSort) ([]*models.ClientWithStats, error)
}

// Handler обрабатывает GET /clients.
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
// @Summary Клиенты
// @Description Без id возвращает список клиентов с количеством долгов по статусам, с id - клиента и его долги.
// @Tags Clients
// @Produce  json
// @Param id query string false "ID клиента"
// @Param sort query string false "Порядок списка: name или recent"
// @Success 200 {object} map[string]any "Клиент или список клиентов"
// @Failure 401 {object} response.ErrorResponse "Нет сессии"
// @Failure 404 {object} response.ErrorResponse "Клиент не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security CookieAuth
// @Router /clients [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.client.get"

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

	if id, ok := request.Query(r, "id"); ok {
		client, invoices, err := h.service.Get(r.Context(), session.UserID, id)
		if err != nil {
			response.ServiceError(w, r, log, err, "get client")
			return
		}
		if invoices == nil {
			invoices = []*models.Invoice{}
		}
		render.JSON(w, r, response.StatusOKWithData(map[string]any{
			"client":   client,
			"invoices": invoices,
		}))
		return
	}

	sort, _ := request.Query(r, "sort")
	clients, err := h.service.List(r.Context(), session.UserID, models.ClientSort(sort))
	if err != nil {
		response.ServiceError(w, r, log, err, "list clients")
		return
	}
	if clients == nil {
		clients = []*models.ClientWithStats{}
	}
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"clients": clients,
	}))
}
