// Package invoiceget реализует чтение долгов: одного по ?id= или списка
// с фильтром по клиенту и порядком сортировки.
package invoiceget

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

// Service описывает чтение долгов.
type Service interface {
	Get(ctx context.Context, userID, id string) (*models.Invoice, error)
	List(ctx context.Context, filter models.InvoiceFilter) ([]*models.Invoice, error)
}

// Handler обрабатывает GET /invoices.
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
// @Summary Долги
// @Description С id возвращает один долг, без id - список долгов пользователя. В обоих случаях вместе с клиентом и платежами.
// @Tags Invoices
// @Produce  json
// @Param id query string false "ID долга"
// @Param clientId query string false "Фильтр по клиенту"
// @Param order query string false "Порядок: due или created"
// @Success 200 {object} map[string]any "Долг или список долгов"
// @Failure 401 {object} response.ErrorResponse "Нет сессии"
// @Failure 404 {object} response.ErrorResponse "Долг не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security CookieAuth
// @Router /invoices [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.invoice.get"

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
		invoice, err := h.service.Get(r.Context(), session.UserID, id)
		if err != nil {
			response.ServiceError(w, r, log, err, "get invoice")
			return
		}
		render.JSON(w, r, response.StatusOKWithData(map[string]any{
			"invoice": invoice,
		}))
		return
	}

	order, _ := request.Query(r, "order")
	invoices, err := h.service.List(r.Context(), models.InvoiceFilter{
		UserID:   session.UserID,
		ClientID: request.OptionalQuery(r, "clientId"),
		Order:    models.InvoiceOrder(order),
	})
	if err != nil {
		response.ServiceError(w, r, log, err, "list invoices")
		return
	}
	if invoices == nil {
		invoices = []*models.Invoice{}
	}
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"invoices": invoices,
	}))
}
