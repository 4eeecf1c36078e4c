// Package invoiceupdate реализует частичное обновление долга.
package invoiceupdate

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"
	"github.com/shopspring/decimal"

	"github.com/magabrotheeeer/peso/internal/http/middlewarectx"
	"github.com/magabrotheeeer/peso/internal/http/request"
	"github.com/magabrotheeeer/peso/internal/http/response"
	"github.com/magabrotheeeer/peso/internal/lib/sl"
	"github.com/magabrotheeeer/peso/internal/models"
)

// Request изменяемые поля долга. Статус всегда пересчитывается сервером.
type Request struct {
	ClientID    *string          `json:"clientId,omitempty"`
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	PaidAmount  *decimal.Decimal `json:"paidAmount,omitempty"`
	Description *string          `json:"description,omitempty" validate:"omitempty,max=1000"`
	DueDate     *string          `json:"dueDate,omitempty"`
}

// Service описывает обновление долга.
type Service interface {
	Update(ctx context.Context, userID, id string, patch models.InvoicePatch) (*models.Invoice, error)
}

// Handler обрабатывает PUT /invoices?id=.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: request.NewValidator(),
	}
}

// ServeHTTP godoc
// @Summary Обновление долга
// @Tags Invoices
// @Accept  json
// @Produce  json
// @Param id query string true "ID долга"
// @Param request body Request true "Изменяемые поля"
// @Success 200 {object} map[string]any "Обновлённый долг"
// @Failure 400 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 401 {object} response.ErrorResponse "Нет сессии"
// @Failure 404 {object} response.ErrorResponse "Долг не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security CookieAuth
// @Router /invoices [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.invoice.update"

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

	var req Request
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Info("failed to decode request body", sl.Err(err))
		response.Fail(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		log.Info("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err))
		return
	}

	patch := models.InvoicePatch{
		ClientID:    req.ClientID,
		Description: req.Description,
		Amount:      req.Amount,
		PaidAmount:  req.PaidAmount,
	}
	if req.DueDate != nil {
		due, err := models.ParseDate(*req.DueDate)
		if err != nil {
			log.Info("invalid due date", sl.Err(err))
			response.Fail(w, r, http.StatusBadRequest, "dueDate: "+err.Error())
			return
		}
		patch.DueDate = &due
	}

	inv, err := h.service.Update(r.Context(), session.UserID, id, patch)
	if err != nil {
		response.ServiceError(w, r, log, err, "update invoice")
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"invoice": inv,
	}))
}
