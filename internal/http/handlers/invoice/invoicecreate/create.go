// Package invoicecreate реализует создание долга. Статус вычисляется на
// сервере из суммы и оплаченной части, присланный статус игнорируется.
package invoicecreate

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

// Request данные нового долга. Даты принимаются в формате RFC 3339 или YYYY-MM-DD.
type Request struct {
	ClientID    string           `json:"clientId" validate:"required"`
	Amount      *decimal.Decimal `json:"amount" validate:"required"`
	PaidAmount  *decimal.Decimal `json:"paidAmount,omitempty"`
	Description *string          `json:"description,omitempty" validate:"omitempty,max=1000"`
	DueDate     string           `json:"dueDate" validate:"required"`
	Status      string           `json:"status,omitempty"`
}

// Service описывает создание долга.
type Service interface {
	Create(ctx context.Context, userID string, inv models.Invoice) (*models.Invoice, error)
}

// Handler обрабатывает POST /invoices.
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
// @Summary Создание долга
// @Tags Invoices
// @Accept  json
// @Produce  json
// @Param request body Request true "Данные долга"
// @Success 201 {object} map[string]any "Долг создан"
// @Failure 400 {object} response.ErrorResponse "Ошибка валидации или клиент не найден"
// @Failure 401 {object} response.ErrorResponse "Нет сессии"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security CookieAuth
// @Router /invoices [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.invoice.create"

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

	due, err := models.ParseDate(req.DueDate)
	if err != nil {
		log.Info("invalid due date", sl.Err(err))
		response.Fail(w, r, http.StatusBadRequest, "dueDate: "+err.Error())
		return
	}

	inv := models.Invoice{
		ClientID:    req.ClientID,
		Amount:      *req.Amount,
		Description: req.Description,
		DueDate:     due,
	}
	if req.PaidAmount != nil {
		inv.PaidAmount = *req.PaidAmount
	}

	created, err := h.service.Create(r.Context(), session.UserID, inv)
	if err != nil {
		response.ServiceError(w, r, log, err, "create invoice")
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"invoice": created,
	}))
}
