// Package paymentcreate обрабатывает запись платежа по долгу.
package paymentcreate

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

// Request представляет запрос на запись платежа.
type Request struct {
	InvoiceID string           `json:"invoiceId" validate:"required"`
	Amount    *decimal.Decimal `json:"amount" validate:"required"`
	Method    string           `json:"method" validate:"required,max=50"`
	PaidAt    *string          `json:"paidAt,omitempty"`
}

// Service определяет интерфейс для записи платежей.
type Service interface {
	Record(ctx context.Context, userID string, p models.Payment) (*models.Payment, *models.Invoice, error)
}

// Handler обрабатывает запросы на запись платежей.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис платежей
	validate *validator.Validate // Валидатор структуры входящих данных
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
// @Summary Записать платеж
// @Description Записывает платеж по долгу и возвращает его вместе с пересчитанным долгом.
// @Tags Payments
// @Accept  json
// @Produce  json
// @Param request body Request true "Данные платежа"
// @Success 201 {object} map[string]any "Платеж записан"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или ошибка валидации"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Долг не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security CookieAuth
// @Router /payments [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.create"

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
		log.Info("failed to decode request", sl.Err(err))
		response.Fail(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		log.Info("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err))
		return
	}

	p := models.Payment{
		InvoiceID: req.InvoiceID,
		Amount:    *req.Amount,
		Method:    req.Method,
	}
	if req.PaidAt != nil {
		paidAt, err := models.ParseDate(*req.PaidAt)
		if err != nil {
			log.Info("invalid paidAt", sl.Err(err))
			response.Fail(w, r, http.StatusBadRequest, "paidAt: "+err.Error())
			return
		}
		p.PaidAt = paidAt
	}

	payment, invoice, err := h.service.Record(r.Context(), session.UserID, p)
	if err != nil {
		response.ServiceError(w, r, log, err, "record payment")
		return
	}

	log.Info("payment recorded",
		slog.String("payment_id", payment.ID),
		slog.String("invoice_status", string(invoice.Status)),
	)
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"payment": payment,
		"invoice": invoice,
	}))
}
