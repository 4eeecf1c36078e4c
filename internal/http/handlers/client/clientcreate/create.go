// Package clientcreate реализует создание клиента.
package clientcreate

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/peso/internal/http/middlewarectx"
	"github.com/magabrotheeeer/peso/internal/http/request"
	"github.com/magabrotheeeer/peso/internal/http/response"
	"github.com/magabrotheeeer/peso/internal/lib/sl"
	"github.com/magabrotheeeer/peso/internal/models"
)

// Request данные нового клиента.
type Request struct {
	Name    string  `json:"name" validate:"required,max=200"`
	Email   *string `json:"email,omitempty" validate:"omitempty,email,max=200"`
	Address *string `json:"address,omitempty" validate:"omitempty,max=500"`
	Phone   *string `json:"phone,omitempty" validate:"omitempty,max=50"`
	Notes   *string `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

// Service описывает создание клиента.
type Service interface {
	Create(ctx context.Context, userID string, client models.Client) (*models.Client, error)
}

// Handler обрабатывает POST /clients.
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
// @Summary Создание клиента
// @Tags Clients
// @Accept  json
// @Produce  json
// @Param request body Request true "Данные клиента"
// @Success 201 {object} map[string]any "Клиент создан"
// @Failure 400 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 401 {object} response.ErrorResponse "Нет сессии"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security CookieAuth
// @Router /clients [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.client.create"

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

	client, err := h.service.Create(r.Context(), session.UserID, models.Client{
		Name:    req.Name,
		Email:   req.Email,
		Address: req.Address,
		Phone:   req.Phone,
		Notes:   req.Notes,
	})
	if err != nil {
		response.ServiceError(w, r, log, err, "create client")
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"client": client,
	}))
}
