// Package clientupdate реализует частичное обновление клиента.
package clientupdate

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

// Request изменяемые поля клиента. Отсутствующее поле не меняется.
type Request struct {
	Name    *string `json:"name,omitempty" validate:"omitempty,max=200"`
	Email   *string `json:"email,omitempty" validate:"omitempty,email,max=200"`
	Address *string `json:"address,omitempty" validate:"omitempty,max=500"`
	Phone   *string `json:"phone,omitempty" validate:"omitempty,max=50"`
	Notes   *string `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

// Service описывает обновление клиента.
type Service interface {
	Update(ctx context.Context, userID, id string, patch models.ClientPatch) (*models.Client, error)
}

// Handler обрабатывает PUT /clients?id=.
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
// @Summary Обновление клиента
// @Tags Clients
// @Accept  json
// @Produce  json
// @Param id query string true "ID клиента"
// @Param request body Request true "Изменяемые поля"
// @Success 200 {object} map[string]any "Обновлённый клиент"
// @Failure 400 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 401 {object} response.ErrorResponse "Нет сессии"
// @Failure 404 {object} response.ErrorResponse "Клиент не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security CookieAuth
// @Router /clients [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.client.update"

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

	client, err := h.service.Update(r.Context(), session.UserID, id, models.ClientPatch{
		Name:    req.Name,
		Email:   req.Email,
		Address: req.Address,
		Phone:   req.Phone,
		Notes:   req.Notes,
	})
	if err != nil {
		response.ServiceError(w, r, log, err, "update client")
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"client": client,
	}))
}
