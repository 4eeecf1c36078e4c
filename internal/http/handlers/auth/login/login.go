// Package login реализует HTTP-обработчик входа пользователя.
//
// Handler декодирует и валидирует учётные данные, делегирует проверку сервису
// аутентификации и при успехе устанавливает cookie сессии. Отсутствующий
// пользователь и неверный пароль дают одинаковый ответ 401.
package login

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/peso/internal/http/request"
	"github.com/magabrotheeeer/peso/internal/http/response"
	"github.com/magabrotheeeer/peso/internal/lib/cookie"
	"github.com/magabrotheeeer/peso/internal/lib/sl"
	"github.com/magabrotheeeer/peso/internal/models"
)

// Request структура входных данных для авторизации.
//
// Username должен быть строкой длиной от 3 до 50 символов, пароль - минимум 6 символов.
type Request struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=6"`
}

// Handler обрабатывает HTTP-запросы для авторизации.
type Handler struct {
	log      *slog.Logger        // Логгер для записи операций и ошибок
	service  Service             // Сервис аутентификации
	jar      *cookie.Jar         // Параметры cookie сессии
	validate *validator.Validate // Валидатор для проверки входных данных
}

// Service описывает интерфейс бизнес-логики аутентификации.
type Service interface {
	Login(ctx context.Context, username, password string) (*models.User, string, error)
}

// New создает новый экземпляр Handler с указанными логгером, сервисом и cookie.
func New(log *slog.Logger, service Service, jar *cookie.Jar) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		jar:      jar,
		validate: request.NewValidator(),
	}
}

// ServeHTTP godoc
// @Summary Авторизация пользователя
// @Description Аутентифицирует пользователя по имени и паролю и устанавливает cookie сессии.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Учетные данные пользователя"
// @Success 200 {object} map[string]any "Успешная авторизация"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или ошибка валидации"
// @Failure 401 {object} response.ErrorResponse "Неверные учетные данные"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /auth/login [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

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

	user, token, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		response.ServiceError(w, r, log, err, "log in")
		return
	}

	h.jar.Set(w, token)
	log.Info("login success", slog.String("username", user.Username))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"user": user,
	}))
}
