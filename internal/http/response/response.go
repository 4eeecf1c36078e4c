// Package response содержит вспомогательные типы и функции для формирования
// унифицированных JSON‑ответов HTTP‑обработчиков: успешный ответ несёт
// "status":"OK" и поля с данными, ответ с ошибкой - "status":"Error" и текст.
package response

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/peso/internal/lib/sl"
	"github.com/magabrotheeeer/peso/internal/services"
	"github.com/magabrotheeeer/peso/internal/storage"
)

// Response описывает стандартную структуру JSON‑ответа без данных.
type Response struct {
	Status  string `json:"status"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// ErrorResponse структура ошибки для Swagger-документации.
type ErrorResponse struct {
	Status string `json:"status" example:"Error"`
	Error  string `json:"error" example:"invalid request body"`
}

const (
	// StatusOK значение статуса для успешного ответа.
	StatusOK = "OK"
	// StatusError значение статуса для ответа с ошибкой.
	StatusError = "Error"
)

// StatusOKWithData возвращает успешный ответ, в котором рядом со "status"
// лежат поля data.
func StatusOKWithData(data map[string]any) map[string]any {
	out := make(map[string]any, len(data)+1)
	for k, v := range data {
		out[k] = v
	}
	out["status"] = StatusOK
	return out
}

// Message возвращает успешный ответ с текстовым сообщением.
func Message(msg string) Response {
	return Response{
		Status:  StatusOK,
		Message: msg,
	}
}

// Error возвращает ответ с ошибкой и переданным сообщением.
func Error(msg string) ErrorResponse {
	return ErrorResponse{
		Status: StatusError,
		Error:  msg,
	}
}

// Fail пишет код status и тело с ошибкой msg.
func Fail(w http.ResponseWriter, r *http.Request, status int, msg string) {
	w.WriteHeader(status)
	render.JSON(w, r, Error(msg))
}

// FromError подбирает HTTP-статус и текст ответа для ошибки сервисного слоя.
// Неизвестные ошибки дают 500 без подробностей.
func FromError(err error) (int, string) {
	var ve *services.ValidationError
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest, ve.Msg
	case errors.Is(err, services.ErrInvalidCredentials):
		return http.StatusUnauthorized, "incorrect credentials"
	case errors.Is(err, services.ErrNoSession):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, storage.ErrUserExists):
		return http.StatusConflict, "user already exists"
	case errors.Is(err, storage.ErrClientHasPendingDebts):
		return http.StatusConflict, "client has pending debts"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

// ServiceError логирует ошибку сервиса и отвечает статусом из FromError.
// Ошибки клиента пишутся в лог уровнем Info, остальные - Error.
func ServiceError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error, action string) {
	status, msg := FromError(err)
	if status >= http.StatusInternalServerError {
		log.Error("failed to "+action, sl.Err(err))
	} else {
		log.Info("failed to "+action, sl.Err(err), slog.Int("status", status))
	}
	Fail(w, r, status, msg)
}

// ValidationError формирует ответ со статусом Error на основе ошибок валидации.
// Каждое нарушение формируется в человеко‑читаемый текст, объединённый через запятую.
func ValidationError(err error) ErrorResponse {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return Error("invalid request")
	}

	var errsMsgs []string
	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is a required field", err.Field()))
		case "min":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be at least %s characters", err.Field(), err.Param()))
		case "max":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be at most %s characters", err.Field(), err.Param()))
		case "email":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be a valid email", err.Field()))
		case "eqfield":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s does not match", err.Field()))
		case "uuid":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s can contain only uuid", err.Field()))
		default:
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is not a valid", err.Field()))
		}
	}
	return Error(strings.Join(errsMsgs, ", "))
}
