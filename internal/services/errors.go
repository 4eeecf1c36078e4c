// Package services объявляет ошибки бизнес-уровня, общие для всех сервисов.
package services

import (
	"errors"

	"github.com/google/uuid"
)

var (
	// ErrValidation входные данные нарушают бизнес-правила.
	ErrValidation = errors.New("validation failed")
	// ErrInvalidCredentials неверное имя пользователя или пароль.
	ErrInvalidCredentials = errors.New("incorrect credentials")
	// ErrNoSession токен отсутствует, недействителен, отозван или пользователь удалён.
	ErrNoSession = errors.New("no session")
)

// ValidationError описывает нарушение правила для конкретного поля.
// errors.Is(err, ErrValidation) возвращает true для любой ValidationError.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// Is сопоставляет ValidationError с ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Invalid создаёт ValidationError для поля field.
func Invalid(field, msg string) error {
	return &ValidationError{Field: field, Msg: msg}
}

// ValidID сообщает, является ли id корректным UUID.
func ValidID(id string) bool {
	return uuid.Validate(id) == nil
}
