// Package password реализует хеширование и проверку паролей на bcrypt.
package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrMismatch возвращается, если пароль не соответствует хэшу.
var ErrMismatch = errors.New("password mismatch")

// dummyHash хэш случайной строки. Сравнение с ним выравнивает время ответа
// при входе несуществующего пользователя.
var dummyHash = []byte("$2a$10$7EqJtq98hPqEX7fNZaFWoOa3UdGm8R1YqQ5XGxXv/6I4Zq9jv3Q1K")

// GetHash принимает пароль пользователя и возвращает его bcrypt‑хэш.
func GetHash(password string) (string, error) {
	const op = "password.GetHash"
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return string(hashedPassword), nil
}

// CompareHash сравнивает bcrypt‑хэш с введённым паролем.
//
// Возвращает nil при совпадении, ErrMismatch при несовпадении
// и обёрнутую ошибку bcrypt, если хэш повреждён.
func CompareHash(originalHash, externalPassword string) error {
	const op = "password.CompareHash"
	err := bcrypt.CompareHashAndPassword([]byte(originalHash), []byte(externalPassword))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return fmt.Errorf("%s: %w", op, ErrMismatch)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

// CompareDummy тратит на проверку столько же времени, сколько CompareHash,
// но всегда возвращает ErrMismatch.
func CompareDummy(externalPassword string) error {
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(externalPassword))
	return ErrMismatch
}
