// Package models содержит доменные структуры сервиса: пользователя, клиента,
// долга (invoice), платежа, сессии и агрегатов для дашборда.
// Структуры используются в бизнес‑логике, хранилище и при формировании JSON‑ответов.
package models

import "time"

// User представляет зарегистрированного пользователя системы.
type User struct {
	ID           string    `json:"id"`        // Уникальный идентификатор пользователя
	Username     string    `json:"username"`  // Имя пользователя (уникальное)
	PasswordHash string    `json:"-"`         // Хэш пароля, наружу не отдаётся
	CreatedAt    time.Time `json:"createdAt"` // Дата регистрации
}
