package models

import "time"

// Session описывает аутентифицированного пользователя текущего запроса.
// Создаётся middleware после проверки токена и передаётся дальше через контекст.
type Session struct {
	UserID    string
	Username  string
	TokenID   string
	ExpiresAt time.Time
}
