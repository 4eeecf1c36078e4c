// Package cookie управляет cookie сессии: установкой после входа
// и очисткой при выходе или при обнаружении невалидного токена.
package cookie

import (
	"net/http"
	"time"
)

// DefaultName имя cookie сессии по умолчанию.
const DefaultName = "peso_session"

// Jar хранит параметры cookie сессии.
type Jar struct {
	Name   string
	MaxAge time.Duration
	Secure bool
}

// New создаёт Jar. Пустое имя заменяется на DefaultName.
func New(name string, maxAge time.Duration, secure bool) *Jar {
	if name == "" {
		name = DefaultName
	}
	return &Jar{Name: name, MaxAge: maxAge, Secure: secure}
}

// Set записывает токен в HTTP-only cookie с SameSite=Lax.
func (j *Jar) Set(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     j.Name,
		Value:    token,
		Path:     "/",
		MaxAge:   int(j.MaxAge.Seconds()),
		Expires:  time.Now().Add(j.MaxAge),
		HttpOnly: true,
		Secure:   j.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Clear удаляет cookie у клиента. Повторный вызов безопасен.
func (j *Jar) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     j.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   j.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Token возвращает значение cookie из запроса или пустую строку.
func (j *Jar) Token(r *http.Request) string {
	c, err := r.Cookie(j.Name)
	if err != nil {
		return ""
	}
	return c.Value
}
