// Package middlewarectx содержит HTTP middleware сервиса.
//
// SessionMiddleware читает токен из cookie сессии, разрешает его через сервис
// аутентификации и кладёт в контекст запроса сессию и пользователя. Если
// сессия недействительна, cookie удаляется и запрос завершается с 401.
package middlewarectx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/peso/internal/http/response"
	"github.com/magabrotheeeer/peso/internal/lib/cookie"
	"github.com/magabrotheeeer/peso/internal/lib/sl"
	"github.com/magabrotheeeer/peso/internal/models"
	"github.com/magabrotheeeer/peso/internal/services"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

const (
	// SessionKey ключ для *models.Session в контексте.
	SessionKey Key = "session"
	// UserKey ключ для *models.User в контексте.
	UserKey Key = "user"
)

// SessionResolver проверяет токен и возвращает сессию с пользователем.
type SessionResolver interface {
	ResolveSession(ctx context.Context, token string) (*models.Session, *models.User, error)
}

// SessionMiddleware возвращает middleware, пропускающий только запросы с действующей сессией.
func SessionMiddleware(resolver SessionResolver, jar *cookie.Jar, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.SessionMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			token := jar.Token(r)
			if token == "" {
				log.Debug("session cookie missing")
				response.Fail(w, r, http.StatusUnauthorized, "unauthorized")
				return
			}

			session, user, err := resolver.ResolveSession(r.Context(), token)
			if err != nil {
				if errors.Is(err, services.ErrNoSession) {
					log.Info("session rejected", sl.Err(err))
					jar.Clear(w)
					response.Fail(w, r, http.StatusUnauthorized, "unauthorized")
					return
				}
				log.Error("failed to resolve session", sl.Err(err))
				response.Fail(w, r, http.StatusInternalServerError, "internal error")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session, user)))
		})
	}
}

// WithSession возвращает контекст с сессией и пользователем.
func WithSession(ctx context.Context, session *models.Session, user *models.User) context.Context {
	ctx = context.WithValue(ctx, SessionKey, session)
	return context.WithValue(ctx, UserKey, user)
}

// SessionFromContext возвращает сессию, положенную SessionMiddleware.
func SessionFromContext(ctx context.Context) (*models.Session, bool) {
	s, ok := ctx.Value(SessionKey).(*models.Session)
	return s, ok && s != nil
}

// UserFromContext возвращает пользователя, положенного SessionMiddleware.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	u, ok := ctx.Value(UserKey).(*models.User)
	return u, ok && u != nil
}
