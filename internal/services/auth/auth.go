// Package authservice содержит логику регистрации, входа и разрешения сессий.
package authservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/peso/internal/lib/jwt"
	"github.com/magabrotheeeer/peso/internal/lib/password"
	"github.com/magabrotheeeer/peso/internal/lib/sl"
	"github.com/magabrotheeeer/peso/internal/models"
	"github.com/magabrotheeeer/peso/internal/services"
	"github.com/magabrotheeeer/peso/internal/storage"
)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// CreateUser сохраняет нового пользователя.
	CreateUser(ctx context.Context, user models.User) (*models.User, error)
	// GetUserByUsername возвращает пользователя по имени или storage.ErrNotFound.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	// GetUser возвращает пользователя по ID или storage.ErrNotFound.
	GetUser(ctx context.Context, userID string) (*models.User, error)
}

// RevocationStore хранит идентификаторы отозванных токенов.
type RevocationStore interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// AuthService отвечает за регистрацию, вход и проверку сессий.
type AuthService struct {
	users    UserRepository
	jwtMaker jwt.Maker
	revoked  RevocationStore
	log      *slog.Logger
}

// NewAuthService создает новый экземпляр AuthService. revoked может быть nil,
// тогда выход из системы только удаляет cookie.
func NewAuthService(users UserRepository, jwtMaker jwt.Maker, revoked RevocationStore, log *slog.Logger) *AuthService {
	return &AuthService{
		users:    users,
		jwtMaker: jwtMaker,
		revoked:  revoked,
		log:      log,
	}
}

// Register создает пользователя с хэшированным паролем и выпускает для него токен сессии.
// Возвращает storage.ErrUserExists, если имя уже занято.
func (s *AuthService) Register(ctx context.Context, username, rawPassword string) (*models.User, string, error) {
	const op = "authservice.Register"

	_, err := s.users.GetUserByUsername(ctx, username)
	switch {
	case err == nil:
		return nil, "", fmt.Errorf("%s: %w", op, storage.ErrUserExists)
	case !errors.Is(err, storage.ErrNotFound):
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	user, err := s.users.CreateUser(ctx, models.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: hashed,
	})
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	token, _, err := s.jwtMaker.GenerateToken(user.ID, user.Username)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("user registered", slog.String("user_id", user.ID))
	return user, token, nil
}

// Login проверяет пароль и выпускает токен сессии. Отсутствие пользователя и неверный
// пароль неразличимы: в обоих случаях возвращается services.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, rawPassword string) (*models.User, string, error) {
	const op = "authservice.Login"

	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			_ = password.CompareDummy(rawPassword)
			return nil, "", fmt.Errorf("%s: %w", op, services.ErrInvalidCredentials)
		}
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, services.ErrInvalidCredentials)
	}

	token, _, err := s.jwtMaker.GenerateToken(user.ID, user.Username)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	return user, token, nil
}

// ResolveSession проверяет токен и загружает пользователя. Любая причина, по которой
// сессия недействительна, возвращается как services.ErrNoSession.
func (s *AuthService) ResolveSession(ctx context.Context, token string) (*models.Session, *models.User, error) {
	const op = "authservice.ResolveSession"

	if token == "" {
		return nil, nil, fmt.Errorf("%s: %w", op, services.ErrNoSession)
	}
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w: %w", op, services.ErrNoSession, err)
	}

	if s.revoked != nil {
		revoked, err := s.revoked.IsRevoked(ctx, claims.ID)
		switch {
		case err != nil:
			s.log.Warn("revocation list unavailable", sl.Err(err))
		case revoked:
			return nil, nil, fmt.Errorf("%s: %w", op, services.ErrNoSession)
		}
	}

	user, err := s.users.GetUser(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil, fmt.Errorf("%s: %w", op, services.ErrNoSession)
		}
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	session := &models.Session{
		UserID:   user.ID,
		Username: user.Username,
		TokenID:  claims.ID,
	}
	if claims.ExpiresAt != nil {
		session.ExpiresAt = claims.ExpiresAt.Time
	}
	return session, user, nil
}

// EndSession отзывает токен, если он действителен и список отзыва настроен.
// Отсутствующий или недействительный токен не является ошибкой.
func (s *AuthService) EndSession(ctx context.Context, token string) error {
	const op = "authservice.EndSession"

	if token == "" || s.revoked == nil {
		return nil
	}
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return nil
	}
	if claims.ExpiresAt == nil {
		return nil
	}
	if err := s.revoked.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
