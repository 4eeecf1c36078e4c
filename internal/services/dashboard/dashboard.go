// Package dashboardservice считает агрегаты для главной страницы.
package dashboardservice

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/magabrotheeeer/peso/internal/lib/sl"
	"github.com/magabrotheeeer/peso/internal/models"
)

// StatsRepository возвращает агрегаты пользователя за заданные периоды.
type StatsRepository interface {
	DashboardStats(ctx context.Context, userID string, w models.StatsWindows) (*models.DashboardStats, error)
}

// DashboardService считает статистику дашборда. Ошибки хранилища не выходят
// наружу: вместо них возвращаются нулевые значения.
type DashboardService struct {
	repo StatsRepository
	log  *slog.Logger
	now  func() time.Time
}

// NewDashboardService создает DashboardService с системными часами.
func NewDashboardService(repo StatsRepository, log *slog.Logger) *DashboardService {
	return &DashboardService{
		repo: repo,
		log:  log,
		now:  time.Now,
	}
}

// Windows возвращает начала периодов в UTC: семь суток назад, первое число
// текущего месяца и первое января текущего года.
func Windows(now time.Time) models.StatsWindows {
	now = now.UTC()
	return models.StatsWindows{
		Since7Days: now.Add(-7 * 24 * time.Hour),
		MonthStart: time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC),
		YearStart:  time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC),
	}
}

// Stats возвращает статистику пользователя userID.
func (s *DashboardService) Stats(ctx context.Context, userID string) *models.DashboardStats {
	const op = "dashboardservice.Stats"

	st, err := s.repo.DashboardStats(ctx, userID, Windows(s.now()))
	if err != nil {
		s.log.Error("failed to load dashboard stats, returning zeros",
			slog.String("op", op),
			sl.Err(err),
		)
		return Empty()
	}
	return st
}

// Empty возвращает статистику с нулевыми значениями.
func Empty() *models.DashboardStats {
	return &models.DashboardStats{
		PendingAmount: decimal.Zero,
		PaidAmount:    decimal.Zero,
		PaidLast7:     decimal.Zero,
		PaidMonth:     decimal.Zero,
		PaidYear:      decimal.Zero,
	}
}
