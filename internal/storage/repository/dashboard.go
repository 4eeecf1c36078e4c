package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/peso/internal/models"
)

// DashboardStats считает агрегаты дашборда пользователя. Суммы оплат по периодам
// берутся по полностью оплаченным долгам, обновлённым не раньше начала периода.
func (s *Storage) DashboardStats(ctx context.Context, userID string, w models.StatsWindows) (*models.DashboardStats, error) {
	const op = "storage.DashboardStats"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT
			      (SELECT COUNT(*) FROM clients WHERE user_id = $1),
			      COUNT(*),
			      COALESCE(SUM(amount) FILTER (WHERE status = 'PENDING'), 0),
			      COALESCE(SUM(paid_amount) FILTER (WHERE status = 'PAID'), 0),
			      COALESCE(SUM(paid_amount) FILTER (WHERE status = 'PAID' AND updated_at >= $2), 0),
			      COALESCE(SUM(paid_amount) FILTER (WHERE status = 'PAID' AND updated_at >= $3), 0),
			      COALESCE(SUM(paid_amount) FILTER (WHERE status = 'PAID' AND updated_at >= $4), 0)
			  FROM invoices
			  WHERE user_id = $1`
	st := &models.DashboardStats{}
	if err := s.DB.QueryRowContext(ctx, query, userID, w.Since7Days, w.MonthStart, w.YearStart).Scan(
		&st.Clients, &st.Invoices, &st.PendingAmount, &st.PaidAmount,
		&st.PaidLast7, &st.PaidMonth, &st.PaidYear); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return st, nil
}
