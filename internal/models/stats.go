package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DashboardStats агрегаты для карточек дашборда.
type DashboardStats struct {
	Clients       int             `json:"clients"`
	Invoices      int             `json:"invoices"`
	PendingAmount decimal.Decimal `json:"pendingAmount"`
	PaidAmount    decimal.Decimal `json:"paidAmount"`
	PaidLast7     decimal.Decimal `json:"paidLast7"`
	PaidMonth     decimal.Decimal `json:"paidMonth"`
	PaidYear      decimal.Decimal `json:"paidYear"`
}

// StatsWindows нижние границы периодов, за которые считаются оплаты.
type StatsWindows struct {
	Since7Days time.Time
	MonthStart time.Time
	YearStart  time.Time
}
