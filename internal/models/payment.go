package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment неизменяемая запись о платеже по долгу.
type Payment struct {
	ID        string          `json:"id"`
	UserID    string          `json:"userId"`
	InvoiceID string          `json:"invoiceId"`
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method"`
	PaidAt    time.Time       `json:"paidAt"`
	CreatedAt time.Time       `json:"createdAt"`
}
