package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MoneyPlaces число знаков после запятой в денежных суммах.
const MoneyPlaces = 2

// MaxAmount наибольшая сумма, которую вмещает NUMERIC(14,2).
var MaxAmount = decimal.RequireFromString("999999999999.99")

// InvoiceStatus статус долга, всегда вычисляется из суммы и оплаченной части.
type InvoiceStatus string

const (
	// StatusPending долг погашен не полностью.
	StatusPending InvoiceStatus = "PENDING"
	// StatusPaid оплаченная часть покрывает сумму долга.
	StatusPaid InvoiceStatus = "PAID"
)

// ComputeStatus возвращает PAID, если paid >= amount, иначе PENDING.
func ComputeStatus(amount, paid decimal.Decimal) InvoiceStatus {
	if paid.GreaterThanOrEqual(amount) {
		return StatusPaid
	}
	return StatusPending
}

// Invoice представляет долг клиента.
type Invoice struct {
	ID          string          `json:"id"`
	ClientID    string          `json:"clientId"`
	UserID      string          `json:"userId"`
	Description *string         `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	PaidAmount  decimal.Decimal `json:"paidAmount"`
	Status      InvoiceStatus   `json:"status"`
	DueDate     time.Time       `json:"dueDate"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
	Client      *Client         `json:"client,omitempty"`
	Payments    []*Payment      `json:"payments,omitempty"`
}

// Normalize пересчитывает статус из текущих сумм.
func (i *Invoice) Normalize() {
	i.Status = ComputeStatus(i.Amount, i.PaidAmount)
}

// Outstanding возвращает непогашенный остаток, не меньше нуля.
func (i *Invoice) Outstanding() decimal.Decimal {
	rest := i.Amount.Sub(i.PaidAmount)
	if rest.IsNegative() {
		return decimal.Zero
	}
	return rest
}

// InvoicePatch содержит поля для частичного обновления долга.
type InvoicePatch struct {
	ClientID    *string
	Description *string
	Amount      *decimal.Decimal
	PaidAmount  *decimal.Decimal
	DueDate     *time.Time
}

// InvoiceOrder задаёт порядок выдачи списка долгов.
type InvoiceOrder string

const (
	// InvoiceOrderCreated сначала недавно созданные.
	InvoiceOrderCreated InvoiceOrder = "created"
	// InvoiceOrderDue по сроку погашения, ближайшие первыми.
	InvoiceOrderDue InvoiceOrder = "due"
	// InvoiceOrderDueDesc по сроку погашения, поздние первыми.
	InvoiceOrderDueDesc InvoiceOrder = "due_desc"
)

// InvoiceFilter параметры выборки списка долгов пользователя.
type InvoiceFilter struct {
	UserID   string
	ClientID *string
	Order    InvoiceOrder
}
