package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/magabrotheeeer/peso/internal/models"
)

const paymentColumns = `p.id, p.user_id, p.invoice_id, p.amount, p.method, p.paid_at, p.created_at`

// RecordPayment добавляет платёж и в той же транзакции пересчитывает оплаченную
// часть долга как сумму всех его платежей. Строка долга блокируется на время
// транзакции, поэтому параллельные платежи по одному долгу выполняются по очереди.
func (s *Storage) RecordPayment(ctx context.Context, payment models.Payment) (*models.Payment, *models.Invoice, error) {
	const op = "storage.RecordPayment"
	select {
	case <-ctx.Done():
		return nil, nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var inv *models.Invoice
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		inv, err = lockInvoice(ctx, tx, payment.UserID, payment.InvoiceID)
		if err != nil {
			return err
		}

		if err = tx.QueryRowContext(ctx, `INSERT INTO payments (id, user_id, invoice_id, amount, method, paid_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING created_at`,
			payment.ID, payment.UserID, payment.InvoiceID, payment.Amount, payment.Method,
			payment.PaidAt).Scan(&payment.CreatedAt); err != nil {
			return err
		}
		return settle(ctx, tx, inv)
	})
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	return &payment, inv, nil
}

// DeletePayment удаляет платёж и пересчитывает долг, к которому он относился.
// Если платежа нет, возвращает nil без ошибки.
func (s *Storage) DeletePayment(ctx context.Context, userID, id string) (*models.Invoice, error) {
	const op = "storage.DeletePayment"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var inv *models.Invoice
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var invoiceID string
		err := tx.QueryRowContext(ctx,
			`SELECT invoice_id FROM payments WHERE id = $1 AND user_id = $2`,
			id, userID).Scan(&invoiceID)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}

		locked, err := lockInvoice(ctx, tx, userID, invoiceID)
		if err != nil {
			return err
		}
		if _, err = tx.ExecContext(ctx, `DELETE FROM payments WHERE id = $1`, id); err != nil {
			return err
		}
		if err = settle(ctx, tx, locked); err != nil {
			return err
		}
		inv = locked
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return inv, nil
}

// ListPayments возвращает платежи пользователя, при invoiceID != nil только по этому долгу.
func (s *Storage) ListPayments(ctx context.Context, userID string, invoiceID *string) ([]*models.Payment, error) {
	const op = "storage.ListPayments"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + paymentColumns + `
			  FROM payments p
			  WHERE p.user_id = $1 AND ($2::uuid IS NULL OR p.invoice_id = $2::uuid)
			  ORDER BY p.paid_at DESC, p.created_at DESC`
	res, err := s.queryPayments(ctx, query, userID, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return res, nil
}

func (s *Storage) listPaymentsByClient(ctx context.Context, userID string, clientID *string) ([]*models.Payment, error) {
	query := `SELECT ` + paymentColumns + `
			  FROM payments p
			  JOIN invoices i ON i.id = p.invoice_id
			  WHERE p.user_id = $1 AND ($2::uuid IS NULL OR i.client_id = $2::uuid)
			  ORDER BY p.paid_at DESC, p.created_at DESC`
	return s.queryPayments(ctx, query, userID, clientID)
}

func (s *Storage) queryPayments(ctx context.Context, query string, args ...any) ([]*models.Payment, error) {
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := make([]*models.Payment, 0)
	for rows.Next() {
		p := &models.Payment{}
		if err := rows.Scan(&p.ID, &p.UserID, &p.InvoiceID, &p.Amount, &p.Method,
			&p.PaidAt, &p.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, p)
	}
	return res, rows.Err()
}

// settle записывает в долг сумму его платежей и производный статус.
func settle(ctx context.Context, tx *sql.Tx, inv *models.Invoice) error {
	var paid decimal.Decimal
	if err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM payments WHERE invoice_id = $1`,
		inv.ID).Scan(&paid); err != nil {
		return err
	}
	inv.PaidAmount = paid
	inv.Normalize()

	return tx.QueryRowContext(ctx, `UPDATE invoices
		SET paid_amount = $2, status = $3, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`,
		inv.ID, inv.PaidAmount, string(inv.Status)).Scan(&inv.UpdatedAt)
}
