package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/peso/internal/models"
	"github.com/magabrotheeeer/peso/internal/storage"
)

const invoiceColumns = `i.id, i.client_id, i.user_id, i.description, i.amount, i.paid_amount,
			      i.status, i.due_date, i.created_at, i.updated_at`

var invoiceOrder = map[models.InvoiceOrder]string{
	models.InvoiceOrderCreated: "i.created_at DESC, i.id",
	models.InvoiceOrderDue:     "i.due_date ASC, i.id",
	models.InvoiceOrderDueDesc: "i.due_date DESC, i.id",
}

// CreateInvoice сохраняет долг, если клиент принадлежит тому же пользователю.
// Иначе возвращает storage.ErrClientNotFound.
func (s *Storage) CreateInvoice(ctx context.Context, inv models.Invoice) (*models.Invoice, error) {
	const op = "storage.CreateInvoice"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	inv.Normalize()
	query := `INSERT INTO invoices (id, client_id, user_id, description, amount, paid_amount,
			      status, due_date)
			  SELECT $1::uuid, c.id, c.user_id, $4::text, $5::numeric, $6::numeric,
			      $7::text, $8::timestamptz
			  FROM clients c
			  WHERE c.id = $2 AND c.user_id = $3
			  RETURNING created_at, updated_at`
	err := s.DB.QueryRowContext(ctx, query,
		inv.ID, inv.ClientID, inv.UserID, inv.Description, inv.Amount, inv.PaidAmount,
		string(inv.Status), inv.DueDate).Scan(&inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || pgErrCode(err) == pgForeignKeyViolation {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrClientNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &inv, nil
}

// GetInvoice возвращает долг пользователя вместе с клиентом и платежами.
func (s *Storage) GetInvoice(ctx context.Context, userID, id string) (*models.Invoice, error) {
	const op = "storage.GetInvoice"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + invoiceColumns + `, ` + clientColumns + `
			  FROM invoices i
			  JOIN clients c ON c.id = i.client_id
			  WHERE i.id = $1 AND i.user_id = $2`
	inv, err := scanInvoiceWithClient(s.DB.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	payments, err := s.ListPayments(ctx, userID, &id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	inv.Payments = payments
	return inv, nil
}

// ListInvoices возвращает долги пользователя с клиентами и платежами.
func (s *Storage) ListInvoices(ctx context.Context, filter models.InvoiceFilter) ([]*models.Invoice, error) {
	const op = "storage.ListInvoices"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	order, ok := invoiceOrder[filter.Order]
	if !ok {
		order = invoiceOrder[models.InvoiceOrderCreated]
	}
	query := `SELECT ` + invoiceColumns + `, ` + clientColumns + `
			  FROM invoices i
			  JOIN clients c ON c.id = i.client_id
			  WHERE i.user_id = $1 AND ($2::uuid IS NULL OR i.client_id = $2::uuid)
			  ORDER BY ` + order
	rows, err := s.DB.QueryContext(ctx, query, filter.UserID, filter.ClientID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	res := make([]*models.Invoice, 0)
	byID := make(map[string]*models.Invoice)
	for rows.Next() {
		inv, err := scanInvoiceWithClient(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		res = append(res, inv)
		byID[inv.ID] = inv
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(res) == 0 {
		return res, nil
	}

	payments, err := s.listPaymentsByClient(ctx, filter.UserID, filter.ClientID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	for _, p := range payments {
		if inv, ok := byID[p.InvoiceID]; ok {
			inv.Payments = append(inv.Payments, p)
		}
	}
	return res, nil
}

// UpdateInvoice блокирует строку долга, применяет к ней mutate и сохраняет результат.
// Статус пересчитывается после mutate независимо от того, что она записала.
func (s *Storage) UpdateInvoice(ctx context.Context, userID, id string, mutate func(inv *models.Invoice) error) (*models.Invoice, error) {
	const op = "storage.UpdateInvoice"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		inv, err := lockInvoice(ctx, tx, userID, id)
		if err != nil {
			return err
		}
		clientID := inv.ClientID
		if err = mutate(inv); err != nil {
			return err
		}
		inv.Normalize()

		if inv.ClientID != clientID {
			var owned bool
			if err = tx.QueryRowContext(ctx,
				`SELECT EXISTS (SELECT 1 FROM clients WHERE id = $1 AND user_id = $2)`,
				inv.ClientID, userID).Scan(&owned); err != nil {
				return err
			}
			if !owned {
				return storage.ErrClientNotFound
			}
		}

		_, err = tx.ExecContext(ctx, `UPDATE invoices
			SET client_id = $2, description = $3, amount = $4, paid_amount = $5,
			    status = $6, due_date = $7, updated_at = now()
			WHERE id = $1`,
			inv.ID, inv.ClientID, inv.Description, inv.Amount, inv.PaidAmount,
			string(inv.Status), inv.DueDate)
		if pgErrCode(err) == pgForeignKeyViolation {
			return storage.ErrClientNotFound
		}
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	inv, err := s.GetInvoice(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return inv, nil
}

// DeleteInvoice удаляет долг и его платежи. Возвращает количество удалённых строк.
func (s *Storage) DeleteInvoice(ctx context.Context, userID, id string) (int64, error) {
	const op = "storage.DeleteInvoice"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM invoices WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}

// lockInvoice читает долг с блокировкой строки до конца транзакции.
func lockInvoice(ctx context.Context, tx *sql.Tx, userID, id string) (*models.Invoice, error) {
	query := `SELECT ` + invoiceColumns + `
			  FROM invoices i
			  WHERE i.id = $1 AND i.user_id = $2
			  FOR UPDATE`
	inv, err := scanInvoice(tx.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return inv, nil
}

func scanInvoice(row rowScanner) (*models.Invoice, error) {
	inv := &models.Invoice{}
	var status string
	if err := row.Scan(&inv.ID, &inv.ClientID, &inv.UserID, &inv.Description, &inv.Amount,
		&inv.PaidAmount, &status, &inv.DueDate, &inv.CreatedAt, &inv.UpdatedAt); err != nil {
		return nil, err
	}
	inv.Normalize()
	return inv, nil
}

func scanInvoiceWithClient(row rowScanner) (*models.Invoice, error) {
	inv := &models.Invoice{}
	c := &models.Client{}
	var status string
	if err := row.Scan(&inv.ID, &inv.ClientID, &inv.UserID, &inv.Description, &inv.Amount,
		&inv.PaidAmount, &status, &inv.DueDate, &inv.CreatedAt, &inv.UpdatedAt,
		&c.ID, &c.UserID, &c.Name, &c.Email, &c.Address, &c.Phone, &c.Notes,
		&c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	inv.Normalize()
	inv.Client = c
	return inv, nil
}
