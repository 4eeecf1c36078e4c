package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/peso/internal/models"
	"github.com/magabrotheeeer/peso/internal/storage"
)

const clientColumns = `c.id, c.user_id, c.name, c.email, c.address, c.phone, c.notes,
			      c.created_at, c.updated_at`

var clientOrder = map[models.ClientSort]string{
	models.ClientSortRecent: "c.created_at DESC, c.id",
	models.ClientSortName:   "c.name ASC, c.id",
}

// CreateClient сохраняет нового клиента и возвращает его с метками времени.
func (s *Storage) CreateClient(ctx context.Context, client models.Client) (*models.Client, error) {
	const op = "storage.CreateClient"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO clients (id, user_id, name, email, address, phone, notes)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING created_at, updated_at`
	if err := s.DB.QueryRowContext(ctx, query,
		client.ID, client.UserID, client.Name, client.Email, client.Address,
		client.Phone, client.Notes).Scan(&client.CreatedAt, &client.UpdatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &client, nil
}

// GetClient возвращает клиента пользователя по ID.
func (s *Storage) GetClient(ctx context.Context, userID, id string) (*models.Client, error) {
	const op = "storage.GetClient"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + clientColumns + `
			  FROM clients c
			  WHERE c.id = $1 AND c.user_id = $2`
	c, err := scanClient(s.DB.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

// ListClients возвращает клиентов пользователя с количеством долгов по статусам.
func (s *Storage) ListClients(ctx context.Context, userID string, sort models.ClientSort) ([]*models.ClientWithStats, error) {
	const op = "storage.ListClients"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	order, ok := clientOrder[sort]
	if !ok {
		order = clientOrder[models.ClientSortRecent]
	}
	query := `SELECT ` + clientColumns + `,
			      COUNT(i.id) FILTER (WHERE i.status = 'PENDING'),
			      COUNT(i.id) FILTER (WHERE i.status = 'PAID')
			  FROM clients c
			  LEFT JOIN invoices i ON i.client_id = c.id AND i.user_id = c.user_id
			  WHERE c.user_id = $1
			  GROUP BY c.id
			  ORDER BY ` + order
	rows, err := s.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	res := make([]*models.ClientWithStats, 0)
	for rows.Next() {
		c := &models.ClientWithStats{}
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Email, &c.Address, &c.Phone,
			&c.Notes, &c.CreatedAt, &c.UpdatedAt, &c.Pending, &c.Paid); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		res = append(res, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return res, nil
}

// UpdateClient частично обновляет клиента. Поля со значением nil не меняются.
func (s *Storage) UpdateClient(ctx context.Context, userID, id string, patch models.ClientPatch) (*models.Client, error) {
	const op = "storage.UpdateClient"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE clients c
			  SET name = COALESCE($3, c.name),
			      email = COALESCE($4, c.email),
			      address = COALESCE($5, c.address),
			      phone = COALESCE($6, c.phone),
			      notes = COALESCE($7, c.notes),
			      updated_at = now()
			  WHERE c.id = $1 AND c.user_id = $2
			  RETURNING ` + clientColumns
	c, err := scanClient(s.DB.QueryRowContext(ctx, query, id, userID,
		patch.Name, patch.Email, patch.Address, patch.Phone, patch.Notes))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

// DeleteClient удаляет клиента вместе с его долгами и платежами.
// Возвращает storage.ErrClientHasPendingDebts, если у клиента есть непогашенные долги,
// и количество удалённых строк (0, если клиента нет).
func (s *Storage) DeleteClient(ctx context.Context, userID, id string) (int64, error) {
	const op = "storage.DeleteClient"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var deleted int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var locked string
		err := tx.QueryRowContext(ctx,
			`SELECT id FROM clients WHERE id = $1 AND user_id = $2 FOR UPDATE`,
			id, userID).Scan(&locked)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}

		var pending bool
		if err = tx.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM invoices WHERE client_id = $1 AND status = 'PENDING')`,
			id).Scan(&pending); err != nil {
			return err
		}
		if pending {
			return storage.ErrClientHasPendingDebts
		}

		res, err := tx.ExecContext(ctx, `DELETE FROM clients WHERE id = $1 AND user_id = $2`, id, userID)
		if err != nil {
			return err
		}
		deleted, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return deleted, nil
}

func scanClient(row rowScanner) (*models.Client, error) {
	c := &models.Client{}
	if err := row.Scan(&c.ID, &c.UserID, &c.Name, &c.Email, &c.Address, &c.Phone,
		&c.Notes, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return c, nil
}
