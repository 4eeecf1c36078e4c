// Package invoiceservice содержит бизнес-логику долгов: создание, изменение и выборку.
// Статус долга всегда вычисляется из суммы и оплаченной части.
package invoiceservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/peso/internal/models"
	"github.com/magabrotheeeer/peso/internal/services"
	"github.com/magabrotheeeer/peso/internal/storage"
)

// InvoiceRepository определяет методы для работы с долгами в хранилище.
type InvoiceRepository interface {
	CreateInvoice(ctx context.Context, inv models.Invoice) (*models.Invoice, error)
	GetInvoice(ctx context.Context, userID, id string) (*models.Invoice, error)
	ListInvoices(ctx context.Context, filter models.InvoiceFilter) ([]*models.Invoice, error)
	UpdateInvoice(ctx context.Context, userID, id string, mutate func(inv *models.Invoice) error) (*models.Invoice, error)
	DeleteInvoice(ctx context.Context, userID, id string) (int64, error)
}

// InvoiceService реализует операции над долгами одного владельца.
type InvoiceService struct {
	repo InvoiceRepository
	log  *slog.Logger
}

// NewInvoiceService создает новый экземпляр InvoiceService.
func NewInvoiceService(repo InvoiceRepository, log *slog.Logger) *InvoiceService {
	return &InvoiceService{
		repo: repo,
		log:  log,
	}
}

// Create проверяет долг и сохраняет его для пользователя userID.
// Переданный статус игнорируется.
func (s *InvoiceService) Create(ctx context.Context, userID string, inv models.Invoice) (*models.Invoice, error) {
	const op = "invoiceservice.Create"

	if !services.ValidID(inv.ClientID) {
		return nil, fmt.Errorf("%s: %w", op, errClientNotFound)
	}
	if err := checkAmounts(&inv); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if inv.DueDate.IsZero() {
		return nil, fmt.Errorf("%s: %w", op, services.Invalid("dueDate", "dueDate is required"))
	}

	inv.ID = uuid.NewString()
	inv.UserID = userID
	inv.Normalize()

	created, err := s.repo.CreateInvoice(ctx, inv)
	if err != nil {
		if errors.Is(err, storage.ErrClientNotFound) {
			return nil, fmt.Errorf("%s: %w", op, errClientNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("invoice created",
		slog.String("invoice_id", created.ID),
		slog.String("status", string(created.Status)),
	)
	return created, nil
}

// Get возвращает долг с клиентом и платежами.
func (s *InvoiceService) Get(ctx context.Context, userID, id string) (*models.Invoice, error) {
	const op = "invoiceservice.Get"

	if !services.ValidID(id) {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	inv, err := s.repo.GetInvoice(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return inv, nil
}

// List возвращает долги пользователя. Некорректный ClientID даёт пустой список.
func (s *InvoiceService) List(ctx context.Context, filter models.InvoiceFilter) ([]*models.Invoice, error) {
	const op = "invoiceservice.List"

	if filter.ClientID != nil && !services.ValidID(*filter.ClientID) {
		return []*models.Invoice{}, nil
	}
	if filter.Order != models.InvoiceOrderDue {
		filter.Order = models.InvoiceOrderCreated
	}
	invoices, err := s.repo.ListInvoices(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return invoices, nil
}

// Update частично обновляет долг и пересчитывает статус по итоговой паре сумм.
func (s *InvoiceService) Update(ctx context.Context, userID, id string, patch models.InvoicePatch) (*models.Invoice, error) {
	const op = "invoiceservice.Update"

	if !services.ValidID(id) {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	if patch.ClientID != nil && !services.ValidID(*patch.ClientID) {
		return nil, fmt.Errorf("%s: %w", op, errClientNotFound)
	}

	inv, err := s.repo.UpdateInvoice(ctx, userID, id, func(inv *models.Invoice) error {
		applyPatch(inv, patch)
		return checkAmounts(inv)
	})
	if err != nil {
		if errors.Is(err, storage.ErrClientNotFound) {
			return nil, fmt.Errorf("%s: %w", op, errClientNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("invoice updated",
		slog.String("invoice_id", inv.ID),
		slog.String("status", string(inv.Status)),
	)
	return inv, nil
}

// Delete удаляет долг вместе с платежами. Удаление отсутствующего долга ошибкой не считается.
func (s *InvoiceService) Delete(ctx context.Context, userID, id string) error {
	const op = "invoiceservice.Delete"

	if !services.ValidID(id) {
		return nil
	}
	if _, err := s.repo.DeleteInvoice(ctx, userID, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

var errClientNotFound = services.Invalid("clientId", "client not found")

func applyPatch(inv *models.Invoice, patch models.InvoicePatch) {
	if patch.ClientID != nil {
		inv.ClientID = *patch.ClientID
	}
	if patch.Description != nil {
		inv.Description = patch.Description
	}
	if patch.Amount != nil {
		inv.Amount = *patch.Amount
	}
	if patch.PaidAmount != nil {
		inv.PaidAmount = *patch.PaidAmount
	}
	if patch.DueDate != nil {
		inv.DueDate = *patch.DueDate
	}
	inv.Normalize()
}

// checkAmounts округляет суммы до копеек и проверяет их. Статус пересчитывается
// по округлённым значениям, с которыми строка будет сохранена.
func checkAmounts(inv *models.Invoice) error {
	inv.Amount = inv.Amount.Round(models.MoneyPlaces)
	inv.PaidAmount = inv.PaidAmount.Round(models.MoneyPlaces)
	if !inv.Amount.IsPositive() {
		return services.Invalid("amount", "amount must be greater than 0")
	}
	if inv.PaidAmount.IsNegative() {
		return services.Invalid("paidAmount", "paidAmount must not be negative")
	}
	if inv.Amount.GreaterThan(models.MaxAmount) || inv.PaidAmount.GreaterThan(models.MaxAmount) {
		return services.Invalid("amount", "amount is too large")
	}
	inv.Normalize()
	return nil
}
