// Package payment записывает и удаляет платежи по долгам. Оплаченная часть долга
// пересчитывается хранилищем как сумма платежей в одной транзакции с записью.
package payment

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/peso/internal/models"
	"github.com/magabrotheeeer/peso/internal/services"
	"github.com/magabrotheeeer/peso/internal/storage"
)

const minMethodLen = 2

// PaymentRepository определяет методы хранилища для платежей.
type PaymentRepository interface {
	RecordPayment(ctx context.Context, payment models.Payment) (*models.Payment, *models.Invoice, error)
	DeletePayment(ctx context.Context, userID, id string) (*models.Invoice, error)
	ListPayments(ctx context.Context, userID string, invoiceID *string) ([]*models.Payment, error)
}

// Recorder получает событие о каждом записанном платеже.
type Recorder interface {
	PaymentRecorded(settled bool)
}

// PaymentService реализует операции над платежами.
type PaymentService struct {
	repo    PaymentRepository
	metrics Recorder
	log     *slog.Logger
	now     func() time.Time
}

// New создает PaymentService. metrics может быть nil.
func New(repo PaymentRepository, metrics Recorder, log *slog.Logger) *PaymentService {
	return &PaymentService{
		repo:    repo,
		metrics: metrics,
		log:     log,
		now:     time.Now,
	}
}

// Record проверяет платёж, сохраняет его и возвращает вместе с пересчитанным долгом.
// Долг, не принадлежащий пользователю, даёт storage.ErrNotFound.
func (s *PaymentService) Record(ctx context.Context, userID string, p models.Payment) (*models.Payment, *models.Invoice, error) {
	const op = "payment.Record"

	if !services.ValidID(p.InvoiceID) {
		return nil, nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	p.Amount = p.Amount.Round(models.MoneyPlaces)
	if !p.Amount.IsPositive() {
		return nil, nil, fmt.Errorf("%s: %w", op, services.Invalid("amount", "amount must be greater than 0"))
	}
	if p.Amount.GreaterThan(models.MaxAmount) {
		return nil, nil, fmt.Errorf("%s: %w", op, services.Invalid("amount", "amount is too large"))
	}
	p.Method = strings.TrimSpace(p.Method)
	if utf8.RuneCountInString(p.Method) < minMethodLen {
		return nil, nil, fmt.Errorf("%s: %w", op,
			services.Invalid("method", fmt.Sprintf("method must be at least %d characters", minMethodLen)))
	}
	if p.PaidAt.IsZero() {
		p.PaidAt = s.now()
	}
	p.ID = uuid.NewString()
	p.UserID = userID

	payment, inv, err := s.repo.RecordPayment(ctx, p)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	settled := inv.Status == models.StatusPaid && inv.PaidAmount.Sub(payment.Amount).LessThan(inv.Amount)
	if s.metrics != nil {
		s.metrics.PaymentRecorded(settled)
	}
	s.log.Info("payment recorded",
		slog.String("payment_id", payment.ID),
		slog.String("invoice_id", inv.ID),
		slog.String("paid_amount", inv.PaidAmount.String()),
		slog.String("status", string(inv.Status)),
	)
	return payment, inv, nil
}

// Delete удаляет платёж и пересчитывает его долг. Отсутствующий платёж ошибкой не считается.
func (s *PaymentService) Delete(ctx context.Context, userID, id string) error {
	const op = "payment.Delete"

	if !services.ValidID(id) {
		return nil
	}
	inv, err := s.repo.DeletePayment(ctx, userID, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if inv != nil {
		s.log.Info("payment deleted",
			slog.String("payment_id", id),
			slog.String("invoice_id", inv.ID),
			slog.String("status", string(inv.Status)),
		)
	}
	return nil
}

// List возвращает платежи пользователя, при invoiceID != nil только по этому долгу.
func (s *PaymentService) List(ctx context.Context, userID string, invoiceID *string) ([]*models.Payment, error) {
	const op = "payment.List"

	if invoiceID != nil && !services.ValidID(*invoiceID) {
		return []*models.Payment{}, nil
	}
	payments, err := s.repo.ListPayments(ctx, userID, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return payments, nil
}
