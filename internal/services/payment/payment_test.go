package payment

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/peso/internal/models"
	"github.com/magabrotheeeer/peso/internal/services"
	"github.com/magabrotheeeer/peso/internal/storage"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) RecordPayment(ctx context.Context, payment models.Payment) (*models.Payment, *models.Invoice, error) {
	args := m.Called(ctx, payment)
	if err := args.Error(1); err != nil {
		return nil, nil, err
	}
	return &payment, args.Get(0).(*models.Invoice), nil
}

func (m *MockRepository) DeletePayment(ctx context.Context, userID, id string) (*models.Invoice, error) {
	args := m.Called(ctx, userID, id)
	inv, _ := args.Get(0).(*models.Invoice)
	return inv, args.Error(1)
}

func (m *MockRepository) ListPayments(ctx context.Context, userID string, invoiceID *string) ([]*models.Payment, error) {
	args := m.Called(ctx, userID, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Payment), args.Error(1)
}

type MockRecorder struct {
	mock.Mock
}

func (m *MockRecorder) PaymentRecorded(settled bool) {
	m.Called(settled)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

const (
	userID    = "u-1"
	invoiceID = "1c7a3d2f-6b5e-4a4c-8d3b-2e9f8a7b6c5d"
	paymentID = "3e9c5f4b-8d7a-4c6e-a05d-4a1b0c9d8e7f"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func invoice(amount, paid string) *models.Invoice {
	inv := &models.Invoice{ID: invoiceID, Amount: dec(amount), PaidAmount: dec(paid)}
	inv.Normalize()
	return inv
}

func TestPaymentService_Record(t *testing.T) {
	ctx := context.Background()
	fixed := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		input       models.Payment
		repoInvoice *models.Invoice
		repoErr     error
		wantSettled *bool
		wantErr     error
	}{
		{
			name:        "partial payment",
			input:       models.Payment{InvoiceID: invoiceID, Amount: dec("400"), Method: "cash"},
			repoInvoice: invoice("1000", "400"),
			wantSettled: boolPtr(false),
		},
		{
			name:        "payment that settles the debt",
			input:       models.Payment{InvoiceID: invoiceID, Amount: dec("600"), Method: "transfer"},
			repoInvoice: invoice("1000", "1000"),
			wantSettled: boolPtr(true),
		},
		{
			name:        "payment on an already settled debt",
			input:       models.Payment{InvoiceID: invoiceID, Amount: dec("50"), Method: "cash"},
			repoInvoice: invoice("1000", "1050"),
			wantSettled: boolPtr(false),
		},
		{
			name:    "zero amount",
			input:   models.Payment{InvoiceID: invoiceID, Amount: decimal.Zero, Method: "cash"},
			wantErr: services.ErrValidation,
		},
		{
			name:    "sub-cent amount rounds to zero",
			input:   models.Payment{InvoiceID: invoiceID, Amount: dec("0.001"), Method: "cash"},
			wantErr: services.ErrValidation,
		},
		{
			name:    "short method",
			input:   models.Payment{InvoiceID: invoiceID, Amount: dec("10"), Method: " x "},
			wantErr: services.ErrValidation,
		},
		{
			name:    "malformed invoice id",
			input:   models.Payment{InvoiceID: "abc", Amount: dec("10"), Method: "cash"},
			wantErr: storage.ErrNotFound,
		},
		{
			name:    "foreign invoice",
			input:   models.Payment{InvoiceID: invoiceID, Amount: dec("10"), Method: "cash"},
			repoErr: storage.ErrNotFound,
			wantErr: storage.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			rec := new(MockRecorder)
			svc := New(repo, rec, newNoopLogger())
			svc.now = func() time.Time { return fixed }

			repo.On("RecordPayment", ctx, mock.Anything).Return(tt.repoInvoice, tt.repoErr).Maybe()
			if tt.wantSettled != nil {
				rec.On("PaymentRecorded", *tt.wantSettled).Once()
			}

			p, inv, err := svc.Record(ctx, userID, tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				rec.AssertNotCalled(t, "PaymentRecorded", mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, userID, p.UserID)
			assert.True(t, services.ValidID(p.ID))
			assert.Equal(t, fixed, p.PaidAt)
			assert.Equal(t, tt.repoInvoice, inv)
			rec.AssertExpectations(t)
		})
	}
}

func TestPaymentService_RecordKeepsPaidAt(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	svc := New(repo, nil, newNoopLogger())
	paidAt := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)

	repo.On("RecordPayment", ctx, mock.MatchedBy(func(p models.Payment) bool {
		return p.PaidAt.Equal(paidAt) && p.Method == "cash"
	})).Return(invoice("10", "10"), nil)

	_, _, err := svc.Record(ctx, userID, models.Payment{
		InvoiceID: invoiceID,
		Amount:    dec("10"),
		Method:    " cash ",
		PaidAt:    paidAt,
	})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestPaymentService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("recomputed invoice", func(t *testing.T) {
		repo := new(MockRepository)
		svc := New(repo, nil, newNoopLogger())
		repo.On("DeletePayment", ctx, userID, paymentID).Return(invoice("1000", "400"), nil)

		assert.NoError(t, svc.Delete(ctx, userID, paymentID))
	})

	t.Run("absent payment", func(t *testing.T) {
		repo := new(MockRepository)
		svc := New(repo, nil, newNoopLogger())
		repo.On("DeletePayment", ctx, userID, paymentID).Return(nil, nil)

		assert.NoError(t, svc.Delete(ctx, userID, paymentID))
	})

	t.Run("malformed id", func(t *testing.T) {
		repo := new(MockRepository)
		svc := New(repo, nil, newNoopLogger())

		assert.NoError(t, svc.Delete(ctx, userID, "abc"))
		repo.AssertNotCalled(t, "DeletePayment", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("storage failure", func(t *testing.T) {
		repo := new(MockRepository)
		svc := New(repo, nil, newNoopLogger())
		repo.On("DeletePayment", ctx, userID, paymentID).Return(nil, errors.New("db down"))

		assert.Error(t, svc.Delete(ctx, userID, paymentID))
	})
}

func TestPaymentService_List(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	svc := New(repo, nil, newNoopLogger())
	id := invoiceID

	repo.On("ListPayments", ctx, userID, &id).Return([]*models.Payment{{ID: paymentID}}, nil)

	got, err := svc.List(ctx, userID, &id)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	bad := "abc"
	got, err = svc.List(ctx, userID, &bad)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func boolPtr(b bool) *bool { return &b }
