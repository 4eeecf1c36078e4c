package paymentcreate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/peso/internal/http/middlewarectx"
	"github.com/magabrotheeeer/peso/internal/lib/sl"
	"github.com/magabrotheeeer/peso/internal/models"
	"github.com/magabrotheeeer/peso/internal/services"
	"github.com/magabrotheeeer/peso/internal/storage"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Record(ctx context.Context, userID string, p models.Payment) (*models.Payment, *models.Invoice, error) {
	args := m.Called(ctx, userID, p)
	pay, _ := args.Get(0).(*models.Payment)
	inv, _ := args.Get(1).(*models.Invoice)
	return pay, inv, args.Error(2)
}

func TestPaymentCreateHandler(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		noSession      bool
		setupMock      func(*MockService)
		expectedStatus int
		expectedError  string
	}{
		{
			name: "платеж закрывает долг",
			body: `{"invoiceId":"i-1","amount":600,"method":"cash"}`,
			setupMock: func(m *MockService) {
				m.On("Record", mock.Anything, "u-1", mock.MatchedBy(func(p models.Payment) bool {
					return p.InvoiceID == "i-1" && p.Amount.Equal(decimal.NewFromInt(600)) &&
						p.Method == "cash" && p.PaidAt.IsZero()
				})).Return(
					&models.Payment{ID: "p-1", InvoiceID: "i-1", Method: "cash"},
					&models.Invoice{ID: "i-1", Status: models.StatusPaid}, nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "дата платежа задана",
			body: `{"invoiceId":"i-1","amount":"10.5","method":"card","paidAt":"2026-10-01"}`,
			setupMock: func(m *MockService) {
				m.On("Record", mock.Anything, "u-1", mock.MatchedBy(func(p models.Payment) bool {
					return p.PaidAt.Equal(time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC))
				})).Return(
					&models.Payment{ID: "p-2", InvoiceID: "i-1", Method: "card"},
					&models.Invoice{ID: "i-1", Status: models.StatusPending}, nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "нет способа оплаты",
			body:           `{"invoiceId":"i-1","amount":5}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "field method is a required field",
		},
		{
			name:           "кривая дата",
			body:           `{"invoiceId":"i-1","amount":5,"method":"cash","paidAt":"yesterday"}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "paidAt: " + models.ErrBadDate.Error(),
		},
		{
			name: "неположительная сумма",
			body: `{"invoiceId":"i-1","amount":0,"method":"cash"}`,
			setupMock: func(m *MockService) {
				m.On("Record", mock.Anything, "u-1", mock.Anything).
					Return(nil, nil, fmt.Errorf("op: %w", services.Invalid("amount", "amount must be greater than 0")))
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "amount must be greater than 0",
		},
		{
			name: "чужой долг",
			body: `{"invoiceId":"i-2","amount":5,"method":"cash"}`,
			setupMock: func(m *MockService) {
				m.On("Record", mock.Anything, "u-1", mock.Anything).
					Return(nil, nil, fmt.Errorf("op: %w", storage.ErrNotFound))
			},
			expectedStatus: http.StatusNotFound,
			expectedError:  "not found",
		},
		{
			name:           "без сессии",
			body:           `{"invoiceId":"i-1","amount":5,"method":"cash"}`,
			noSession:      true,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "unauthorized",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)

			req := httptest.NewRequest(http.MethodPost, "/payments", bytes.NewBufferString(tt.body))
			ctx := context.WithValue(req.Context(), middleware.RequestIDKey, "req-1")
			if !tt.noSession {
				ctx = middlewarectx.WithSession(ctx, &models.Session{UserID: "u-1"}, &models.User{ID: "u-1"})
			}
			rec := httptest.NewRecorder()

			New(sl.Discard(), svc).ServeHTTP(rec, req.WithContext(ctx))

			assert.Equal(t, tt.expectedStatus, rec.Code)
			var body map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			if tt.expectedError != "" {
				assert.Equal(t, "Error", body["status"])
				assert.Equal(t, tt.expectedError, body["error"])
			} else {
				assert.Equal(t, "OK", body["status"])
				assert.Contains(t, body, "payment")
				assert.Contains(t, body, "invoice")
			}
			svc.AssertExpectations(t)
		})
	}
}
