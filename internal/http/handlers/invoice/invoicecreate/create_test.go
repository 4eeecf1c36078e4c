package invoicecreate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/peso/internal/http/middlewarectx"
	"github.com/magabrotheeeer/peso/internal/lib/sl"
	"github.com/magabrotheeeer/peso/internal/models"
	"github.com/magabrotheeeer/peso/internal/services"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Create(ctx context.Context, userID string, inv models.Invoice) (*models.Invoice, error) {
	args := m.Called(ctx, userID, inv)
	out, _ := args.Get(0).(*models.Invoice)
	return out, args.Error(1)
}

func TestInvoiceCreateHandler(t *testing.T) {
	due := time.Date(2026, 11, 17, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedError  string
	}{
		{
			name: "дата без времени и статус игнорируется",
			body: `{"clientId":"c-1","amount":1000,"dueDate":"2026-11-17","status":"PAID"}`,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, "u-1", mock.MatchedBy(func(inv models.Invoice) bool {
					return inv.ClientID == "c-1" &&
						inv.Amount.Equal(decimal.NewFromInt(1000)) &&
						inv.PaidAmount.IsZero() &&
						inv.DueDate.Equal(due) &&
						inv.Status == ""
				})).Return(&models.Invoice{ID: "i-1", Status: models.StatusPending}, nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "сумма строкой и дата RFC 3339",
			body: `{"clientId":"c-1","amount":"250.50","paidAmount":"10","dueDate":"2026-11-17T00:00:00Z"}`,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, "u-1", mock.MatchedBy(func(inv models.Invoice) bool {
					return inv.Amount.Equal(decimal.RequireFromString("250.50")) &&
						inv.PaidAmount.Equal(decimal.NewFromInt(10)) &&
						inv.DueDate.Equal(due)
				})).Return(&models.Invoice{ID: "i-2", Status: models.StatusPending}, nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "нет суммы",
			body:           `{"clientId":"c-1","dueDate":"2026-11-17"}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "field amount is a required field",
		},
		{
			name:           "кривая дата",
			body:           `{"clientId":"c-1","amount":5,"dueDate":"17.11.2026"}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "dueDate: " + models.ErrBadDate.Error(),
		},
		{
			name: "чужой клиент",
			body: `{"clientId":"c-2","amount":5,"dueDate":"2026-11-17"}`,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, "u-1", mock.Anything).
					Return(nil, fmt.Errorf("op: %w", services.Invalid("clientId", "client not found")))
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "client not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)

			req := httptest.NewRequest(http.MethodPost, "/invoices", strings.NewReader(tt.body))
			req = req.WithContext(middlewarectx.WithSession(req.Context(),
				&models.Session{UserID: "u-1"}, &models.User{ID: "u-1"}))
			rec := httptest.NewRecorder()

			New(sl.Discard(), svc).ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			var body map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, body["error"])
			} else {
				assert.Equal(t, "PENDING", body["invoice"].(map[string]any)["status"])
			}
			svc.AssertExpectations(t)
		})
	}
}
