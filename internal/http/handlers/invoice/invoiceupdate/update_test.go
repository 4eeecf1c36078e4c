package invoiceupdate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/peso/internal/http/middlewarectx"
	"github.com/magabrotheeeer/peso/internal/lib/sl"
	"github.com/magabrotheeeer/peso/internal/models"
	"github.com/magabrotheeeer/peso/internal/storage"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Update(ctx context.Context, userID, id string, patch models.InvoicePatch) (*models.Invoice, error) {
	args := m.Called(ctx, userID, id, patch)
	out, _ := args.Get(0).(*models.Invoice)
	return out, args.Error(1)
}

func TestInvoiceUpdateHandler(t *testing.T) {
	tests := []struct {
		name           string
		url            string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedError  string
	}{
		{
			name: "сумма ниже оплаченной",
			url:  "/invoices?id=i-1",
			body: `{"amount":300}`,
			setupMock: func(m *MockService) {
				m.On("Update", mock.Anything, "u-1", "i-1", mock.MatchedBy(func(p models.InvoicePatch) bool {
					return p.Amount != nil && p.Amount.Equal(decimal.NewFromInt(300)) &&
						p.PaidAmount == nil && p.DueDate == nil && p.ClientID == nil
				})).Return(&models.Invoice{ID: "i-1", Status: models.StatusPaid}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "новая дата",
			url:  "/invoices?id=i-1",
			body: `{"dueDate":"2027-01-31"}`,
			setupMock: func(m *MockService) {
				m.On("Update", mock.Anything, "u-1", "i-1", mock.MatchedBy(func(p models.InvoicePatch) bool {
					return p.DueDate != nil && p.DueDate.Format("2006-01-02") == "2027-01-31"
				})).Return(&models.Invoice{ID: "i-1", Status: models.StatusPaid}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "кривая дата",
			url:            "/invoices?id=i-1",
			body:           `{"dueDate":"tomorrow"}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "dueDate: " + models.ErrBadDate.Error(),
		},
		{
			name:           "нет id",
			url:            "/invoices",
			body:           `{}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "id is required",
		},
		{
			name: "не найден",
			url:  "/invoices?id=i-9",
			body: `{"amount":1}`,
			setupMock: func(m *MockService) {
				m.On("Update", mock.Anything, "u-1", "i-9", mock.Anything).
					Return(nil, fmt.Errorf("op: %w", storage.ErrNotFound))
			},
			expectedStatus: http.StatusNotFound,
			expectedError:  "not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)

			req := httptest.NewRequest(http.MethodPut, tt.url, strings.NewReader(tt.body))
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
				assert.Equal(t, "PAID", body["invoice"].(map[string]any)["status"])
			}
			svc.AssertExpectations(t)
		})
	}
}
