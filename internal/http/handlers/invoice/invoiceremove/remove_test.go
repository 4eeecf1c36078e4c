package invoiceremove

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/peso/internal/http/middlewarectx"
	"github.com/magabrotheeeer/peso/internal/lib/sl"
	"github.com/magabrotheeeer/peso/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Delete(ctx context.Context, userID, id string) error {
	return m.Called(ctx, userID, id).Error(0)
}

func TestInvoiceRemoveHandler(t *testing.T) {
	tests := []struct {
		name           string
		url            string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "удаление",
			url:  "/invoices?id=i-1",
			setupMock: func(m *MockService) {
				m.On("Delete", mock.Anything, "u-1", "i-1").Return(nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"OK","message":"invoice deleted"}`,
		},
		{
			name:           "нет id",
			url:            "/invoices?id=",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"id is required"}`,
		},
		{
			name: "ошибка хранилища",
			url:  "/invoices?id=i-1",
			setupMock: func(m *MockService) {
				m.On("Delete", mock.Anything, "u-1", "i-1").Return(errors.New("db down"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"internal error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)

			req := httptest.NewRequest(http.MethodDelete, tt.url, nil)
			req = req.WithContext(middlewarectx.WithSession(req.Context(),
				&models.Session{UserID: "u-1"}, &models.User{ID: "u-1"}))
			rec := httptest.NewRecorder()

			New(sl.Discard(), svc).ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.JSONEq(t, tt.expectedBody, rec.Body.String())
			svc.AssertExpectations(t)
		})
	}
}
