package dashboard

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/peso/internal/http/middlewarectx"
	"github.com/magabrotheeeer/peso/internal/lib/sl"
	"github.com/magabrotheeeer/peso/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Stats(ctx context.Context, userID string) *models.DashboardStats {
	return m.Called(ctx, userID).Get(0).(*models.DashboardStats)
}

func TestDashboardHandler(t *testing.T) {
	svc := new(MockService)
	svc.On("Stats", mock.Anything, "u-1").Return(&models.DashboardStats{
		Clients:       3,
		Invoices:      5,
		PendingAmount: decimal.NewFromInt(600),
		PaidAmount:    decimal.NewFromInt(1000),
		PaidLast7:     decimal.NewFromInt(1000),
		PaidMonth:     decimal.NewFromInt(1000),
		PaidYear:      decimal.NewFromInt(1000),
	})

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req = req.WithContext(middlewarectx.WithSession(req.Context(),
		&models.Session{UserID: "u-1"}, &models.User{ID: "u-1"}))
	rec := httptest.NewRecorder()

	New(sl.Discard(), svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Status string                `json:"status"`
		Stats  models.DashboardStats `json:"stats"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "OK", body.Status)
	assert.Equal(t, 3, body.Stats.Clients)
	assert.Equal(t, 5, body.Stats.Invoices)
	assert.True(t, body.Stats.PendingAmount.Equal(decimal.NewFromInt(600)))
	assert.True(t, body.Stats.PaidYear.Equal(decimal.NewFromInt(1000)))
	svc.AssertExpectations(t)
}

func TestDashboardHandler_NoSession(t *testing.T) {
	rec := httptest.NewRecorder()
	New(sl.Discard(), new(MockService)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
