package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/peso/internal/models"
	"github.com/magabrotheeeer/peso/internal/storage"
	"github.com/magabrotheeeer/peso/internal/storage/pgtest"
)

type fixture struct {
	s   *Storage
	ctx context.Context
}

func newFixture(t *testing.T) *fixture {
	_, db := pgtest.Start(t)
	return &fixture{s: NewWithDB(db), ctx: context.Background()}
}

func (f *fixture) user(t *testing.T, name string) *models.User {
	u, err := f.s.CreateUser(f.ctx, models.User{ID: uuid.NewString(), Username: name, PasswordHash: "hash"})
	require.NoError(t, err)
	return u
}

func (f *fixture) client(t *testing.T, userID, name string) *models.Client {
	c, err := f.s.CreateClient(f.ctx, models.Client{ID: uuid.NewString(), UserID: userID, Name: name})
	require.NoError(t, err)
	return c
}

func (f *fixture) invoice(t *testing.T, userID, clientID string, amount int64) *models.Invoice {
	inv, err := f.s.CreateInvoice(f.ctx, models.Invoice{
		ID:       uuid.NewString(),
		ClientID: clientID,
		UserID:   userID,
		Amount:   decimal.NewFromInt(amount),
		DueDate:  time.Now().Add(30 * 24 * time.Hour),
	})
	require.NoError(t, err)
	return inv
}

func (f *fixture) pay(t *testing.T, userID, invoiceID string, amount int64) *models.Invoice {
	_, inv, err := f.s.RecordPayment(f.ctx, models.Payment{
		ID:        uuid.NewString(),
		UserID:    userID,
		InvoiceID: invoiceID,
		Amount:    decimal.NewFromInt(amount),
		Method:    "cash",
		PaidAt:    time.Now(),
	})
	require.NoError(t, err)
	return inv
}

func TestIntegration_PaymentLifecycle(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "admin")
	c := f.client(t, u.ID, "Acme")
	inv := f.invoice(t, u.ID, c.ID, 1000)
	assert.Equal(t, models.StatusPending, inv.Status)

	inv = f.pay(t, u.ID, inv.ID, 400)
	assert.True(t, inv.PaidAmount.Equal(decimal.NewFromInt(400)))
	assert.Equal(t, models.StatusPending, inv.Status)

	inv = f.pay(t, u.ID, inv.ID, 600)
	assert.True(t, inv.PaidAmount.Equal(decimal.NewFromInt(1000)))
	assert.Equal(t, models.StatusPaid, inv.Status)

	got, err := f.s.GetInvoice(f.ctx, u.ID, inv.ID)
	require.NoError(t, err)
	assert.Len(t, got.Payments, 2)
	assert.Equal(t, "Acme", got.Client.Name)

	_, err = f.s.DeleteInvoice(f.ctx, u.ID, inv.ID)
	require.NoError(t, err)
	payments, err := f.s.ListPayments(f.ctx, u.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, payments, "payments cascade with their invoice")
}

func TestIntegration_ConcurrentPayments(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "admin")
	c := f.client(t, u.ID, "Acme")
	inv := f.invoice(t, u.ID, c.ID, 1000)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := f.s.RecordPayment(f.ctx, models.Payment{
				ID:        uuid.NewString(),
				UserID:    u.ID,
				InvoiceID: inv.ID,
				Amount:    decimal.NewFromInt(100),
				Method:    "cash",
				PaidAt:    time.Now(),
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := f.s.GetInvoice(f.ctx, u.ID, inv.ID)
	require.NoError(t, err)
	assert.True(t, got.PaidAmount.Equal(decimal.NewFromInt(1000)), "got %s", got.PaidAmount)
	assert.Equal(t, models.StatusPaid, got.Status)
	assert.Len(t, got.Payments, 10)
}

func TestIntegration_DeletePaymentRecomputes(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "admin")
	c := f.client(t, u.ID, "Acme")
	inv := f.invoice(t, u.ID, c.ID, 1000)
	f.pay(t, u.ID, inv.ID, 400)
	f.pay(t, u.ID, inv.ID, 600)

	payments, err := f.s.ListPayments(f.ctx, u.ID, &inv.ID)
	require.NoError(t, err)
	require.Len(t, payments, 2)

	var big string
	for _, p := range payments {
		if p.Amount.Equal(decimal.NewFromInt(600)) {
			big = p.ID
		}
	}
	got, err := f.s.DeletePayment(f.ctx, u.ID, big)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.PaidAmount.Equal(decimal.NewFromInt(400)))
	assert.Equal(t, models.StatusPending, got.Status)
}

func TestIntegration_ClientDeletion(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "admin")
	c := f.client(t, u.ID, "Acme")
	inv := f.invoice(t, u.ID, c.ID, 1000)

	_, err := f.s.DeleteClient(f.ctx, u.ID, c.ID)
	require.ErrorIs(t, err, storage.ErrClientHasPendingDebts)

	f.pay(t, u.ID, inv.ID, 1000)
	n, err := f.s.DeleteClient(f.ctx, u.ID, c.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = f.s.GetInvoice(f.ctx, u.ID, inv.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestIntegration_OwnershipIsolation(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	c := f.client(t, alice.ID, "Acme")
	inv := f.invoice(t, alice.ID, c.ID, 1000)

	_, err := f.s.GetClient(f.ctx, bob.ID, c.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = f.s.GetInvoice(f.ctx, bob.ID, inv.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = f.s.CreateInvoice(f.ctx, models.Invoice{
		ID:       uuid.NewString(),
		ClientID: c.ID,
		UserID:   bob.ID,
		Amount:   decimal.NewFromInt(1),
		DueDate:  time.Now(),
	})
	assert.ErrorIs(t, err, storage.ErrClientNotFound)

	_, _, err = f.s.RecordPayment(f.ctx, models.Payment{
		ID:        uuid.NewString(),
		UserID:    bob.ID,
		InvoiceID: inv.ID,
		Amount:    decimal.NewFromInt(1),
		Method:    "cash",
		PaidAt:    time.Now(),
	})
	assert.ErrorIs(t, err, storage.ErrNotFound)

	n, err := f.s.DeleteInvoice(f.ctx, bob.ID, inv.ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	clients, err := f.s.ListClients(f.ctx, bob.ID, models.ClientSortRecent)
	require.NoError(t, err)
	assert.Empty(t, clients)
}

func TestIntegration_DuplicateUser(t *testing.T) {
	f := newFixture(t)
	f.user(t, "admin")

	_, err := f.s.CreateUser(f.ctx, models.User{ID: uuid.NewString(), Username: "admin", PasswordHash: "x"})
	assert.ErrorIs(t, err, storage.ErrUserExists)
}

func TestIntegration_DashboardAndListing(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "admin")
	acme := f.client(t, u.ID, "Acme")
	beta := f.client(t, u.ID, "Beta")
	paid := f.invoice(t, u.ID, acme.ID, 500)
	f.invoice(t, u.ID, acme.ID, 1000)
	f.invoice(t, u.ID, beta.ID, 250)
	f.pay(t, u.ID, paid.ID, 500)

	clients, err := f.s.ListClients(f.ctx, u.ID, models.ClientSortName)
	require.NoError(t, err)
	require.Len(t, clients, 2)
	assert.Equal(t, "Acme", clients[0].Name)
	assert.Equal(t, 1, clients[0].Pending)
	assert.Equal(t, 1, clients[0].Paid)

	invoices, err := f.s.ListInvoices(f.ctx, models.InvoiceFilter{UserID: u.ID, ClientID: &acme.ID})
	require.NoError(t, err)
	assert.Len(t, invoices, 2)

	now := time.Now().UTC()
	st, err := f.s.DashboardStats(f.ctx, u.ID, models.StatsWindows{
		Since7Days: now.Add(-7 * 24 * time.Hour),
		MonthStart: now.Add(-24 * time.Hour),
		YearStart:  now.Add(-48 * time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, st.Clients)
	assert.Equal(t, 3, st.Invoices)
	assert.True(t, st.PendingAmount.Equal(decimal.NewFromInt(1250)), "pending %s", st.PendingAmount)
	assert.True(t, st.PaidAmount.Equal(decimal.NewFromInt(500)))
	assert.True(t, st.PaidLast7.Equal(decimal.NewFromInt(500)))
}
