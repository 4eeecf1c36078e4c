// Package clientservice содержит бизнес-логику справочника клиентов.
package clientservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/peso/internal/models"
	"github.com/magabrotheeeer/peso/internal/services"
	"github.com/magabrotheeeer/peso/internal/storage"
)

const (
	minNameLen = 2
	maxNameLen = 200
)

// ClientRepository определяет методы для работы с клиентами в хранилище.
type ClientRepository interface {
	CreateClient(ctx context.Context, client models.Client) (*models.Client, error)
	GetClient(ctx context.Context, userID, id string) (*models.Client, error)
	ListClients(ctx context.Context, userID string, sort models.ClientSort) ([]*models.ClientWithStats, error)
	UpdateClient(ctx context.Context, userID, id string, patch models.ClientPatch) (*models.Client, error)
	DeleteClient(ctx context.Context, userID, id string) (int64, error)
	ListInvoices(ctx context.Context, filter models.InvoiceFilter) ([]*models.Invoice, error)
}

// ClientService реализует операции над клиентами одного владельца.
type ClientService struct {
	repo ClientRepository
	log  *slog.Logger
}

// NewClientService создает новый экземпляр ClientService.
func NewClientService(repo ClientRepository, log *slog.Logger) *ClientService {
	return &ClientService{
		repo: repo,
		log:  log,
	}
}

// Create проверяет данные и сохраняет клиента для пользователя userID.
func (s *ClientService) Create(ctx context.Context, userID string, client models.Client) (*models.Client, error) {
	const op = "clientservice.Create"

	name, err := checkName(client.Name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	client.ID = uuid.NewString()
	client.UserID = userID
	client.Name = name
	client.Email = trimOptional(client.Email)
	client.Address = trimOptional(client.Address)
	client.Phone = trimOptional(client.Phone)
	client.Notes = trimOptional(client.Notes)

	created, err := s.repo.CreateClient(ctx, client)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("client created", slog.String("client_id", created.ID))
	return created, nil
}

// Get возвращает клиента и его долги, отсортированные по сроку погашения от поздних к ранним.
func (s *ClientService) Get(ctx context.Context, userID, id string) (*models.Client, []*models.Invoice, error) {
	const op = "clientservice.Get"

	if !services.ValidID(id) {
		return nil, nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	client, err := s.repo.GetClient(ctx, userID, id)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	invoices, err := s.repo.ListInvoices(ctx, models.InvoiceFilter{
		UserID:   userID,
		ClientID: &id,
		Order:    models.InvoiceOrderDueDesc,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	return client, invoices, nil
}

// List возвращает клиентов пользователя с количеством долгов по статусам.
func (s *ClientService) List(ctx context.Context, userID string, sort models.ClientSort) ([]*models.ClientWithStats, error) {
	const op = "clientservice.List"

	if sort != models.ClientSortName {
		sort = models.ClientSortRecent
	}
	clients, err := s.repo.ListClients(ctx, userID, sort)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return clients, nil
}

// Update частично обновляет клиента. Переданные поля проходят те же проверки, что и при создании.
func (s *ClientService) Update(ctx context.Context, userID, id string, patch models.ClientPatch) (*models.Client, error) {
	const op = "clientservice.Update"

	if !services.ValidID(id) {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	if patch.Name != nil {
		name, err := checkName(*patch.Name)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		patch.Name = &name
	}
	patch.Email = trimOptional(patch.Email)
	patch.Address = trimOptional(patch.Address)
	patch.Phone = trimOptional(patch.Phone)
	patch.Notes = trimOptional(patch.Notes)

	client, err := s.repo.UpdateClient(ctx, userID, id, patch)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return client, nil
}

// Delete удаляет клиента, если у него нет непогашенных долгов.
// Удаление отсутствующего клиента ошибкой не считается.
func (s *ClientService) Delete(ctx context.Context, userID, id string) error {
	const op = "clientservice.Delete"

	if !services.ValidID(id) {
		return nil
	}
	n, err := s.repo.DeleteClient(ctx, userID, id)
	if err != nil {
		if errors.Is(err, storage.ErrClientHasPendingDebts) {
			s.log.Info("client deletion blocked by pending debts", slog.String("client_id", id))
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		s.log.Debug("client to delete not found", slog.String("client_id", id))
	}
	return nil
}

func checkName(name string) (string, error) {
	name = strings.TrimSpace(name)
	n := utf8.RuneCountInString(name)
	if n < minNameLen || n > maxNameLen {
		return "", services.Invalid("name", fmt.Sprintf("name must be between %d and %d characters", minNameLen, maxNameLen))
	}
	return name, nil
}

// trimOptional обрезает пробелы; пустая строка становится nil.
func trimOptional(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	if t == "" {
		return nil
	}
	return &t
}
