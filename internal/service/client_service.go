package service

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"

	"docflow/internal/domain"
	"docflow/internal/port"
)

// ClientInput is the DTO for creating or updating a client.
type ClientInput struct {
	TenantID  uuid.UUID
	ClientID  uuid.UUID
	Name      string
	Email     string
	Address   string
	VATNumber string
}

// ClientService defines the client management contract.
type ClientService interface {
	Create(ctx context.Context, input *ClientInput) (*domain.Client, error)
	GetByID(ctx context.Context, tenantID, clientID uuid.UUID) (*domain.Client, error)
	List(ctx context.Context, tenantID uuid.UUID, search string, offset, limit int) ([]domain.Client, int, error)
	Update(ctx context.Context, input *ClientInput) (*domain.Client, error)
	Delete(ctx context.Context, tenantID, clientID uuid.UUID) error
}

type clientService struct {
	clientRepo port.ClientRepository
}

// NewClientService creates a new ClientService implementation.
func NewClientService(clientRepo port.ClientRepository) ClientService {
	return &clientService{clientRepo: clientRepo}
}

func validateClientInput(input *ClientInput) error {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(input.Email)
	if input.Name == "" {
		return domain.NewValidationError("name", "is required")
	}
	if input.Email != "" {
		if _, err := mail.ParseAddress(input.Email); err != nil {
			return domain.NewValidationError("email", "is not a valid address")
		}
	}
	return nil
}

func (s *clientService) Create(ctx context.Context, input *ClientInput) (*domain.Client, error) {
	if err := validateClientInput(input); err != nil {
		return nil, err
	}
	client := &domain.Client{
		ID:        uuid.New(),
		TenantID:  input.TenantID,
		Name:      input.Name,
		Email:     input.Email,
		Address:   input.Address,
		VATNumber: input.VATNumber,
	}
	if err := s.clientRepo.Create(ctx, client); err != nil {
		return nil, fmt.Errorf("creating client: %w", err)
	}
	return client, nil
}

func (s *clientService) GetByID(ctx context.Context, tenantID, clientID uuid.UUID) (*domain.Client, error) {
	return s.clientRepo.GetByID(ctx, tenantID, clientID)
}

func (s *clientService) List(ctx context.Context, tenantID uuid.UUID, search string, offset, limit int) ([]domain.Client, int, error) {
	return s.clientRepo.List(ctx, tenantID, strings.TrimSpace(search), offset, limit)
}

func (s *clientService) Update(ctx context.Context, input *ClientInput) (*domain.Client, error) {
	if err := validateClientInput(input); err != nil {
		return nil, err
	}
	client, err := s.clientRepo.GetByID(ctx, input.TenantID, input.ClientID)
	if err != nil {
		return nil, err
	}
	client.Name = input.Name
	client.Email = input.Email
	client.Address = input.Address
	client.VATNumber = input.VATNumber
	if err := s.clientRepo.Update(ctx, client); err != nil {
		return nil, fmt.Errorf("updating client: %w", err)
	}
	return client, nil
}

func (s *clientService) Delete(ctx context.Context, tenantID, clientID uuid.UUID) error {
	return s.clientRepo.Delete(ctx, tenantID, clientID)
}
