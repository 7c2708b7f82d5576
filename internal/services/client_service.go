package services

import (
	"context"
	"fmt"

	"auditflow/backend/internal/repository"
	"auditflow/backend/pkg/models"
)

// ClientService manages the client registry.
type ClientService struct {
	store  repository.ClientStore
	logger Logger
}

// NewClientService creates a new ClientService.
func NewClientService(store repository.ClientStore, logger Logger) *ClientService {
	return &ClientService{store: store, logger: logger}
}

// Create registers a client and returns it with its assigned id.
func (s *ClientService) Create(ctx context.Context, client *models.Client) (*models.Client, error) {
	ctx, span := tracer.Start(ctx, "ClientService.Create")
	defer span.End()

	if err := s.store.CreateClient(ctx, client); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	s.logger.Info("client created", "client_id", client.ID, "client_type", client.ClientType)
	return client, nil
}

// Get returns a client by id.
func (s *ClientService) Get(ctx context.Context, rawID string) (*models.Client, error) {
	id, err := models.ParseID(rawID)
	if err != nil {
		return nil, err
	}
	return s.store.GetClient(ctx, id)
}

// List returns every client in creation order.
func (s *ClientService) List(ctx context.Context) ([]*models.Client, error) {
	ctx, span := tracer.Start(ctx, "ClientService.List")
	defer span.End()

	return s.store.ListClients(ctx)
}
