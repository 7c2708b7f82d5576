package repository

import (
	"context"

	"auditflow/backend/pkg/models"
)

// ClientStore persists audit clients.
type ClientStore interface {
	// CreateClient stores a client, assigning its ID and creation time.
	CreateClient(ctx context.Context, client *models.Client) error
	// GetClient returns models.ErrClientNotFound when no client has the ID.
	GetClient(ctx context.Context, id string) (*models.Client, error)
	// ListClients returns all clients in creation order.
	ListClients(ctx context.Context) ([]*models.Client, error)
}

// WorkflowStore persists generated workflows.
type WorkflowStore interface {
	// CreateWorkflow stores a workflow, assigning its ID and creation time.
	CreateWorkflow(ctx context.Context, workflow *models.Workflow) error
	// GetWorkflow returns models.ErrWorkflowNotFound when no workflow has the ID.
	GetWorkflow(ctx context.Context, id string) (*models.Workflow, error)
	// ListWorkflows returns matching workflows in creation order.
	ListWorkflows(ctx context.Context, filter models.ListFilter) ([]*models.Workflow, error)
	// ReplaceWorkflowSteps overwrites the whole steps collection of a
	// workflow in a single write. Concurrent writers race on the whole
	// array: the last write wins.
	ReplaceWorkflowSteps(ctx context.Context, id string, steps []models.WorkflowStep) error
}

// DocumentStore persists vault documents.
type DocumentStore interface {
	CreateDocument(ctx context.Context, doc *models.Document) error
	ListDocuments(ctx context.Context, filter models.ListFilter) ([]*models.Document, error)
}

// SignatureStore persists signatures.
type SignatureStore interface {
	CreateSignature(ctx context.Context, sig *models.Signature) error
	ListSignatures(ctx context.Context, filter models.ListFilter) ([]*models.Signature, error)
}

// Repository is the full persistence boundary of the service.
type Repository interface {
	ClientStore
	WorkflowStore
	DocumentStore
	SignatureStore

	// Ping checks storage connectivity.
	Ping(ctx context.Context) error
	// Close releases resources owned by the repository.
	Close() error
}
