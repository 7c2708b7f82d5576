// Package api contains the HTTP handlers for the AuditFlow REST API.
package api

import (
	"context"

	"auditflow/backend/internal/services"
	"auditflow/backend/pkg/models"
)

// Logger defines the logging interface compatible with the application logger.
type Logger interface {
	Info(msg string, args ...any)
	Error(msg string, args ...any)
}

// ClientService is the client registry used by the handlers.
type ClientService interface {
	Create(ctx context.Context, client *models.Client) (*models.Client, error)
	List(ctx context.Context) ([]*models.Client, error)
}

// WorkflowService generates and updates workflows.
type WorkflowService interface {
	Generate(ctx context.Context, clientID string) (*models.Workflow, error)
	List(ctx context.Context, clientID string) ([]*models.Workflow, error)
	UpdateStepStatus(ctx context.Context, workflowID, stepKey, status string) (*models.Workflow, error)
}

// VaultService stores documents and signatures.
type VaultService interface {
	AddDocument(ctx context.Context, doc *models.Document) (*models.Document, error)
	ListDocuments(ctx context.Context, clientID string) ([]*models.Document, error)
	AddSignature(ctx context.Context, sig *models.Signature) (*models.Signature, error)
	ListSignatures(ctx context.Context, clientID string) ([]*models.Signature, error)
}

// RiskService scores clients.
type RiskService interface {
	PredictClients(ctx context.Context) ([]services.ClientRisk, error)
}

// Pinger reports storage reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server holds the dependencies for the API server.
type Server struct {
	Clients   ClientService
	Workflows WorkflowService
	Vault     VaultService
	Risk      RiskService
	Storage   Pinger
	Driver    string
	Logger    Logger
}

var _ ServerInterface = (*Server)(nil)
