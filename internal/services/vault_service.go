package services

import (
	"context"
	"fmt"

	"auditflow/backend/internal/auth"
	"auditflow/backend/internal/repository"
	"auditflow/backend/pkg/models"
)

// VaultService stores client documents and sign-off records.
type VaultService struct {
	documents  repository.DocumentStore
	signatures repository.SignatureStore
	logger     Logger
}

// NewVaultService creates a new VaultService.
func NewVaultService(documents repository.DocumentStore, signatures repository.SignatureStore, logger Logger) *VaultService {
	return &VaultService{documents: documents, signatures: signatures, logger: logger}
}

// AddDocument records a document. The client id must be well formed; the
// client itself is not looked up.
func (s *VaultService) AddDocument(ctx context.Context, doc *models.Document) (*models.Document, error) {
	ctx, span := tracer.Start(ctx, "VaultService.AddDocument")
	defer span.End()

	clientID, err := models.ParseID(doc.ClientID)
	if err != nil {
		return nil, err
	}
	doc.ClientID = clientID

	if err := s.documents.CreateDocument(ctx, doc); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to create document: %w", err)
	}
	s.logger.Info("document added", "document_id", doc.ID, "client_id", doc.ClientID, "source", doc.Source)
	return doc, nil
}

// ListDocuments returns documents in creation order, optionally for one client.
func (s *VaultService) ListDocuments(ctx context.Context, clientID string) ([]*models.Document, error) {
	return s.documents.ListDocuments(ctx, models.FilterByClient(clientID))
}

// AddSignature records a sign-off. When SignedBy is empty the authenticated
// principal is used.
func (s *VaultService) AddSignature(ctx context.Context, sig *models.Signature) (*models.Signature, error) {
	ctx, span := tracer.Start(ctx, "VaultService.AddSignature")
	defer span.End()

	clientID, err := models.ParseID(sig.ClientID)
	if err != nil {
		return nil, err
	}
	sig.ClientID = clientID

	if sig.DocumentID != nil {
		docID, err := models.ParseID(*sig.DocumentID)
		if err != nil {
			return nil, err
		}
		sig.DocumentID = &docID
	}

	if sig.SignedBy == "" {
		if principal, ok := auth.PrincipalFromContext(ctx); ok {
			sig.SignedBy = principal
		}
	}
	if sig.SignedBy == "" {
		return nil, fmt.Errorf("%w: signed_by is required", models.ErrInvalidInput)
	}

	if err := s.signatures.CreateSignature(ctx, sig); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to create signature: %w", err)
	}
	s.logger.Info("signature recorded", "signature_id", sig.ID, "client_id", sig.ClientID, "method", sig.Method)
	return sig, nil
}

// ListSignatures returns signatures in creation order, optionally for one client.
func (s *VaultService) ListSignatures(ctx context.Context, clientID string) ([]*models.Signature, error) {
	return s.signatures.ListSignatures(ctx, models.FilterByClient(clientID))
}
