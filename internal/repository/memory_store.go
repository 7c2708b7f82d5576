package repository

import (
	"context"
	"sync"
	"time"

	"auditflow/backend/pkg/models"
)

var _ Repository = (*MemoryStore)(nil)

// MemoryStore is an in-memory Repository. Safe for concurrent access.
// Intended for tests and local development. Records are copied on the way
// in and out so callers never share state with the store.
type MemoryStore struct {
	mu sync.RWMutex

	clients    []*models.Client
	workflows  []*models.Workflow
	documents  []*models.Document
	signatures []*models.Signature

	now func() time.Time
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: utcNow}
}

// Ping always succeeds for the memory store.
func (m *MemoryStore) Ping(context.Context) error { return nil }

// Close is a no-op for the memory store.
func (m *MemoryStore) Close() error { return nil }

// CreateClient stores a client.
func (m *MemoryStore) CreateClient(_ context.Context, client *models.Client) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	assignID(&client.ID)
	assignTime(&client.CreatedAt, m.now)
	cp := *client
	m.clients = append(m.clients, &cp)
	return nil
}

// GetClient retrieves a client by its ID.
func (m *MemoryStore) GetClient(_ context.Context, id string) (*models.Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, c := range m.clients {
		if c.ID == id {
			cp := *c
			return &cp, nil
		}
	}
	return nil, models.ErrClientNotFound
}

// ListClients returns all clients.
func (m *MemoryStore) ListClients(context.Context) ([]*models.Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*models.Client, 0, len(m.clients))
	for _, c := range m.clients {
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

// CreateWorkflow stores a workflow.
func (m *MemoryStore) CreateWorkflow(_ context.Context, workflow *models.Workflow) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	assignID(&workflow.ID)
	assignTime(&workflow.CreatedAt, m.now)
	m.workflows = append(m.workflows, workflow.Clone())
	return nil
}

// GetWorkflow retrieves a workflow by its ID.
func (m *MemoryStore) GetWorkflow(_ context.Context, id string) (*models.Workflow, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, w := range m.workflows {
		if w.ID == id {
			return w.Clone(), nil
		}
	}
	return nil, models.ErrWorkflowNotFound
}

// ListWorkflows returns workflows matching the filter.
func (m *MemoryStore) ListWorkflows(_ context.Context, filter models.ListFilter) ([]*models.Workflow, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*models.Workflow, 0, len(m.workflows))
	for _, w := range m.workflows {
		if filter.Matches(w.ClientID) {
			out = append(out, w.Clone())
		}
	}
	return out, nil
}

// ReplaceWorkflowSteps overwrites the steps of a workflow.
func (m *MemoryStore) ReplaceWorkflowSteps(_ context.Context, id string, steps []models.WorkflowStep) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, w := range m.workflows {
		if w.ID == id {
			replaced := make([]models.WorkflowStep, len(steps))
			for i := range steps {
				replaced[i] = steps[i].Clone()
			}
			w.Steps = replaced
			return nil
		}
	}
	return models.ErrWorkflowNotFound
}

// CreateDocument stores a document.
func (m *MemoryStore) CreateDocument(_ context.Context, doc *models.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	assignID(&doc.ID)
	assignTime(&doc.CreatedAt, m.now)
	if doc.Tags == nil {
		doc.Tags = []string{}
	}
	cp := *doc
	cp.Tags = append([]string{}, doc.Tags...)
	m.documents = append(m.documents, &cp)
	return nil
}

// ListDocuments returns documents matching the filter.
func (m *MemoryStore) ListDocuments(_ context.Context, filter models.ListFilter) ([]*models.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*models.Document, 0, len(m.documents))
	for _, d := range m.documents {
		if filter.Matches(d.ClientID) {
			cp := *d
			cp.Tags = append([]string{}, d.Tags...)
			out = append(out, &cp)
		}
	}
	return out, nil
}

// CreateSignature stores a signature.
func (m *MemoryStore) CreateSignature(_ context.Context, sig *models.Signature) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	assignID(&sig.ID)
	assignTime(&sig.CreatedAt, m.now)
	cp := *sig
	m.signatures = append(m.signatures, &cp)
	return nil
}

// ListSignatures returns signatures matching the filter.
func (m *MemoryStore) ListSignatures(_ context.Context, filter models.ListFilter) ([]*models.Signature, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*models.Signature, 0, len(m.signatures))
	for _, s := range m.signatures {
		if filter.Matches(s.ClientID) {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

func assignID(id *string) {
	if *id == "" {
		*id = models.NewID()
	}
}

func assignTime(t *time.Time, now func() time.Time) {
	if t.IsZero() {
		*t = now()
	}
}
