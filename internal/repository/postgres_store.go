package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"auditflow/backend/pkg/models"
)

var _ Repository = (*PostgresStore)(nil)

// PostgresStore is a PostgreSQL implementation of Repository. Workflow steps
// are stored as a single JSONB document so they are always written as a
// whole.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore. The pool is closed by Close.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// Ping checks database connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Close closes the connection pool.
func (s *PostgresStore) Close() error {
	s.db.Close()
	return nil
}

const clientColumns = "id, name, client_type, business_size, industry, contact_email, contact_phone, fiscal_year, created_at"

// CreateClient stores a client.
func (s *PostgresStore) CreateClient(ctx context.Context, c *models.Client) error {
	assignID(&c.ID)
	assignTime(&c.CreatedAt, utcNow)
	_, err := s.db.Exec(ctx,
		"INSERT INTO clients ("+clientColumns+") VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)",
		c.ID, c.Name, c.ClientType, c.BusinessSize, c.Industry, c.ContactEmail, c.ContactPhone, c.FiscalYear, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert client: %w", err)
	}
	return nil
}

// GetClient retrieves a client by its ID.
func (s *PostgresStore) GetClient(ctx context.Context, id string) (*models.Client, error) {
	row := s.db.QueryRow(ctx, "SELECT "+clientColumns+" FROM clients WHERE id = $1", id)
	c, err := scanClient(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrClientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get client: %w", err)
	}
	return c, nil
}

// ListClients returns all clients.
func (s *PostgresStore) ListClients(ctx context.Context) ([]*models.Client, error) {
	rows, err := s.db.Query(ctx, "SELECT "+clientColumns+" FROM clients ORDER BY created_at, id")
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()

	clients := []*models.Client{}
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

func scanClient(row pgx.Row) (*models.Client, error) {
	var c models.Client
	err := row.Scan(&c.ID, &c.Name, &c.ClientType, &c.BusinessSize, &c.Industry,
		&c.ContactEmail, &c.ContactPhone, &c.FiscalYear, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

const workflowColumns = "id, client_id, client_type, fiscal_year, version, steps, created_at"

// CreateWorkflow stores a workflow.
func (s *PostgresStore) CreateWorkflow(ctx context.Context, w *models.Workflow) error {
	assignID(&w.ID)
	assignTime(&w.CreatedAt, utcNow)
	steps := w.Steps
	if steps == nil {
		steps = []models.WorkflowStep{}
	}
	_, err := s.db.Exec(ctx,
		"INSERT INTO workflows ("+workflowColumns+") VALUES ($1, $2, $3, $4, $5, $6, $7)",
		w.ID, w.ClientID, w.ClientType, w.FiscalYear, w.Version, steps, w.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert workflow: %w", err)
	}
	return nil
}

// GetWorkflow retrieves a workflow by its ID.
func (s *PostgresStore) GetWorkflow(ctx context.Context, id string) (*models.Workflow, error) {
	row := s.db.QueryRow(ctx, "SELECT "+workflowColumns+" FROM workflows WHERE id = $1", id)
	w, err := scanWorkflow(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrWorkflowNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get workflow: %w", err)
	}
	return w, nil
}

// ListWorkflows returns workflows matching the filter.
func (s *PostgresStore) ListWorkflows(ctx context.Context, filter models.ListFilter) ([]*models.Workflow, error) {
	query, args := filtered("SELECT "+workflowColumns+" FROM workflows", filter)
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list workflows: %w", err)
	}
	defer rows.Close()

	workflows := []*models.Workflow{}
	for rows.Next() {
		w, err := scanWorkflow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan workflow: %w", err)
		}
		workflows = append(workflows, w)
	}
	return workflows, rows.Err()
}

// ReplaceWorkflowSteps overwrites the steps of a workflow.
func (s *PostgresStore) ReplaceWorkflowSteps(ctx context.Context, id string, steps []models.WorkflowStep) error {
	tag, err := s.db.Exec(ctx, "UPDATE workflows SET steps = $1 WHERE id = $2", steps, id)
	if err != nil {
		return fmt.Errorf("replace workflow steps: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrWorkflowNotFound
	}
	return nil
}

func scanWorkflow(row pgx.Row) (*models.Workflow, error) {
	var w models.Workflow
	err := row.Scan(&w.ID, &w.ClientID, &w.ClientType, &w.FiscalYear, &w.Version, &w.Steps, &w.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

const documentColumns = "id, client_id, source, name, category, period, url, tags, created_at"

// CreateDocument stores a document.
func (s *PostgresStore) CreateDocument(ctx context.Context, d *models.Document) error {
	assignID(&d.ID)
	assignTime(&d.CreatedAt, utcNow)
	if d.Tags == nil {
		d.Tags = []string{}
	}
	_, err := s.db.Exec(ctx,
		"INSERT INTO documents ("+documentColumns+") VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)",
		d.ID, d.ClientID, d.Source, d.Name, d.Category, d.Period, d.URL, d.Tags, d.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

// ListDocuments returns documents matching the filter.
func (s *PostgresStore) ListDocuments(ctx context.Context, filter models.ListFilter) ([]*models.Document, error) {
	query, args := filtered("SELECT "+documentColumns+" FROM documents", filter)
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	docs := []*models.Document{}
	for rows.Next() {
		var d models.Document
		if err := rows.Scan(&d.ID, &d.ClientID, &d.Source, &d.Name, &d.Category, &d.Period, &d.URL, &d.Tags, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, &d)
	}
	return docs, rows.Err()
}

const signatureColumns = "id, client_id, document_id, signed_by, role, method, note, created_at"

// CreateSignature stores a signature.
func (s *PostgresStore) CreateSignature(ctx context.Context, sig *models.Signature) error {
	assignID(&sig.ID)
	assignTime(&sig.CreatedAt, utcNow)
	_, err := s.db.Exec(ctx,
		"INSERT INTO signatures ("+signatureColumns+") VALUES ($1, $2, $3, $4, $5, $6, $7, $8)",
		sig.ID, sig.ClientID, sig.DocumentID, sig.SignedBy, sig.Role, sig.Method, sig.Note, sig.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert signature: %w", err)
	}
	return nil
}

// ListSignatures returns signatures matching the filter.
func (s *PostgresStore) ListSignatures(ctx context.Context, filter models.ListFilter) ([]*models.Signature, error) {
	query, args := filtered("SELECT "+signatureColumns+" FROM signatures", filter)
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list signatures: %w", err)
	}
	defer rows.Close()

	sigs := []*models.Signature{}
	for rows.Next() {
		var sig models.Signature
		if err := rows.Scan(&sig.ID, &sig.ClientID, &sig.DocumentID, &sig.SignedBy, &sig.Role, &sig.Method, &sig.Note, &sig.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan signature: %w", err)
		}
		sigs = append(sigs, &sig)
	}
	return sigs, rows.Err()
}

// filtered appends the client filter and ordering to a select statement.
func filtered(query string, filter models.ListFilter) (string, []any) {
	var args []any
	if filter.ClientID != "" {
		query += " WHERE client_id = $1"
		args = append(args, filter.ClientID)
	}
	return query + " ORDER BY created_at, id", args
}

func utcNow() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
