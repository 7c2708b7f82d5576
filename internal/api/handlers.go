package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"auditflow/backend/internal/assist"
	"auditflow/backend/pkg/models"
)

// ServiceName is reported by the root and health endpoints.
const ServiceName = "AuditFlow AI"

// CreateClientRequest is the body of POST /api/clients.
type CreateClientRequest struct {
	Name         string  `json:"name" validate:"required"`
	ClientType   string  `json:"client_type" validate:"required"`
	BusinessSize string  `json:"business_size" validate:"required"`
	Industry     *string `json:"industry,omitempty"`
	ContactEmail *string `json:"contact_email,omitempty"`
	ContactPhone *string `json:"contact_phone,omitempty"`
	FiscalYear   *string `json:"fiscal_year,omitempty"`
}

// GenerateWorkflowRequest is the body of POST /api/workflows/generate.
type GenerateWorkflowRequest struct {
	ClientID string `json:"client_id" validate:"required"`
}

// UpdateStepStatusRequest is the body of PATCH /api/workflows/{id}/steps/{key}.
type UpdateStepStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// CreateDocumentRequest is the body of POST /api/documents.
type CreateDocumentRequest struct {
	ClientID string   `json:"client_id" validate:"required"`
	Source   string   `json:"source" validate:"required"`
	Name     string   `json:"name" validate:"required"`
	Category string   `json:"category" validate:"required"`
	Period   *string  `json:"period,omitempty"`
	URL      *string  `json:"url,omitempty"`
	Tags     []string `json:"tags,omitempty"`
}

// CreateSignatureRequest is the body of POST /api/signatures. SignedBy
// defaults to the authenticated user.
type CreateSignatureRequest struct {
	ClientID   string  `json:"client_id" validate:"required"`
	DocumentID *string `json:"document_id,omitempty"`
	SignedBy   string  `json:"signed_by"`
	Role       string  `json:"role" validate:"required"`
	Method     string  `json:"method" validate:"required"`
	Note       *string `json:"note,omitempty"`
}

// AssistRequest is the body of POST /api/ai/assist.
type AssistRequest struct {
	Kind    string          `json:"kind" validate:"required"`
	Context json.RawMessage `json:"context,omitempty"`
}

// IDResponse is returned by create endpoints.
type IDResponse struct {
	ID string `json:"id"`
}

// ItemsResponse wraps list results.
type ItemsResponse[T any] struct {
	Items []T `json:"items"`
}

// OKResponse acknowledges an update.
type OKResponse struct {
	OK bool `json:"ok"`
}

// HealthStatus represents the health check response
type HealthStatus struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Service   string    `json:"service"`
	Database  string    `json:"database"`
	Driver    string    `json:"driver"`
}

func bindAndValidate(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return err
	}
	return c.Validate(dst)
}

func items[T any](list []T) ItemsResponse[T] {
	if list == nil {
		list = []T{}
	}
	return ItemsResponse[T]{Items: list}
}

// GetRoot identifies the service (GET /).
func (s *Server) GetRoot(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"name": ServiceName, "status": "ok"})
}

// GetHealth reports service and storage health (GET /health). Storage
// failures are reported with 503.
func (s *Server) GetHealth(c echo.Context) error {
	status := HealthStatus{
		Status:    "ok",
		Timestamp: time.Now().UTC(),
		Service:   ServiceName,
		Database:  "connected",
		Driver:    s.Driver,
	}
	if err := s.Storage.Ping(c.Request().Context()); err != nil {
		s.Logger.Error("storage health check failed", "driver", s.Driver, "error", err)
		status.Status = "degraded"
		status.Database = "unavailable"
		return c.JSON(http.StatusServiceUnavailable, status)
	}
	return c.JSON(http.StatusOK, status)
}

// ListClients returns all clients.
func (s *Server) ListClients(c echo.Context) error {
	clients, err := s.Clients.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items(clients))
}

// CreateClient registers a client.
func (s *Server) CreateClient(c echo.Context) error {
	var req CreateClientRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	client, err := s.Clients.Create(c.Request().Context(), &models.Client{
		Name:         req.Name,
		ClientType:   req.ClientType,
		BusinessSize: req.BusinessSize,
		Industry:     req.Industry,
		ContactEmail: req.ContactEmail,
		ContactPhone: req.ContactPhone,
		FiscalYear:   req.FiscalYear,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, IDResponse{ID: client.ID})
}

// GenerateWorkflow builds and stores a workflow for a client.
func (s *Server) GenerateWorkflow(c echo.Context) error {
	var req GenerateWorkflowRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	wf, err := s.Workflows.Generate(c.Request().Context(), req.ClientID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, IDResponse{ID: wf.ID})
}

// ListWorkflows returns workflows, optionally for one client.
func (s *Server) ListWorkflows(c echo.Context, params ListParams) error {
	wfs, err := s.Workflows.List(c.Request().Context(), params.ClientIDValue())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items(wfs))
}

// UpdateStepStatus sets the status of one step.
func (s *Server) UpdateStepStatus(c echo.Context, workflowID string, stepKey string) error {
	var req UpdateStepStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if _, err := s.Workflows.UpdateStepStatus(c.Request().Context(), workflowID, stepKey, req.Status); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, OKResponse{OK: true})
}

// ListDocuments returns vault documents, optionally for one client.
func (s *Server) ListDocuments(c echo.Context, params ListParams) error {
	docs, err := s.Vault.ListDocuments(c.Request().Context(), params.ClientIDValue())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items(docs))
}

// CreateDocument adds a document to the vault.
func (s *Server) CreateDocument(c echo.Context) error {
	var req CreateDocumentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	doc, err := s.Vault.AddDocument(c.Request().Context(), &models.Document{
		ClientID: req.ClientID,
		Source:   req.Source,
		Name:     req.Name,
		Category: req.Category,
		Period:   req.Period,
		URL:      req.URL,
		Tags:     req.Tags,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, IDResponse{ID: doc.ID})
}

// ListSignatures returns signatures, optionally for one client.
func (s *Server) ListSignatures(c echo.Context, params ListParams) error {
	sigs, err := s.Vault.ListSignatures(c.Request().Context(), params.ClientIDValue())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items(sigs))
}

// CreateSignature records a sign-off.
func (s *Server) CreateSignature(c echo.Context) error {
	var req CreateSignatureRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	sig, err := s.Vault.AddSignature(c.Request().Context(), &models.Signature{
		ClientID:   req.ClientID,
		DocumentID: req.DocumentID,
		SignedBy:   req.SignedBy,
		Role:       req.Role,
		Method:     req.Method,
		Note:       req.Note,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, IDResponse{ID: sig.ID})
}

// Assist returns canned assistant text for the requested kind.
func (s *Server) Assist(c echo.Context) error {
	var req AssistRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ar, err := assist.Decode(req.Kind, req.Context)
	if err != nil {
		if errors.Is(err, assist.ErrUnsupportedKind) {
			return err
		}
		return fmt.Errorf("%w: %v", models.ErrInvalidInput, err)
	}
	resp, err := assist.Generate(ar)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

// PredictClients returns the risk prediction for every client.
func (s *Server) PredictClients(c echo.Context) error {
	risks, err := s.Risk.PredictClients(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items(risks))
}
