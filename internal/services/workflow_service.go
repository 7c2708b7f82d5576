package services

import (
	"context"
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"auditflow/backend/internal/repository"
	"auditflow/backend/internal/workflow"
	"auditflow/backend/pkg/models"
)

// WorkflowService generates checklists for clients and tracks step progress.
type WorkflowService struct {
	clients   repository.ClientStore
	workflows repository.WorkflowStore
	clock     clock.Clock
	recorder  Recorder
	logger    Logger
}

// WorkflowOption configures a WorkflowService.
type WorkflowOption func(*WorkflowService)

// WithClock sets the clock used for reference and update times.
func WithClock(c clock.Clock) WorkflowOption {
	return func(s *WorkflowService) { s.clock = c }
}

// WithRecorder sets the recorder notified of generated workflows and updates.
func WithRecorder(r Recorder) WorkflowOption {
	return func(s *WorkflowService) { s.recorder = r }
}

// NewWorkflowService creates a new WorkflowService.
func NewWorkflowService(clients repository.ClientStore, workflows repository.WorkflowStore, logger Logger, opts ...WorkflowOption) *WorkflowService {
	s := &WorkflowService{
		clients:   clients,
		workflows: workflows,
		clock:     clock.New(),
		recorder:  nopRecorder{},
		logger:    logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Generate builds a workflow for the client from the template matching its
// type and stores it. The current time is the reference for due dates.
func (s *WorkflowService) Generate(ctx context.Context, rawClientID string) (*models.Workflow, error) {
	ctx, span := tracer.Start(ctx, "WorkflowService.Generate")
	defer span.End()

	clientID, err := models.ParseID(rawClientID)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("client.id", clientID))

	client, err := s.clients.GetClient(ctx, clientID)
	if err != nil {
		return nil, err
	}

	wf := workflow.Build(client, s.now())
	if err := s.workflows.CreateWorkflow(ctx, wf); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to store workflow: %w", err)
	}

	family := workflow.Classify(client.ClientType)
	s.recorder.RecordWorkflowGenerated(string(family))
	s.logger.Info("workflow generated",
		"workflow_id", wf.ID,
		"client_id", clientID,
		"family", family,
		"steps", len(wf.Steps),
	)
	return wf, nil
}

// now is the service time in UTC at millisecond precision, the finest every
// backend stores.
func (s *WorkflowService) now() time.Time {
	return s.clock.Now().UTC().Truncate(time.Millisecond)
}

// List returns workflows in creation order, optionally only those of one
// client.
func (s *WorkflowService) List(ctx context.Context, clientID string) ([]*models.Workflow, error) {
	ctx, span := tracer.Start(ctx, "WorkflowService.List")
	defer span.End()

	return s.workflows.ListWorkflows(ctx, models.FilterByClient(clientID))
}

// Get returns a workflow by id.
func (s *WorkflowService) Get(ctx context.Context, rawID string) (*models.Workflow, error) {
	id, err := models.ParseID(rawID)
	if err != nil {
		return nil, err
	}
	return s.workflows.GetWorkflow(ctx, id)
}

// UpdateStepStatus sets the status of one step and persists the step list
// in a single write. Nothing is written when any check fails. Dependencies
// are not consulted.
func (s *WorkflowService) UpdateStepStatus(ctx context.Context, rawWorkflowID, stepKey, rawStatus string) (*models.Workflow, error) {
	ctx, span := tracer.Start(ctx, "WorkflowService.UpdateStepStatus", trace.WithAttributes(
		attribute.String("step.key", stepKey),
		attribute.String("step.status", rawStatus),
	))
	defer span.End()

	id, err := models.ParseID(rawWorkflowID)
	if err != nil {
		return nil, err
	}
	status, err := workflow.ParseStatus(rawStatus)
	if err != nil {
		return nil, err
	}

	current, err := s.workflows.GetWorkflow(ctx, id)
	if err != nil {
		return nil, err
	}

	updated, err := workflow.UpdateStepStatus(current, stepKey, status, s.now())
	if err != nil {
		return nil, err
	}

	if err := s.workflows.ReplaceWorkflowSteps(ctx, id, updated.Steps); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to update workflow steps: %w", err)
	}

	s.recorder.RecordStepUpdate(string(status))
	s.logger.Info("step status updated", "workflow_id", id, "step", stepKey, "status", status)
	return updated, nil
}
