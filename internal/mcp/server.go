// Package mcp exposes AuditFlow workflow operations as Model Context
// Protocol tools.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"auditflow/backend/internal/assist"
	"auditflow/backend/internal/services"
	"auditflow/backend/pkg/models"
)

// WorkflowService is the subset of workflow operations offered as tools.
type WorkflowService interface {
	Generate(ctx context.Context, clientID string) (*models.Workflow, error)
	List(ctx context.Context, clientID string) ([]*models.Workflow, error)
	UpdateStepStatus(ctx context.Context, workflowID, stepKey, status string) (*models.Workflow, error)
}

// RiskService scores clients.
type RiskService interface {
	PredictClients(ctx context.Context) ([]services.ClientRisk, error)
}

type Server struct {
	mcpServer *server.MCPServer
	workflows WorkflowService
	risk      RiskService
}

func NewServer(workflows WorkflowService, risk RiskService) *Server {
	s := &Server{
		mcpServer: server.NewMCPServer(
			"AuditFlow",
			"1.0.0",
			server.WithToolCapabilities(true),
		),
		workflows: workflows,
		risk:      risk,
	}

	s.registerTools()
	return s
}

func (s *Server) GetMCPServer() *server.MCPServer {
	return s.mcpServer
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(
		mcp.NewTool(
			"generate_workflow",
			mcp.WithDescription("Generate an audit workflow for a client from the template matching its client type"),
			mcp.WithString("client_id", mcp.Required(), mcp.Description("The ID of the client")),
		),
		s.handleGenerateWorkflow,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"list_workflows",
			mcp.WithDescription("List workflows in creation order, optionally for one client"),
			mcp.WithString("client_id", mcp.Description("Only return workflows of this client")),
		),
		s.handleListWorkflows,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"update_step_status",
			mcp.WithDescription("Set the status of one workflow step"),
			mcp.WithString("workflow_id", mcp.Required(), mcp.Description("The ID of the workflow")),
			mcp.WithString("step_key", mcp.Required(), mcp.Description("The key of the step, e.g. collect_gstr")),
			mcp.WithString("status", mcp.Required(),
				mcp.Description("The new status"),
				mcp.Enum(string(models.StepStatusTodo), string(models.StepStatusInProgress), string(models.StepStatusBlocked), string(models.StepStatusDone)),
			),
		),
		s.handleUpdateStepStatus,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"predictive_clients",
			mcp.WithDescription("Score every client by missing documents and overdue steps"),
		),
		s.handlePredictiveClients,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"assist_checklist",
			mcp.WithDescription("Return the onboarding checklist for a client type"),
			mcp.WithString("client_type", mcp.Description("Client type, e.g. GST or ITR")),
		),
		s.handleAssistChecklist,
	)
}

func (s *Server) handleGenerateWorkflow(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	clientID, err := request.RequireString("client_id")
	if err != nil {
		return mcp.NewToolResultError("Missing required parameter: client_id"), nil
	}

	wf, err := s.workflows.Generate(ctx, clientID)
	if err != nil {
		return toolError("Failed to generate workflow", err)
	}
	return jsonResult(wf)
}

func (s *Server) handleListWorkflows(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	wfs, err := s.workflows.List(ctx, request.GetString("client_id", ""))
	if err != nil {
		return toolError("Failed to list workflows", err)
	}
	if wfs == nil {
		wfs = []*models.Workflow{}
	}
	return jsonResult(wfs)
}

func (s *Server) handleUpdateStepStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	workflowID, err := request.RequireString("workflow_id")
	if err != nil {
		return mcp.NewToolResultError("Missing required parameter: workflow_id"), nil
	}
	stepKey, err := request.RequireString("step_key")
	if err != nil {
		return mcp.NewToolResultError("Missing required parameter: step_key"), nil
	}
	status, err := request.RequireString("status")
	if err != nil {
		return mcp.NewToolResultError("Missing required parameter: status"), nil
	}

	wf, err := s.workflows.UpdateStepStatus(ctx, workflowID, stepKey, status)
	if err != nil {
		return toolError("Failed to update step", err)
	}
	return jsonResult(wf)
}

func (s *Server) handlePredictiveClients(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	risks, err := s.risk.PredictClients(ctx)
	if err != nil {
		return toolError("Failed to score clients", err)
	}
	return jsonResult(risks)
}

func (s *Server) handleAssistChecklist(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	resp, err := assist.Generate(assist.ChecklistRequest{ClientType: request.GetString("client_type", "")})
	if err != nil {
		return toolError("Failed to build checklist", err)
	}
	return jsonResult(resp.Items)
}

// toolError reports domain failures to the caller as tool errors. Anything
// else is returned as a protocol error.
func toolError(msg string, err error) (*mcp.CallToolResult, error) {
	switch {
	case errors.Is(err, models.ErrInvalidIdentifier),
		errors.Is(err, models.ErrInvalidStatus),
		errors.Is(err, models.ErrClientNotFound),
		errors.Is(err, models.ErrWorkflowNotFound),
		errors.Is(err, models.ErrStepNotFound):
		return mcp.NewToolResultError(fmt.Sprintf("%s: %v", msg, err)), nil
	default:
		return nil, fmt.Errorf("%s: %w", msg, err)
	}
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonBytes, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

// MountHTTPHandlers registers the SSE transport under /mcp.
func MountHTTPHandlers(mux *http.ServeMux, mcpServer *server.MCPServer) {
	sseServer := server.NewSSEServer(mcpServer, server.WithStaticBasePath("/mcp"))

	mux.HandleFunc("/mcp", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			sseServer.ServeHTTP(w, r)
			return
		}
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	})

	mux.HandleFunc("/mcp/sse", sseServer.ServeHTTP)
	mux.HandleFunc("/mcp/message", sseServer.ServeHTTP)
}
