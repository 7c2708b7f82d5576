package api

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
)

// ListParams defines the query parameters shared by the list endpoints.
type ListParams struct {
	ClientID *string `form:"client_id,omitempty" json:"client_id,omitempty"`
}

// ClientIDValue returns the filter value, empty when absent.
func (p ListParams) ClientIDValue() string {
	if p.ClientID == nil {
		return ""
	}
	return *p.ClientID
}

// ServerInterface represents all server handlers mounted under /api.
type ServerInterface interface {
	// (GET /clients)
	ListClients(ctx echo.Context) error
	// (POST /clients)
	CreateClient(ctx echo.Context) error
	// (POST /workflows/generate)
	GenerateWorkflow(ctx echo.Context) error
	// (GET /workflows)
	ListWorkflows(ctx echo.Context, params ListParams) error
	// (PATCH /workflows/{workflow_id}/steps/{step_key})
	UpdateStepStatus(ctx echo.Context, workflowID string, stepKey string) error
	// (GET /documents)
	ListDocuments(ctx echo.Context, params ListParams) error
	// (POST /documents)
	CreateDocument(ctx echo.Context) error
	// (GET /signatures)
	ListSignatures(ctx echo.Context, params ListParams) error
	// (POST /signatures)
	CreateSignature(ctx echo.Context) error
	// (POST /ai/assist)
	Assist(ctx echo.Context) error
	// (GET /predictive/clients)
	PredictClients(ctx echo.Context) error
}

// ServerInterfaceWrapper converts echo contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

func bindListParams(ctx echo.Context) (ListParams, error) {
	var params ListParams
	err := runtime.BindQueryParameter("form", true, false, "client_id", ctx.QueryParams(), &params.ClientID)
	if err != nil {
		return params, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter client_id: %s", err))
	}
	return params, nil
}

// ListClients converts echo context to params.
func (w *ServerInterfaceWrapper) ListClients(ctx echo.Context) error {
	return w.Handler.ListClients(ctx)
}

// CreateClient converts echo context to params.
func (w *ServerInterfaceWrapper) CreateClient(ctx echo.Context) error {
	return w.Handler.CreateClient(ctx)
}

// GenerateWorkflow converts echo context to params.
func (w *ServerInterfaceWrapper) GenerateWorkflow(ctx echo.Context) error {
	return w.Handler.GenerateWorkflow(ctx)
}

// ListWorkflows converts echo context to params.
func (w *ServerInterfaceWrapper) ListWorkflows(ctx echo.Context) error {
	params, err := bindListParams(ctx)
	if err != nil {
		return err
	}
	return w.Handler.ListWorkflows(ctx, params)
}

// UpdateStepStatus converts echo context to params.
func (w *ServerInterfaceWrapper) UpdateStepStatus(ctx echo.Context) error {
	var workflowID string
	err := runtime.BindStyledParameterWithOptions("simple", "workflow_id", ctx.Param("workflow_id"), &workflowID,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter workflow_id: %s", err))
	}

	var stepKey string
	err = runtime.BindStyledParameterWithOptions("simple", "step_key", ctx.Param("step_key"), &stepKey,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter step_key: %s", err))
	}

	return w.Handler.UpdateStepStatus(ctx, workflowID, stepKey)
}

// ListDocuments converts echo context to params.
func (w *ServerInterfaceWrapper) ListDocuments(ctx echo.Context) error {
	params, err := bindListParams(ctx)
	if err != nil {
		return err
	}
	return w.Handler.ListDocuments(ctx, params)
}

// CreateDocument converts echo context to params.
func (w *ServerInterfaceWrapper) CreateDocument(ctx echo.Context) error {
	return w.Handler.CreateDocument(ctx)
}

// ListSignatures converts echo context to params.
func (w *ServerInterfaceWrapper) ListSignatures(ctx echo.Context) error {
	params, err := bindListParams(ctx)
	if err != nil {
		return err
	}
	return w.Handler.ListSignatures(ctx, params)
}

// CreateSignature converts echo context to params.
func (w *ServerInterfaceWrapper) CreateSignature(ctx echo.Context) error {
	return w.Handler.CreateSignature(ctx)
}

// Assist converts echo context to params.
func (w *ServerInterfaceWrapper) Assist(ctx echo.Context) error {
	return w.Handler.Assist(ctx)
}

// PredictClients converts echo context to params.
func (w *ServerInterfaceWrapper) PredictClients(ctx echo.Context) error {
	return w.Handler.PredictClients(ctx)
}

// EchoRouter is satisfied by both *echo.Echo and *echo.Group.
type EchoRouter interface {
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	PATCH(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// RegisterHandlers adds each server route to the EchoRouter.
func RegisterHandlers(router EchoRouter, si ServerInterface) {
	RegisterHandlersWithBaseURL(router, si, "")
}

// RegisterHandlersWithBaseURL registers handlers, and prepends BaseURL to the
// paths, so that the paths can be served under a prefix.
func RegisterHandlersWithBaseURL(router EchoRouter, si ServerInterface, baseURL string) {
	wrapper := ServerInterfaceWrapper{
		Handler: si,
	}

	router.GET(baseURL+"/clients", wrapper.ListClients)
	router.POST(baseURL+"/clients", wrapper.CreateClient)
	router.POST(baseURL+"/workflows/generate", wrapper.GenerateWorkflow)
	router.GET(baseURL+"/workflows", wrapper.ListWorkflows)
	router.PATCH(baseURL+"/workflows/:workflow_id/steps/:step_key", wrapper.UpdateStepStatus)
	router.GET(baseURL+"/documents", wrapper.ListDocuments)
	router.POST(baseURL+"/documents", wrapper.CreateDocument)
	router.GET(baseURL+"/signatures", wrapper.ListSignatures)
	router.POST(baseURL+"/signatures", wrapper.CreateSignature)
	router.POST(baseURL+"/ai/assist", wrapper.Assist)
	router.GET(baseURL+"/predictive/clients", wrapper.PredictClients)
}
