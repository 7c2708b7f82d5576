package services

import (
	"context"

	"github.com/benbjohnson/clock"

	"auditflow/backend/internal/repository"
	"auditflow/backend/internal/risk"
	"auditflow/backend/pkg/models"
)

// ClientRisk is the predicted risk for one client.
type ClientRisk struct {
	Client        *models.Client `json:"client"`
	RiskScore     int            `json:"risk_score"`
	RiskLevel     risk.Level     `json:"risk_level"`
	Documents     int            `json:"documents"`
	OpenWorkflows int            `json:"open_workflows"`
}

// RiskService scores every client.
type RiskService struct {
	clients   repository.ClientStore
	documents repository.DocumentStore
	workflows repository.WorkflowStore
	clock     clock.Clock
}

// NewRiskService creates a new RiskService. A nil clock uses wall time.
func NewRiskService(clients repository.ClientStore, documents repository.DocumentStore, workflows repository.WorkflowStore, clk clock.Clock) *RiskService {
	if clk == nil {
		clk = clock.New()
	}
	return &RiskService{clients: clients, documents: documents, workflows: workflows, clock: clk}
}

// PredictClients scores each client in creation order. OpenWorkflows counts
// every workflow generated for the client.
func (s *RiskService) PredictClients(ctx context.Context) ([]ClientRisk, error) {
	ctx, span := tracer.Start(ctx, "RiskService.PredictClients")
	defer span.End()

	clients, err := s.clients.ListClients(ctx)
	if err != nil {
		return nil, err
	}
	docs, err := s.documents.ListDocuments(ctx, models.ListFilter{})
	if err != nil {
		return nil, err
	}
	wfs, err := s.workflows.ListWorkflows(ctx, models.ListFilter{})
	if err != nil {
		return nil, err
	}

	docCount := make(map[string]int, len(clients))
	for _, d := range docs {
		docCount[d.ClientID]++
	}
	byClient := make(map[string][]*models.Workflow, len(clients))
	for _, wf := range wfs {
		byClient[wf.ClientID] = append(byClient[wf.ClientID], wf)
	}

	now := s.clock.Now()
	out := make([]ClientRisk, 0, len(clients))
	for _, c := range clients {
		a := risk.Assess(docCount[c.ID], byClient[c.ID], now)
		out = append(out, ClientRisk{
			Client:        c,
			RiskScore:     a.Score,
			RiskLevel:     a.Level,
			Documents:     docCount[c.ID],
			OpenWorkflows: len(byClient[c.ID]),
		})
	}
	return out, nil
}
