package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"auditflow/backend/internal/config"
	"auditflow/backend/internal/logging"
	"auditflow/backend/internal/repository"
	"auditflow/backend/internal/services"
	"auditflow/backend/pkg/models"
)

type seedClient struct {
	client    models.Client
	documents []models.Document
}

func strPtr(s string) *string { return &s }

var seedData = []seedClient{
	{
		client: models.Client{
			Name:         "Shree Ganesh Traders",
			ClientType:   "GST",
			BusinessSize: "small",
			Industry:     strPtr("Wholesale"),
			ContactEmail: strPtr("accounts@ganeshtraders.in"),
			FiscalYear:   strPtr("FY 2024-25"),
		},
		documents: []models.Document{
			{Source: "gstn", Name: "GSTR-1 March", Category: "gstr", Period: strPtr("2025-03")},
			{Source: "gstn", Name: "GSTR-3B March", Category: "gstr", Period: strPtr("2025-03")},
			{Source: "tally", Name: "Sales Ledger", Category: "ledgers"},
		},
	},
	{
		client: models.Client{
			Name:         "Kapoor & Sons",
			ClientType:   "ITR",
			BusinessSize: "micro",
			FiscalYear:   strPtr("FY 2024-25"),
		},
	},
	{
		client: models.Client{
			Name:         "Northwind Components Pvt Ltd",
			ClientType:   "CompanyAudit",
			BusinessSize: "medium",
			Industry:     strPtr("Manufacturing"),
			FiscalYear:   strPtr("FY 2024-25"),
		},
		documents: []models.Document{
			{Source: "mca", Name: "AOC-4", Category: "roc"},
			{Source: "bank", Name: "HDFC statement Q4", Category: "bank", Tags: []string{"q4"}},
			{Source: "zoho", Name: "Purchase register", Category: "ledgers"},
			{Source: "upload", Name: "Fixed asset register", Category: "other"},
			{Source: "quickbooks", Name: "Trial balance", Category: "report"},
		},
	},
}

func main() {
	var configPath string
	cmd := &cobra.Command{
		Use:          "seed",
		Short:        "Load sample clients, documents and workflows",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			logger := logging.NewLogger(cfg.Log.Level, cfg.IsDev())
			defer logger.Sync()

			return seed(cmd.Context(), cfg, logger)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "path to config file (default ./config.yaml)")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func seed(ctx context.Context, cfg *config.Config, logger *logging.Logger) error {
	repo, err := repository.Open(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer repo.Close()

	existing, err := repo.ListClients(ctx)
	if err != nil {
		return fmt.Errorf("failed to list existing clients: %w", err)
	}
	known := make(map[string]bool, len(existing))
	for _, c := range existing {
		known[c.Name] = true
	}

	clients := services.NewClientService(repo, logger)
	vault := services.NewVaultService(repo, repo, logger)
	workflows := services.NewWorkflowService(repo, repo, logger)

	for _, sc := range seedData {
		if known[sc.client.Name] {
			logger.Info("Skipping existing client", "name", sc.client.Name)
			continue
		}

		client := sc.client
		if _, err := clients.Create(ctx, &client); err != nil {
			return err
		}
		for _, d := range sc.documents {
			doc := d
			doc.ClientID = client.ID
			if _, err := vault.AddDocument(ctx, &doc); err != nil {
				return err
			}
		}
		wf, err := workflows.Generate(ctx, client.ID)
		if err != nil {
			return err
		}
		logger.Info("Seeded client", "name", client.Name, "id", client.ID, "workflow_id", wf.ID, "documents", len(sc.documents))
	}

	logger.Info("Seeding complete")
	return nil
}
