package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auditflow/backend/pkg/models"
)

func strPtr(s string) *string { return &s }

// runRepositorySuite exercises the behaviour every Repository must share.
func runRepositorySuite(t *testing.T, store Repository) {
	ctx := context.Background()

	t.Run("Ping", func(t *testing.T) {
		assert.NoError(t, store.Ping(ctx))
	})

	t.Run("Create and Get client", func(t *testing.T) {
		client := &models.Client{
			Name:         "Acme Traders",
			ClientType:   "GST",
			BusinessSize: "small",
			FiscalYear:   strPtr("FY 2024-25"),
		}
		require.NoError(t, store.CreateClient(ctx, client))
		require.NotEmpty(t, client.ID)
		assert.False(t, client.CreatedAt.IsZero())

		got, err := store.GetClient(ctx, client.ID)
		require.NoError(t, err)
		assert.Equal(t, client.ID, got.ID)
		assert.Equal(t, "Acme Traders", got.Name)
		assert.Equal(t, "GST", got.ClientType)
		require.NotNil(t, got.FiscalYear)
		assert.Equal(t, "FY 2024-25", *got.FiscalYear)
		assert.Nil(t, got.Industry)

		_, err = store.GetClient(ctx, models.NewID())
		assert.ErrorIs(t, err, models.ErrClientNotFound)
	})

	t.Run("Workflows keep step order and filter by client", func(t *testing.T) {
		clientA, clientB := models.NewID(), models.NewID()
		due := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC).Add(250 * time.Millisecond)
		steps := []models.WorkflowStep{
			{Key: "collect_gstr", Title: "Collect", Category: models.CategoryDocuments, RequiredDocuments: []string{"GSTR-1"}, Dependencies: []string{}, DueDate: due, Status: models.StepStatusTodo},
			{Key: "reconcile_ledgers", Title: "Reconcile", Category: models.CategoryVerification, RequiredDocuments: []string{}, Dependencies: []string{"collect_gstr"}, DueDate: due.AddDate(0, 0, 7), Status: models.StepStatusTodo},
			{Key: "partner_signoff", Title: "Sign", Category: models.CategorySignoff, RequiredDocuments: []string{}, Dependencies: []string{"reconcile_ledgers"}, DueDate: due.AddDate(0, 0, 20), Status: models.StepStatusTodo},
		}

		first := &models.Workflow{ClientID: clientA, ClientType: "GST", Version: models.WorkflowVersion, Steps: steps}
		second := &models.Workflow{ClientID: clientB, ClientType: "ITR", Version: models.WorkflowVersion, Steps: steps[:1]}
		third := &models.Workflow{ClientID: clientA, ClientType: "GST", Version: models.WorkflowVersion, Steps: steps}
		for _, wf := range []*models.Workflow{first, second, third} {
			require.NoError(t, store.CreateWorkflow(ctx, wf))
			require.NotEmpty(t, wf.ID)
			time.Sleep(2 * time.Millisecond)
		}

		got, err := store.GetWorkflow(ctx, first.ID)
		require.NoError(t, err)
		require.Len(t, got.Steps, 3)
		for i, s := range got.Steps {
			assert.Equal(t, steps[i].Key, s.Key)
			assert.Equal(t, steps[i].Dependencies, s.Dependencies)
			assert.True(t, steps[i].DueDate.Equal(s.DueDate))
		}
		assert.Nil(t, got.FiscalYear)

		listed, err := store.ListWorkflows(ctx, models.ListFilter{ClientID: clientA})
		require.NoError(t, err)
		require.Len(t, listed, 2)
		assert.Equal(t, first.ID, listed[0].ID)
		assert.Equal(t, third.ID, listed[1].ID)

		none, err := store.ListWorkflows(ctx, models.ListFilter{ClientID: models.NewID()})
		require.NoError(t, err)
		assert.Empty(t, none)

		_, err = store.GetWorkflow(ctx, models.NewID())
		assert.ErrorIs(t, err, models.ErrWorkflowNotFound)
	})

	t.Run("ReplaceWorkflowSteps", func(t *testing.T) {
		wf := &models.Workflow{
			ClientID: models.NewID(),
			Version:  models.WorkflowVersion,
			Steps: []models.WorkflowStep{
				{Key: "kickoff", Status: models.StepStatusTodo, RequiredDocuments: []string{}, Dependencies: []string{}},
				{Key: "fieldwork", Status: models.StepStatusTodo, RequiredDocuments: []string{}, Dependencies: []string{"kickoff"}},
			},
		}
		require.NoError(t, store.CreateWorkflow(ctx, wf))

		at := time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC).Add(123 * time.Millisecond)
		updated := wf.Clone()
		updated.Steps[1].Status = models.StepStatusDone
		updated.Steps[1].UpdatedAt = &at
		require.NoError(t, store.ReplaceWorkflowSteps(ctx, wf.ID, updated.Steps))

		got, err := store.GetWorkflow(ctx, wf.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StepStatusTodo, got.Steps[0].Status)
		assert.Nil(t, got.Steps[0].UpdatedAt)
		assert.Equal(t, models.StepStatusDone, got.Steps[1].Status)
		require.NotNil(t, got.Steps[1].UpdatedAt)
		assert.True(t, at.Equal(*got.Steps[1].UpdatedAt))

		err = store.ReplaceWorkflowSteps(ctx, models.NewID(), updated.Steps)
		assert.ErrorIs(t, err, models.ErrWorkflowNotFound)
	})

	t.Run("Concurrent step replacements race on the whole array", func(t *testing.T) {
		wf := &models.Workflow{
			ClientID: models.NewID(),
			Version:  models.WorkflowVersion,
			Steps: []models.WorkflowStep{
				{Key: "a", Status: models.StepStatusTodo, RequiredDocuments: []string{}, Dependencies: []string{}},
				{Key: "b", Status: models.StepStatusTodo, RequiredDocuments: []string{}, Dependencies: []string{}},
			},
		}
		require.NoError(t, store.CreateWorkflow(ctx, wf))

		// Both writers read the same snapshot, then each changes a
		// different step. Whichever writes last wins for both steps.
		readA, err := store.GetWorkflow(ctx, wf.ID)
		require.NoError(t, err)
		readB, err := store.GetWorkflow(ctx, wf.ID)
		require.NoError(t, err)

		readA.Steps[0].Status = models.StepStatusDone
		readB.Steps[1].Status = models.StepStatusDone
		require.NoError(t, store.ReplaceWorkflowSteps(ctx, wf.ID, readA.Steps))
		require.NoError(t, store.ReplaceWorkflowSteps(ctx, wf.ID, readB.Steps))

		got, err := store.GetWorkflow(ctx, wf.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StepStatusTodo, got.Steps[0].Status, "first writer's change is lost")
		assert.Equal(t, models.StepStatusDone, got.Steps[1].Status)
	})

	t.Run("Documents and signatures", func(t *testing.T) {
		clientID := models.NewID()
		doc := &models.Document{ClientID: clientID, Source: "gstn", Name: "GSTR-1 Apr", Category: "gstr", Period: strPtr("2024-04")}
		require.NoError(t, store.CreateDocument(ctx, doc))
		require.NotEmpty(t, doc.ID)
		other := &models.Document{ClientID: models.NewID(), Source: "upload", Name: "Bank stmt", Category: "bank", Tags: []string{"q1"}}
		require.NoError(t, store.CreateDocument(ctx, other))

		docs, err := store.ListDocuments(ctx, models.ListFilter{ClientID: clientID})
		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Equal(t, doc.ID, docs[0].ID)
		assert.Empty(t, docs[0].Tags)
		require.NotNil(t, docs[0].Period)
		assert.Equal(t, "2024-04", *docs[0].Period)

		all, err := store.ListDocuments(ctx, models.ListFilter{})
		require.NoError(t, err)
		assert.GreaterOrEqual(t, len(all), 2)

		sig := &models.Signature{ClientID: clientID, DocumentID: &doc.ID, SignedBy: "partner@firm.in", Role: "partner", Method: "dsc"}
		require.NoError(t, store.CreateSignature(ctx, sig))
		sigs, err := store.ListSignatures(ctx, models.ListFilter{ClientID: clientID})
		require.NoError(t, err)
		require.Len(t, sigs, 1)
		assert.Equal(t, "partner@firm.in", sigs[0].SignedBy)
		require.NotNil(t, sigs[0].DocumentID)
		assert.Equal(t, doc.ID, *sigs[0].DocumentID)
		assert.Nil(t, sigs[0].Note)
	})

	t.Run("Concurrent inserts", func(t *testing.T) {
		var wg sync.WaitGroup
		clientID := models.NewID()
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				assert.NoError(t, store.CreateDocument(ctx, &models.Document{ClientID: clientID, Source: "upload", Name: "doc", Category: "other"}))
			}()
		}
		wg.Wait()

		docs, err := store.ListDocuments(ctx, models.ListFilter{ClientID: clientID})
		require.NoError(t, err)
		assert.Len(t, docs, 10)
	})
}
