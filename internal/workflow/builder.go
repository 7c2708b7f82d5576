package workflow

import (
	"strings"
	"time"

	"auditflow/backend/pkg/models"
)

const day = 24 * time.Hour

// Build instantiates the template matching the client's type. All due dates
// are computed from referenceTime, so the result is deterministic for a
// given client and instant. Missing client fields fall back to defaults;
// Build never fails. The returned workflow has no ID yet.
func Build(client *models.Client, referenceTime time.Time) *models.Workflow {
	var c models.Client
	if client != nil {
		c = *client
	}

	tmpl := SelectTemplate(c.ClientType)
	return &models.Workflow{
		ClientID:   c.ID,
		ClientType: c.ClientType,
		FiscalYear: copyString(c.FiscalYear),
		Version:    tmpl.Version,
		Steps:      tmpl.Instantiate(c.FiscalYear, referenceTime),
	}
}

// Instantiate materialises the template's steps against referenceTime. Every
// step starts in the todo state.
func (t Template) Instantiate(fiscalYear *string, referenceTime time.Time) []models.WorkflowStep {
	fy := defaultFiscalYear
	if fiscalYear != nil && *fiscalYear != "" {
		fy = *fiscalYear
	}

	anchor := referenceTime.UTC().Add(time.Duration(t.AnchorDays) * day)
	steps := make([]models.WorkflowStep, 0, len(t.Steps))
	for _, def := range t.Steps {
		step := models.WorkflowStep{
			Key:               def.Key,
			Title:             def.Title,
			Category:          def.Category,
			RequiredDocuments: append([]string{}, def.RequiredDocuments...),
			Dependencies:      append([]string{}, def.Dependencies...),
			DueDate:           anchor.Add(time.Duration(def.DueOffsetDays) * day),
			Status:            models.StepStatusTodo,
		}
		if def.Description != "" {
			desc := strings.ReplaceAll(def.Description, fiscalYearPlaceholder, fy)
			step.Description = &desc
		}
		steps = append(steps, step)
	}
	return steps
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
