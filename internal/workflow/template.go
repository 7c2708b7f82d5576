// Package workflow turns a client's classification into a checklist of audit
// steps and applies status changes to generated checklists.
package workflow

import (
	"strings"

	"auditflow/backend/pkg/models"
)

// Family identifies a set of step definitions selected by client type.
type Family string

const (
	FamilyGST     Family = "gst"
	FamilyGeneric Family = "generic"
)

// fiscalYearPlaceholder is replaced with the client's fiscal year label.
const fiscalYearPlaceholder = "{fiscal_year}"

// defaultFiscalYear is used when the client has no fiscal year on record.
const defaultFiscalYear = "Current FY"

// StepDefinition describes one step of a template. Due dates are whole days
// after the template anchor.
type StepDefinition struct {
	Key               string
	Title             string
	Description       string
	Category          models.StepCategory
	RequiredDocuments []string
	Dependencies      []string
	DueOffsetDays     int
}

// Template is a versioned, ordered list of step definitions. AnchorDays
// shifts the anchor all step offsets are measured from.
type Template struct {
	Family     Family
	Version    string
	AnchorDays int
	Steps      []StepDefinition
}

var gstTemplate = Template{
	Family:     FamilyGST,
	Version:    models.WorkflowVersion,
	AnchorDays: 14,
	Steps: []StepDefinition{
		{
			Key:               "collect_gstr",
			Title:             "Collect GSTR-1, GSTR-3B, GSTR-2B",
			Description:       "Collect GST returns for " + fiscalYearPlaceholder,
			Category:          models.CategoryDocuments,
			RequiredDocuments: []string{"GSTR-1", "GSTR-3B", "GSTR-2B"},
		},
		{
			Key:               "reconcile_ledgers",
			Title:             "Reconcile sales/purchase ledgers with GST",
			Category:          models.CategoryVerification,
			RequiredDocuments: []string{"Sales Ledger", "Purchase Ledger"},
			Dependencies:      []string{"collect_gstr"},
			DueOffsetDays:     7,
		},
		{
			Key:           "variance_analysis",
			Title:         "Variance and anomaly analysis",
			Category:      models.CategoryAnalysis,
			Dependencies:  []string{"reconcile_ledgers"},
			DueOffsetDays: 12,
		},
		{
			Key:           "draft_report",
			Title:         "Draft GST Audit Report",
			Category:      models.CategoryReporting,
			Dependencies:  []string{"variance_analysis"},
			DueOffsetDays: 18,
		},
		{
			Key:           "partner_signoff",
			Title:         "Partner Sign-off",
			Category:      models.CategorySignoff,
			Dependencies:  []string{"draft_report"},
			DueOffsetDays: 20,
		},
	},
}

var genericTemplate = Template{
	Family:  FamilyGeneric,
	Version: models.WorkflowVersion,
	Steps: []StepDefinition{
		{
			Key:           "kickoff",
			Title:         "Engagement kickoff & document request",
			Category:      models.CategoryDocuments,
			DueOffsetDays: 7,
		},
		{
			Key:           "fieldwork",
			Title:         "Fieldwork and tests",
			Category:      models.CategoryAnalysis,
			Dependencies:  []string{"kickoff"},
			DueOffsetDays: 14,
		},
		{
			Key:           "draft",
			Title:         "Draft report",
			Category:      models.CategoryReporting,
			Dependencies:  []string{"fieldwork"},
			DueOffsetDays: 20,
		},
		{
			Key:           "signoff",
			Title:         "Final sign-off",
			Category:      models.CategorySignoff,
			Dependencies:  []string{"draft"},
			DueOffsetDays: 22,
		},
	},
}

// Templates returns every template family in the catalog.
func Templates() []Template {
	return []Template{gstTemplate, genericTemplate}
}

// Classify maps a free-text client type to a template family. Matching is
// case-insensitive; anything that does not mention GST is generic.
func Classify(clientType string) Family {
	if strings.Contains(strings.ToLower(clientType), "gst") {
		return FamilyGST
	}
	return FamilyGeneric
}

// SelectTemplate returns the template for the given client type.
func SelectTemplate(clientType string) Template {
	if Classify(clientType) == FamilyGST {
		return gstTemplate
	}
	return genericTemplate
}
