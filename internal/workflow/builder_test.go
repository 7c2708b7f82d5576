package workflow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auditflow/backend/pkg/models"
)

var reference = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }

func stepKeys(wf *models.Workflow) []string {
	keys := make([]string, 0, len(wf.Steps))
	for _, s := range wf.Steps {
		keys = append(keys, s.Key)
	}
	return keys
}

func TestClassify(t *testing.T) {
	tests := []struct {
		clientType string
		want       Family
	}{
		{"GST", FamilyGST},
		{"gst", FamilyGST},
		{"Monthly GST filing", FamilyGST},
		{"gSt-audit", FamilyGST},
		{"ITR", FamilyGeneric},
		{"CompanyAudit", FamilyGeneric},
		{"", FamilyGeneric},
		{"   ", FamilyGeneric},
	}
	for _, tt := range tests {
		t.Run(tt.clientType, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.clientType))
		})
	}
}

func TestBuild_GSTFamily(t *testing.T) {
	for _, ct := range []string{"GST", "gst", "Quarterly Gst Return"} {
		t.Run(ct, func(t *testing.T) {
			client := &models.Client{ID: models.NewID(), ClientType: ct, FiscalYear: strPtr("FY 2024-25")}
			wf := Build(client, reference)

			assert.Equal(t, []string{"collect_gstr", "reconcile_ledgers", "variance_analysis", "draft_report", "partner_signoff"}, stepKeys(wf))
			for _, s := range wf.Steps {
				assert.Equal(t, models.StepStatusTodo, s.Status, s.Key)
				assert.Nil(t, s.UpdatedAt, s.Key)
			}
			assert.Equal(t, client.ID, wf.ClientID)
			assert.Equal(t, ct, wf.ClientType)
			require.NotNil(t, wf.FiscalYear)
			assert.Equal(t, "FY 2024-25", *wf.FiscalYear)
			assert.Equal(t, "v1", wf.Version)
		})
	}
}

func TestBuild_GenericFamily(t *testing.T) {
	clients := map[string]*models.Client{
		"itr":     {ClientType: "ITR"},
		"empty":   {},
		"nil":     nil,
		"company": {ClientType: "CompanyAudit", FiscalYear: strPtr("FY 2023-24")},
	}
	for name, c := range clients {
		t.Run(name, func(t *testing.T) {
			wf := Build(c, reference)
			assert.Equal(t, []string{"kickoff", "fieldwork", "draft", "signoff"}, stepKeys(wf))
			for _, s := range wf.Steps {
				assert.Equal(t, models.StepStatusTodo, s.Status)
			}
			assert.Equal(t, models.WorkflowVersion, wf.Version)
		})
	}
}

func TestBuild_GSTDueDates(t *testing.T) {
	wf := Build(&models.Client{ClientType: "GST", FiscalYear: strPtr("FY 2024-25")}, reference)

	want := map[string]time.Time{
		"collect_gstr":      time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		"reconcile_ledgers": time.Date(2024, 1, 22, 0, 0, 0, 0, time.UTC),
		"variance_analysis": time.Date(2024, 1, 27, 0, 0, 0, 0, time.UTC),
		"draft_report":      time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC),
		"partner_signoff":   time.Date(2024, 2, 4, 0, 0, 0, 0, time.UTC),
	}
	for _, s := range wf.Steps {
		assert.True(t, want[s.Key].Equal(s.DueDate), "%s: got %s", s.Key, s.DueDate)
	}
}

func TestBuild_GenericDueDates(t *testing.T) {
	wf := Build(&models.Client{ClientType: "ITR"}, reference)

	want := []time.Time{
		reference.AddDate(0, 0, 7),
		reference.AddDate(0, 0, 14),
		reference.AddDate(0, 0, 20),
		reference.AddDate(0, 0, 22),
	}
	for i, s := range wf.Steps {
		assert.True(t, want[i].Equal(s.DueDate), "%s: got %s", s.Key, s.DueDate)
	}
}

func TestBuild_DueDatesNonDecreasing(t *testing.T) {
	for _, ct := range []string{"GST", "ITR"} {
		wf := Build(&models.Client{ClientType: ct}, reference)
		for i := 1; i < len(wf.Steps); i++ {
			assert.False(t, wf.Steps[i].DueDate.Before(wf.Steps[i-1].DueDate),
				"%s: %s due before %s", ct, wf.Steps[i].Key, wf.Steps[i-1].Key)
		}
	}
}

func TestBuild_FiscalYearDescription(t *testing.T) {
	wf := Build(&models.Client{ClientType: "GST", FiscalYear: strPtr("FY 2024-25")}, reference)
	require.NotNil(t, wf.Steps[0].Description)
	assert.Equal(t, "Collect GST returns for FY 2024-25", *wf.Steps[0].Description)

	wf = Build(&models.Client{ClientType: "GST"}, reference)
	require.NotNil(t, wf.Steps[0].Description)
	assert.Equal(t, "Collect GST returns for Current FY", *wf.Steps[0].Description)
	assert.Nil(t, wf.FiscalYear)

	wf = Build(&models.Client{ClientType: "GST", FiscalYear: strPtr("")}, reference)
	assert.Equal(t, "Collect GST returns for Current FY", *wf.Steps[0].Description)

	// only the empty string falls back
	wf = Build(&models.Client{ClientType: "GST", FiscalYear: strPtr("  ")}, reference)
	assert.Equal(t, "Collect GST returns for   ", *wf.Steps[0].Description)
}

func TestBuild_StepsDoNotShareTemplateSlices(t *testing.T) {
	first := Build(&models.Client{ClientType: "GST"}, reference)
	first.Steps[0].RequiredDocuments[0] = "mutated"
	first.Steps[1].Dependencies[0] = "mutated"

	second := Build(&models.Client{ClientType: "GST"}, reference)
	assert.Equal(t, "GSTR-1", second.Steps[0].RequiredDocuments[0])
	assert.Equal(t, "collect_gstr", second.Steps[1].Dependencies[0])
}

func TestBuild_NormalisesReferenceToUTC(t *testing.T) {
	loc := time.FixedZone("IST", 5*60*60+30*60)
	local := time.Date(2024, 1, 1, 5, 30, 0, 0, loc)

	wf := Build(&models.Client{ClientType: "ITR"}, local)
	assert.Equal(t, time.UTC, wf.Steps[0].DueDate.Location())
	assert.True(t, reference.AddDate(0, 0, 7).Equal(wf.Steps[0].DueDate))
}

func TestTemplates_DependenciesReferToEarlierSteps(t *testing.T) {
	for _, tmpl := range Templates() {
		t.Run(string(tmpl.Family), func(t *testing.T) {
			steps := tmpl.Instantiate(nil, reference)
			require.Len(t, steps, len(tmpl.Steps))
			assert.NoError(t, CheckDependencies(steps))
		})
	}
}

func TestCheckDependencies(t *testing.T) {
	tests := []struct {
		name    string
		steps   []models.WorkflowStep
		wantErr bool
	}{
		{"empty", nil, false},
		{"chain", []models.WorkflowStep{{Key: "a"}, {Key: "b", Dependencies: []string{"a"}}}, false},
		{"forward reference", []models.WorkflowStep{{Key: "a", Dependencies: []string{"b"}}, {Key: "b"}}, true},
		{"unknown", []models.WorkflowStep{{Key: "a", Dependencies: []string{"zzz"}}}, true},
		{"self", []models.WorkflowStep{{Key: "a", Dependencies: []string{"a"}}}, true},
		{"duplicate key", []models.WorkflowStep{{Key: "a"}, {Key: "a"}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckDependencies(tt.steps)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
