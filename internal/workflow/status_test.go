package workflow

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auditflow/backend/pkg/models"
)

func gstWorkflow(t *testing.T) *models.Workflow {
	t.Helper()
	wf := Build(&models.Client{ID: models.NewID(), ClientType: "GST", FiscalYear: strPtr("FY 2024-25")}, reference)
	wf.ID = models.NewID()
	return wf
}

func TestParseStatus(t *testing.T) {
	for _, raw := range []string{"todo", "in_progress", "blocked", "done"} {
		s, err := ParseStatus(raw)
		require.NoError(t, err)
		assert.Equal(t, models.StepStatus(raw), s)
	}

	for _, raw := range []string{"", "DONE", "complete", " done"} {
		_, err := ParseStatus(raw)
		assert.ErrorIs(t, err, models.ErrInvalidStatus, raw)
	}
}

func TestUpdateStepStatus_OnlyTargetStepChanges(t *testing.T) {
	wf := gstWorkflow(t)
	at := reference.Add(3 * time.Hour)

	updated, err := UpdateStepStatus(wf, "draft_report", models.StepStatusDone, at)
	require.NoError(t, err)

	require.Len(t, updated.Steps, len(wf.Steps))
	for i, s := range updated.Steps {
		if s.Key == "draft_report" {
			assert.Equal(t, models.StepStatusDone, s.Status)
			require.NotNil(t, s.UpdatedAt)
			assert.True(t, at.Equal(*s.UpdatedAt))
			continue
		}
		assert.Equal(t, wf.Steps[i], s, s.Key)
	}
	assert.Equal(t, wf.ID, updated.ID)
	assert.Equal(t, wf.ClientID, updated.ClientID)
	assert.Equal(t, wf.Version, updated.Version)
}

func TestUpdateStepStatus_DoesNotMutateInput(t *testing.T) {
	wf := gstWorkflow(t)
	before, err := json.Marshal(wf)
	require.NoError(t, err)

	_, err = UpdateStepStatus(wf, "draft_report", models.StepStatusDone, reference)
	require.NoError(t, err)

	after, err := json.Marshal(wf)
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
}

func TestUpdateStepStatus_Idempotent(t *testing.T) {
	wf := gstWorkflow(t)

	once, err := UpdateStepStatus(wf, "draft_report", models.StepStatusDone, reference)
	require.NoError(t, err)
	later := reference.Add(time.Minute)
	twice, err := UpdateStepStatus(once, "draft_report", models.StepStatusDone, later)
	require.NoError(t, err)

	s1, _ := once.Step("draft_report")
	s2, _ := twice.Step("draft_report")
	assert.Equal(t, s1.Status, s2.Status)
	assert.True(t, later.Equal(*s2.UpdatedAt))

	// Apart from the timestamp, both results are identical.
	s2.UpdatedAt = s1.UpdatedAt
	assert.Equal(t, once, twice)
}

func TestUpdateStepStatus_UnknownKey(t *testing.T) {
	wf := gstWorkflow(t)
	before, err := json.Marshal(wf)
	require.NoError(t, err)

	updated, err := UpdateStepStatus(wf, "nonexistent_key", models.StepStatusDone, reference)
	assert.ErrorIs(t, err, models.ErrStepNotFound)
	assert.Nil(t, updated)

	after, err := json.Marshal(wf)
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
}

func TestUpdateStepStatus_InvalidStatus(t *testing.T) {
	wf := gstWorkflow(t)

	_, err := UpdateStepStatus(wf, "draft_report", models.StepStatus("finished"), reference)
	assert.ErrorIs(t, err, models.ErrInvalidStatus)
	s, _ := wf.Step("draft_report")
	assert.Equal(t, models.StepStatusTodo, s.Status)
}

func TestUpdateStepStatus_IgnoresDependencies(t *testing.T) {
	wf := gstWorkflow(t)

	// Dependencies are advisory: the last step can be completed first.
	updated, err := UpdateStepStatus(wf, "partner_signoff", models.StepStatusDone, reference)
	require.NoError(t, err)
	s, _ := updated.Step("partner_signoff")
	assert.Equal(t, models.StepStatusDone, s.Status)
}
