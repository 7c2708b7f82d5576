package assist

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generate(t *testing.T, kind, payload string) Response {
	t.Helper()
	req, err := Decode(kind, json.RawMessage(payload))
	require.NoError(t, err)
	assert.Equal(t, Kind(kind), req.Kind())
	resp, err := Generate(req)
	require.NoError(t, err)
	return resp
}

func TestNote(t *testing.T) {
	resp := generate(t, "note", `{"client":{"name":"Acme Traders","client_type":"GST"}}`)
	assert.Contains(t, resp.Content, "Audit Note for Acme Traders (Type: GST):")
	assert.Contains(t, resp.Content, "- Next step: variance analysis and draft preparation.")

	resp = generate(t, "note", ``)
	assert.Contains(t, resp.Content, "Audit Note for Client (Type: N/A):")
}

func TestAnomalySummary(t *testing.T) {
	resp := generate(t, "anomaly_summary", `{"anomalies":[
		{"label":"Duplicate invoice","variance":12500.5,"account":"Sales"},
		{"variance":"3%"}
	]}`)
	assert.Equal(t, "Anomaly Summary:\n"+
		"- Duplicate invoice: variance 12500.5 on Sales\n"+
		"- Issue: variance 3% on account", resp.Content)

	resp = generate(t, "anomaly_summary", `{}`)
	assert.Equal(t, "Anomaly Summary:\n- No material anomalies detected based on supplied data.", resp.Content)
}

func TestChecklist(t *testing.T) {
	resp := generate(t, "checklist", `{"client_type":"ITR"}`)
	assert.Equal(t, []string{"Engagement letter signed", "KYC and onboarding completed", "Trial balance received"}, resp.Items)
	assert.Empty(t, resp.Content)

	resp = generate(t, "checklist", `{"client_type":"Gst"}`)
	assert.Len(t, resp.Items, 6)
	assert.Equal(t, "ITC eligibility review", resp.Items[5])

	// The shared base list is never extended in place.
	resp = generate(t, "checklist", `null`)
	assert.Len(t, resp.Items, 3)
}

func TestReportDraft(t *testing.T) {
	resp := generate(t, "report_draft", `{"client":{"name":"Acme"},"period":"FY 2024-25"}`)
	assert.Contains(t, resp.Content, "Draft Audit Report - Acme\nScope: FY 2024-25\n")

	resp = generate(t, "report_draft", `{}`)
	assert.Contains(t, resp.Content, "Draft Audit Report - Client\nScope: the period under audit\n")
}

func TestDecode_UnsupportedKind(t *testing.T) {
	_, err := Decode("poem", nil)
	assert.ErrorIs(t, err, ErrUnsupportedKind)
}

func TestDecode_MalformedContext(t *testing.T) {
	_, err := Decode("checklist", json.RawMessage(`{"client_type": 12}`))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnsupportedKind)
}

func TestGenerate_ValueVariants(t *testing.T) {
	resp, err := Generate(ChecklistRequest{ClientType: "GST"})
	require.NoError(t, err)
	assert.Len(t, resp.Items, 6)

	_, err = Generate(nil)
	assert.ErrorIs(t, err, ErrUnsupportedKind)
}
