// Package assist produces canned audit notes, checklists and report drafts
// from simple rule tables.
package assist

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Kind names a request variant.
type Kind string

const (
	KindNote           Kind = "note"
	KindAnomalySummary Kind = "anomaly_summary"
	KindChecklist      Kind = "checklist"
	KindReportDraft    Kind = "report_draft"
)

// ErrUnsupportedKind is returned for request kinds the assistant does not know.
var ErrUnsupportedKind = errors.New("unsupported kind")

// Request is implemented by every request variant.
type Request interface {
	Kind() Kind
}

// ClientRef is the client context a request may carry.
type ClientRef struct {
	Name       string `json:"name"`
	ClientType string `json:"client_type"`
}

// NoteRequest asks for a short audit note about a client.
type NoteRequest struct {
	Client ClientRef `json:"client"`
}

// AnomalySummaryRequest asks for a summary of the supplied anomalies.
type AnomalySummaryRequest struct {
	Anomalies []Anomaly `json:"anomalies"`
}

// Anomaly is a single flagged variance.
type Anomaly struct {
	Label    Text `json:"label"`
	Variance Text `json:"variance"`
	Account  Text `json:"account"`
}

// ChecklistRequest asks for an onboarding checklist for a client type.
type ChecklistRequest struct {
	ClientType string `json:"client_type"`
}

// ReportDraftRequest asks for a draft audit report.
type ReportDraftRequest struct {
	Client ClientRef `json:"client"`
	Period string    `json:"period"`
}

func (NoteRequest) Kind() Kind           { return KindNote }
func (AnomalySummaryRequest) Kind() Kind { return KindAnomalySummary }
func (ChecklistRequest) Kind() Kind      { return KindChecklist }
func (ReportDraftRequest) Kind() Kind    { return KindReportDraft }

// Response carries either free text or a list of items.
type Response struct {
	Content string   `json:"content,omitempty"`
	Items   []string `json:"items,omitempty"`
}

// Text accepts JSON strings, numbers and booleans and keeps their textual
// form. Variances arrive as numbers as often as strings.
type Text string

// UnmarshalJSON implements json.Unmarshaler.
func (t *Text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*t = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	}
	*t = Text(b)
	return nil
}

// Decode builds the typed request for kind from its JSON context payload.
func Decode(kind string, payload json.RawMessage) (Request, error) {
	var req Request
	switch Kind(kind) {
	case KindNote:
		req = &NoteRequest{}
	case KindAnomalySummary:
		req = &AnomalySummaryRequest{}
	case KindChecklist:
		req = &ChecklistRequest{}
	case KindReportDraft:
		req = &ReportDraftRequest{}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedKind, kind)
	}

	if len(bytes.TrimSpace(payload)) > 0 && !bytes.Equal(bytes.TrimSpace(payload), []byte("null")) {
		if err := json.Unmarshal(payload, req); err != nil {
			return nil, fmt.Errorf("decode %s context: %w", kind, err)
		}
	}
	return req, nil
}

// Generate produces the canned response for req.
func Generate(req Request) (Response, error) {
	switch r := req.(type) {
	case *NoteRequest:
		return note(*r), nil
	case NoteRequest:
		return note(r), nil
	case *AnomalySummaryRequest:
		return anomalySummary(*r), nil
	case AnomalySummaryRequest:
		return anomalySummary(r), nil
	case *ChecklistRequest:
		return checklist(*r), nil
	case ChecklistRequest:
		return checklist(r), nil
	case *ReportDraftRequest:
		return reportDraft(*r), nil
	case ReportDraftRequest:
		return reportDraft(r), nil
	case nil:
		return Response{}, fmt.Errorf("%w: empty request", ErrUnsupportedKind)
	default:
		return Response{}, fmt.Errorf("%w: %q", ErrUnsupportedKind, req.Kind())
	}
}

func note(r NoteRequest) Response {
	return Response{Content: fmt.Sprintf(
		"Audit Note for %s (Type: %s):\n"+
			"- Reviewed submitted documents.\n"+
			"- Pending confirmations from vendors and bank reconciliation.\n"+
			"- Next step: variance analysis and draft preparation.",
		or(r.Client.Name, "Client"), or(r.Client.ClientType, "N/A"),
	)}
}

func anomalySummary(r AnomalySummaryRequest) Response {
	lines := []string{"Anomaly Summary:"}
	for _, a := range r.Anomalies {
		lines = append(lines, fmt.Sprintf("- %s: variance %s on %s",
			or(string(a.Label), "Issue"), or(string(a.Variance), "N/A"), or(string(a.Account), "account")))
	}
	if len(r.Anomalies) == 0 {
		lines = append(lines, "- No material anomalies detected based on supplied data.")
	}
	return Response{Content: strings.Join(lines, "\n")}
}

var (
	baseChecklist = []string{
		"Engagement letter signed",
		"KYC and onboarding completed",
		"Trial balance received",
	}
	gstChecklist = []string{
		"GSTR-1, 3B, 2B downloaded",
		"Sales vs GSTR-1 reconciliation",
		"ITC eligibility review",
	}
)

func checklist(r ChecklistRequest) Response {
	items := append([]string{}, baseChecklist...)
	if strings.Contains(strings.ToLower(r.ClientType), "gst") {
		items = append(items, gstChecklist...)
	}
	return Response{Items: items}
}

func reportDraft(r ReportDraftRequest) Response {
	return Response{Content: fmt.Sprintf(
		"Draft Audit Report - %s\n"+
			"Scope: %s\n"+
			"Methodology: Performed ledger walkthroughs, analytical procedures, and sampling.\n"+
			"Observations: Pending sign-offs and minor variances noted.\n"+
			"Conclusion: Subject to completion of pending procedures, no material misstatements observed.",
		or(r.Client.Name, "Client"), or(r.Period, "the period under audit"),
	)}
}

func or(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
