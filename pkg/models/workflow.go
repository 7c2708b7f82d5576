package models

import (
	"time"
)

// WorkflowVersion tags the template schema a workflow was generated from.
const WorkflowVersion = "v1"

// StepCategory groups steps by the kind of work involved. Advisory only.
type StepCategory string

const (
	CategoryDocuments    StepCategory = "documents"
	CategoryVerification StepCategory = "verification"
	CategoryAnalysis     StepCategory = "analysis"
	CategoryReporting    StepCategory = "reporting"
	CategorySignoff      StepCategory = "signoff"
)

// StepStatus represents the progress of a single workflow step
type StepStatus string

const (
	StepStatusTodo       StepStatus = "todo"
	StepStatusInProgress StepStatus = "in_progress"
	StepStatusBlocked    StepStatus = "blocked"
	StepStatusDone       StepStatus = "done"
)

// Valid reports whether s is one of the known step statuses.
func (s StepStatus) Valid() bool {
	switch s {
	case StepStatusTodo, StepStatusInProgress, StepStatusBlocked, StepStatusDone:
		return true
	}
	return false
}

// Workflow is the checklist generated for a client. It is a snapshot: later
// changes to the client never touch an existing workflow.
type Workflow struct {
	ID         string         `json:"id" bson:"_id" db:"id"`
	ClientID   string         `json:"client_id" bson:"client_id" db:"client_id"`
	ClientType string         `json:"client_type" bson:"client_type" db:"client_type"`
	FiscalYear *string        `json:"fiscal_year,omitempty" bson:"fiscal_year,omitempty" db:"fiscal_year"`
	Version    string         `json:"version" bson:"version" db:"version"`
	Steps      []WorkflowStep `json:"steps" bson:"steps" db:"steps"` // execution order
	CreatedAt  time.Time      `json:"created_at" bson:"created_at" db:"created_at"`
}

// WorkflowStep represents a single step in a workflow
type WorkflowStep struct {
	Key               string       `json:"key" bson:"key"`
	Title             string       `json:"title" bson:"title"`
	Description       *string      `json:"description,omitempty" bson:"description,omitempty"`
	Category          StepCategory `json:"category" bson:"category"`
	RequiredDocuments []string     `json:"required_documents" bson:"required_documents"`
	AssignedTo        *string      `json:"assigned_to,omitempty" bson:"assigned_to,omitempty"`
	DueDate           time.Time    `json:"due_date" bson:"due_date"`
	Status            StepStatus   `json:"status" bson:"status"`
	Dependencies      []string     `json:"dependencies" bson:"dependencies"`
	UpdatedAt         *time.Time   `json:"updated_at,omitempty" bson:"updated_at,omitempty"`
}

// Step returns the step with the given key and its index, or -1.
func (w *Workflow) Step(key string) (*WorkflowStep, int) {
	for i := range w.Steps {
		if w.Steps[i].Key == key {
			return &w.Steps[i], i
		}
	}
	return nil, -1
}

// Clone returns a deep copy of the workflow.
func (w *Workflow) Clone() *Workflow {
	cp := *w
	cp.FiscalYear = cloneString(w.FiscalYear)
	if w.Steps != nil {
		cp.Steps = make([]WorkflowStep, len(w.Steps))
		for i := range w.Steps {
			cp.Steps[i] = w.Steps[i].Clone()
		}
	}
	return &cp
}

// Clone returns a deep copy of the step.
func (s WorkflowStep) Clone() WorkflowStep {
	cp := s
	cp.Description = cloneString(s.Description)
	cp.AssignedTo = cloneString(s.AssignedTo)
	cp.RequiredDocuments = cloneStrings(s.RequiredDocuments)
	cp.Dependencies = cloneStrings(s.Dependencies)
	if s.UpdatedAt != nil {
		t := *s.UpdatedAt
		cp.UpdatedAt = &t
	}
	return cp
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
