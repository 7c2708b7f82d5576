// Package risk scores clients by missing paperwork and overdue work.
package risk

import (
	"time"

	"auditflow/backend/pkg/models"
)

// Level buckets a risk score.
type Level string

const (
	LevelLow    Level = "low"
	LevelMedium Level = "medium"
	LevelHigh   Level = "high"
)

const (
	baseScore          = 50
	maxScore           = 100
	expectedDocuments  = 5
	missingDocPenalty  = 10
	overdueStepPenalty = 15
	highThreshold      = 85
	mediumThreshold    = 70
)

// Assessment is the scored result for a single client.
type Assessment struct {
	Score              int   `json:"risk_score"`
	Level              Level `json:"risk_level"`
	MissingDocsPenalty int   `json:"missing_docs_penalty"`
	OverduePenalty     int   `json:"overdue_penalty"`
	OverdueSteps       int   `json:"overdue_steps"`
}

// Assess scores a client from its document count and every step of every
// workflow generated for it. A step is overdue when its due date is before
// now and it is not done.
func Assess(documentCount int, workflows []*models.Workflow, now time.Time) Assessment {
	overdue := 0
	for _, wf := range workflows {
		if wf == nil {
			continue
		}
		for _, s := range wf.Steps {
			if IsOverdue(s, now) {
				overdue++
			}
		}
	}
	return Score(documentCount, overdue)
}

// Score applies the scoring rules to already counted inputs.
func Score(documentCount, overdueSteps int) Assessment {
	missing := max(0, expectedDocuments-documentCount) * missingDocPenalty
	overdue := overdueSteps * overdueStepPenalty
	score := min(maxScore, baseScore+missing+overdue)
	return Assessment{
		Score:              score,
		Level:              LevelFor(score),
		MissingDocsPenalty: missing,
		OverduePenalty:     overdue,
		OverdueSteps:       overdueSteps,
	}
}

// LevelFor maps a score to its level.
func LevelFor(score int) Level {
	switch {
	case score >= highThreshold:
		return LevelHigh
	case score >= mediumThreshold:
		return LevelMedium
	default:
		return LevelLow
	}
}

// IsOverdue reports whether the step is past due and unfinished. Steps
// without a due date are never overdue.
func IsOverdue(s models.WorkflowStep, now time.Time) bool {
	if s.DueDate.IsZero() {
		return false
	}
	return s.DueDate.Before(now) && s.Status != models.StepStatusDone
}
