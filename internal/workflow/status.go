package workflow

import (
	"fmt"
	"time"

	"auditflow/backend/pkg/models"
)

// ParseStatus validates a status received from a caller.
func ParseStatus(raw string) (models.StepStatus, error) {
	s := models.StepStatus(raw)
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", models.ErrInvalidStatus, raw)
	}
	return s, nil
}

// UpdateStepStatus returns a copy of wf in which the step identified by key
// has the given status and an updated_at of at. No other step or field
// changes. wf itself is never modified, so on ErrStepNotFound the caller
// still holds the untouched original.
func UpdateStepStatus(wf *models.Workflow, key string, status models.StepStatus, at time.Time) (*models.Workflow, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", models.ErrInvalidStatus, status)
	}
	if _, idx := wf.Step(key); idx < 0 {
		return nil, fmt.Errorf("%w: %q", models.ErrStepNotFound, key)
	}

	updated := wf.Clone()
	step, _ := updated.Step(key)
	ts := at.UTC()
	step.Status = status
	step.UpdatedAt = &ts
	return updated, nil
}

// CheckDependencies verifies that step keys are unique and that every
// dependency names a step appearing earlier in the list.
func CheckDependencies(steps []models.WorkflowStep) error {
	seen := make(map[string]struct{}, len(steps))
	for _, s := range steps {
		for _, dep := range s.Dependencies {
			if _, ok := seen[dep]; !ok {
				return fmt.Errorf("step %q depends on %q which is not an earlier step", s.Key, dep)
			}
		}
		if _, dup := seen[s.Key]; dup {
			return fmt.Errorf("duplicate step key %q", s.Key)
		}
		seen[s.Key] = struct{}{}
	}
	return nil
}
