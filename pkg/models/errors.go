package models

import "errors"

var (
	// ErrInvalidIdentifier is returned when an external id reference is malformed.
	ErrInvalidIdentifier = errors.New("invalid id")

	// Not found errors.
	ErrClientNotFound   = errors.New("client not found")
	ErrWorkflowNotFound = errors.New("workflow not found")
	ErrStepNotFound     = errors.New("step not found")

	// ErrInvalidStatus is returned for a step status outside the known set.
	ErrInvalidStatus = errors.New("invalid step status")

	// ErrInvalidInput is returned when a required field is missing.
	ErrInvalidInput = errors.New("invalid input")
)
