// Package services implements the AuditFlow use cases on top of the
// repository layer: client registry, workflow generation and status
// tracking, the document and signature vaults, and risk prediction.
package services

import (
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("auditflow/backend/internal/services")

// Logger defines the logging interface compatible with the application logger.
type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Recorder receives domain events worth counting.
type Recorder interface {
	RecordWorkflowGenerated(family string)
	RecordStepUpdate(status string)
}

type nopRecorder struct{}

func (nopRecorder) RecordWorkflowGenerated(string) {}
func (nopRecorder) RecordStepUpdate(string)        {}
