// Package events defines the publish side of orchestrator progress and
// warning notifications, grounded in the teacher's event.Bus abstraction
// (pkg/event/bus.go) over Kafka/Redpanda.
package events

import "context"

// Kind distinguishes the two notification shapes a run emits.
type Kind string

const (
	KindProgress Kind = "progress"
	KindWarning  Kind = "warning"
)

// Envelope is one published notification.
type Envelope struct {
	RunID     string
	Kind      Kind
	State     string // orchestrator.State, as a string to avoid an import cycle
	Percent   int
	Message   string
	Timestamp int64 // unix nanos
}

// Bus abstracts the transport a caller wants orchestrator notifications
// published over.
type Bus interface {
	Publish(ctx context.Context, env Envelope) error
	Close() error
}
