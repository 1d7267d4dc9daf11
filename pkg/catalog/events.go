package catalog

import (
	"context"
	"log/slog"
)

// EventSink defines the interface for catalog mutation notifications.
// Sinks are invoked after the mutation has been persisted; a sink error is
// logged and never fails the operation.
type EventSink interface {
	// DocumentCreated is fired when a document is created
	DocumentCreated(ctx context.Context, kind Kind, doc Document) error

	// DocumentUpdated is fired when a document is updated
	DocumentUpdated(ctx context.Context, kind Kind, doc Document) error

	// DocumentDeleted is fired when a document is deleted
	DocumentDeleted(ctx context.Context, kind Kind, doc Document) error
}

// NoopEventSink is a no-operation implementation of EventSink
type NoopEventSink struct{}

// NewNoopEventSink creates a new no-operation event sink
func NewNoopEventSink() EventSink {
	return &NoopEventSink{}
}

// DocumentCreated does nothing and returns nil
func (n *NoopEventSink) DocumentCreated(ctx context.Context, kind Kind, doc Document) error {
	return nil
}

// DocumentUpdated does nothing and returns nil
func (n *NoopEventSink) DocumentUpdated(ctx context.Context, kind Kind, doc Document) error {
	return nil
}

// DocumentDeleted does nothing and returns nil
func (n *NoopEventSink) DocumentDeleted(ctx context.Context, kind Kind, doc Document) error {
	return nil
}

// LoggingEventSink is an event sink that logs mutations but takes no other
// action. Useful for development and audit trails.
type LoggingEventSink struct {
	logger *slog.Logger
}

// NewLoggingEventSink creates a new logging event sink
func NewLoggingEventSink(logger *slog.Logger) EventSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingEventSink{logger: logger}
}

// DocumentCreated logs the creation event
func (l *LoggingEventSink) DocumentCreated(ctx context.Context, kind Kind, doc Document) error {
	l.logger.Info("document created", "kind", kind, "id", doc.ID(), "slug", doc.Slug())
	return nil
}

// DocumentUpdated logs the update event
func (l *LoggingEventSink) DocumentUpdated(ctx context.Context, kind Kind, doc Document) error {
	l.logger.Info("document updated", "kind", kind, "id", doc.ID())
	return nil
}

// DocumentDeleted logs the deletion event
func (l *LoggingEventSink) DocumentDeleted(ctx context.Context, kind Kind, doc Document) error {
	l.logger.Info("document deleted", "kind", kind, "id", doc.ID())
	return nil
}
