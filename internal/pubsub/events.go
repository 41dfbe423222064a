// Package pubsub provides a generic publish/subscribe event system.
package pubsub

import (
	"context"
	"time"
)

// EventType represents the type of event being published.
type EventType string

const (
	// BuildStartedEvent is published when a build run begins.
	BuildStartedEvent EventType = "build.started"
	// BuildFinishedEvent is published when a build run completes.
	BuildFinishedEvent EventType = "build.finished"
	// BuildFailedEvent is published when a build run aborts with an error.
	BuildFailedEvent EventType = "build.failed"
	// SourceChangedEvent is published by the watch loop on source changes.
	SourceChangedEvent EventType = "source.changed"
	// LogEntryEvent carries a formatted log line.
	LogEntryEvent EventType = "log.entry"
)

// Event represents a published event with a typed payload.
type Event[T any] struct {
	Type      EventType
	Payload   T
	Timestamp time.Time
}

// Subscriber provides a subscription channel for events.
type Subscriber[T any] interface {
	Subscribe(ctx context.Context) <-chan Event[T]
}

// Publisher allows publishing events with a typed payload.
type Publisher[T any] interface {
	Publish(eventType EventType, payload T)
}
