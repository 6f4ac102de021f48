// Package pubsub is a small generic publish/subscribe broker. scrawl uses a
// single instance of it to decouple the log facade (internal/log) from its
// readers (the renderer's bounded log ring, internal/logring) — spec.md §9
// asks for the log ring to be "an explicit collaborator injected into the
// renderer and the log facade, not module-level state".
package pubsub

import (
	"context"
	"time"
)

// EventType represents the type of event being published. scrawl's only
// publisher (the log facade) ever emits CreatedEvent; the other kinds are
// kept so a future collaborator (e.g. the history log, internal/history)
// can reuse this broker for its own event kinds without a new package.
type EventType string

const (
	CreatedEvent EventType = "created"
	UpdatedEvent EventType = "updated"
	DeletedEvent EventType = "deleted"
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
