// Package pubsub provides a generic publish/subscribe event system used to
// stream elaboration progress and recorded annotations to interested passes.
package pubsub

import (
	"context"
	"time"
)

// EventType represents the type of event being published.
type EventType string

const (
	// AnnotationRecorded fires each time the recorder accepts an annotation.
	AnnotationRecorded EventType = "annotation_recorded"
	// ElaborationStarted fires when a circuit build begins.
	ElaborationStarted EventType = "elaboration_started"
	// ElaborationFinished fires when a circuit build completes.
	ElaborationFinished EventType = "elaboration_finished"
	// NetlistReloaded fires when watch mode re-reads a changed netlist.
	NetlistReloaded EventType = "netlist_reloaded"
	// LogEntry fires for each formatted log line when log streaming is on.
	LogEntry EventType = "log_entry"
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
