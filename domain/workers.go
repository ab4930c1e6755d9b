package domain

import "context"

// EventDispatcher queues events produced by committed mutations and hands them
// to an EventBroadcaster off the request path.
type EventDispatcher interface {
	Start(ctx context.Context)

	// Send enqueues ev without blocking. It reports false when the event was dropped.
	Send(ev Event) bool
}
