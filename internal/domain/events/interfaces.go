package events

import "context"

// Repository provides persistence for the event log.
type Repository interface {
	Append(ctx context.Context, ev *Event) error
	List(ctx context.Context, opts ListOptions) ([]Event, error)
}

// Recorder records events emitted by mutating operations.
type Recorder interface {
	Record(ctx context.Context, ev Event)
}
