package activity

import "context"

// Repository reads persisted notifications.
type Repository interface {
	List(ctx context.Context, opts ListOptions) ([]Entry, error)
}

// Sink receives notifications after the operation that produced them commits.
type Sink interface {
	Append(entries ...Entry)
}
