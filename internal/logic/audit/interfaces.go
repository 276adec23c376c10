package audit

import "context"

// Repository is the port for durable audit storage.
// Implementations persist the whole capped log under LogKey.
type Repository interface {
	Load(ctx context.Context) ([]Entry, error)
	// Update replaces the stored entries with apply(stored) as one atomic step,
	// so no other writer or Clear can land between the read and the write.
	Update(ctx context.Context, apply func(entries []Entry) []Entry) error
	Clear(ctx context.Context) error
}
