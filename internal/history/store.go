// Package history persists the scene collection across sessions. The durable
// layout is exactly the serialized scene collection: one row per scene under
// a fixed namespace, with the scene itself as a JSON payload. Load failures
// are never fatal; the studio continues with an empty in-memory history.
package history

import (
	"context"

	"github.com/artiestudio/artie/internal/scene"
)

// Namespace keys all studio history rows. Kept stable so old databases keep
// loading across releases.
const Namespace = "artie-ads-history"

// Store is the persistence contract. LoadAll returns the collection in
// creation order; SaveAll replaces the namespace's rows wholesale.
type Store interface {
	LoadAll(ctx context.Context) ([]scene.Scene, error)
	SaveAll(ctx context.Context, scenes []scene.Scene) error
	Close() error
}
