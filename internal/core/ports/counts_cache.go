package ports

import "context"

// CountsCache fronts the per-video annotation count aggregation. Keys are
// scoped by the requesting user ("" = the admin all-users view). A cache
// miss returns (nil, false, nil).
type CountsCache interface {
	Get(ctx context.Context, userID string) (map[string]int64, bool, error)
	Set(ctx context.Context, userID string, counts map[string]int64) error
	// Invalidate drops every cached counts view. Called after any
	// annotation mutation; the admin view and the mutating user's view are
	// both stale, and per-key invalidation buys nothing at this scale.
	Invalidate(ctx context.Context) error
}
