package cart

import "context"

// Storage is the durable key-value boundary behind the cart. Load never
// fails on missing or malformed data: that degrades to an empty cart,
// matching how the storefront treats a wiped or corrupted saved cart.
// Errors are reserved for the backend itself being unreachable.
type Storage interface {
	Load(ctx context.Context, key string) (Items, error)
	Save(ctx context.Context, key string, items Items) error
	Ping(ctx context.Context) error
}

// StorageKey derives the durable-storage key for a browser scope.
func StorageKey(scope string) string {
	return "cart:" + scope
}
