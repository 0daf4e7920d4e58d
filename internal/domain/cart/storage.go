package cart

import (
	"context"

	"github.com/storefront/backend/internal/domain/shared"
)

// ErrCartNotFound is returned by Storage when nothing is stored under a key
var ErrCartNotFound = shared.NewDomainError("CART_NOT_FOUND", "No stored cart")

// Storage keeps the serialized line list of a cart. Keys have the form
// <namespace>:<sessionID>.
type Storage interface {
	// Load returns the stored payload, or ErrCartNotFound
	Load(ctx context.Context, key string) ([]byte, error)

	// Save replaces the stored payload
	Save(ctx context.Context, key string, payload []byte) error
}

// StorageKey builds the storage key for a session
func StorageKey(namespace, sessionID string) string {
	return namespace + ":" + sessionID
}
