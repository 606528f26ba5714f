package store

import "encoding/json"

// Store is the scoped key-value contract every backend implements. It is the
// single source of truth for overrides; resolvers recompute views from it on
// demand rather than maintaining a separate invalidation layer.
//
// Writes must be visible to readers in the same process immediately.
// Cross-process visibility is best-effort via the change notification
// carried by Subscribe.
type Store interface {
	// Get returns the raw JSON value for key, or ok=false when absent.
	// Backend read failures are treated as absent so that resolution can
	// fall through its precedence chain instead of failing.
	Get(key Key) (json.RawMessage, bool)

	// Set marshals value to JSON and overwrites key. Last write wins.
	Set(key Key, value any) error

	// Remove deletes key. Removing an absent key is not an error.
	Remove(key Key) error

	// Has reports whether key is present.
	Has(key Key) bool

	// Keys returns every stored key whose serialized form starts with
	// prefix. Keys that fail to parse are skipped.
	Keys(prefix string) []Key

	// Subscribe registers a change listener. Delivery is best-effort:
	// slow listeners may miss notifications.
	Subscribe() *Subscription

	// Unsubscribe detaches a listener and closes its channel.
	Unsubscribe(sub *Subscription)

	Close() error
}
