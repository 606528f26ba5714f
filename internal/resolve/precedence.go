package resolve

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"pireport/internal/store"
)

// First evaluates an ordered precedence chain: the first key that is
// present and decodes as T wins. A stored value that fails to decode is
// logged and treated as absent so resolution falls through to the next
// source instead of failing. This is the single fallback helper every
// override kind goes through; per-kind lookup logic must not diverge.
func First[T any](st store.Store, keys ...store.Key) (T, bool) {
	var zero T
	for _, key := range keys {
		raw, ok := st.Get(key)
		if !ok {
			continue
		}
		var value T
		if err := json.Unmarshal(raw, &value); err != nil {
			log.Warn().Err(err).Str("key", key.String()).Msg("Malformed stored override, falling through")
			continue
		}
		return value, true
	}
	return zero, false
}

// FirstOr is First with an explicit base default.
func FirstOr[T any](st store.Store, fallback T, keys ...store.Key) T {
	if value, ok := First[T](st, keys...); ok {
		return value
	}
	return fallback
}
