// Package remote is a store.Store backed by a remote key-value endpoint.
// It is drop-in substitutable for the local backends: the resolution
// algorithm never changes, only where the overrides live. Failures surface
// as absent values on the read path and as recoverable errors on the write
// path; nothing here blocks local resolution indefinitely.
package remote

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"pireport/internal/store"
)

// Config holds the connection settings for the remote override service.
type Config struct {
	BaseURL string
	Token   string
	// Namespace partitions key spaces between deployments.
	Namespace string
	// UserID identifies the acting unit to the backend.
	UserID string

	Timeout    time.Duration
	RetryDelay time.Duration
}

const (
	maxAttempts = 3
	cacheTTL    = 30 * time.Second
)

// Store implements store.Store over HTTP GET/POST against a key-value
// endpoint plus an upload endpoint for file attachments.
type Store struct {
	cfg        Config
	httpClient *http.Client

	// Session cache, invalidated per key on write so reads in the same
	// process always see their own writes.
	cache      map[string]*cacheEntry
	cacheMutex sync.RWMutex

	*store.Notifier
}

type cacheEntry struct {
	Value      json.RawMessage
	Expiration time.Time
}

type kvEnvelope struct {
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value,omitempty"`
}

// New creates a remote-backed store.
func New(cfg Config) *Store {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.RetryDelay == 0 {
		cfg.RetryDelay = 500 * time.Millisecond
	}
	return &Store{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		cache:      make(map[string]*cacheEntry),
		Notifier:   store.NewNotifier(),
	}
}

func (s *Store) Get(key store.Key) (json.RawMessage, bool) {
	raw := key.String()
	if value, ok := s.getFromCache(raw); ok {
		return value, true
	}

	params := url.Values{}
	params.Set("ns", s.cfg.Namespace)
	params.Set("user", s.cfg.UserID)
	params.Set("year", key.Year)
	params.Set("key", raw)

	body, status, err := s.do(http.MethodGet, "/kv?"+params.Encode(), nil)
	if err != nil {
		log.Warn().Err(err).Str("key", raw).Msg("Remote read failed, treating as absent")
		return nil, false
	}
	if status == http.StatusNotFound {
		return nil, false
	}

	var envelope kvEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		log.Warn().Err(err).Str("key", raw).Msg("Malformed remote response, treating as absent")
		return nil, false
	}
	if len(envelope.Value) == 0 {
		return nil, false
	}

	s.addToCache(raw, envelope.Value)
	return envelope.Value, true
}

func (s *Store) Set(key store.Key, value any) error {
	encoded, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode value for %s: %w", key.String(), err)
	}

	payload, _ := json.Marshal(kvEnvelope{Key: key.String(), Value: encoded})
	if _, _, err := s.do(http.MethodPost, "/kv", payload); err != nil {
		return fmt.Errorf("remote write failed for %s: %w", key.String(), err)
	}

	s.addToCache(key.String(), encoded)
	s.Publish(key)
	return nil
}

func (s *Store) Remove(key store.Key) error {
	payload, _ := json.Marshal(kvEnvelope{Key: key.String()})
	if _, _, err := s.do(http.MethodPost, "/kv/remove", payload); err != nil {
		return fmt.Errorf("remote remove failed for %s: %w", key.String(), err)
	}

	s.dropFromCache(key.String())
	s.Publish(key)
	return nil
}

func (s *Store) Has(key store.Key) bool {
	_, ok := s.Get(key)
	return ok
}

func (s *Store) Keys(prefix string) []store.Key {
	params := url.Values{}
	params.Set("ns", s.cfg.Namespace)
	params.Set("user", s.cfg.UserID)
	params.Set("prefix", prefix)

	body, status, err := s.do(http.MethodGet, "/kv/scan?"+params.Encode(), nil)
	if err != nil || status == http.StatusNotFound {
		if err != nil {
			log.Warn().Err(err).Str("prefix", prefix).Msg("Remote key scan failed")
		}
		return nil
	}

	var scan struct {
		Keys []string `json:"keys"`
	}
	if err := json.Unmarshal(body, &scan); err != nil {
		log.Warn().Err(err).Str("prefix", prefix).Msg("Malformed remote scan response")
		return nil
	}

	var result []store.Key
	for _, raw := range scan.Keys {
		key, err := store.ParseKey(raw)
		if err != nil {
			log.Warn().Err(err).Msg("Skipping unparsable remote key")
			continue
		}
		result = append(result, key)
	}
	return result
}

// Upload pushes one attachment to the upload endpoint and returns the
// storage reference the backend assigned.
func (s *Store) Upload(name, contentType string, data []byte) (string, error) {
	payload, _ := json.Marshal(map[string]any{
		"ns":           s.cfg.Namespace,
		"user":         s.cfg.UserID,
		"name":         name,
		"content_type": contentType,
		"data":         data, // base64 via encoding/json
	})

	body, _, err := s.do(http.MethodPost, "/upload", payload)
	if err != nil {
		return "", fmt.Errorf("upload of %s failed: %w", name, err)
	}

	var result struct {
		Ref string `json:"ref"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("malformed upload response for %s: %w", name, err)
	}
	return result.Ref, nil
}

func (s *Store) Close() error {
	s.CloseAll()
	return nil
}

// do issues one request with retry. Transient gateway failures (502/504)
// and transport errors back off and retry; a backend logic crash (500)
// fails fast so a broken deployment is not hammered.
func (s *Store) do(method, path string, payload []byte) ([]byte, int, error) {
	var lastErr error
	delay := s.cfg.RetryDelay

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			log.Debug().Int("attempt", attempt).Str("path", path).Msg("Retrying remote request")
			time.Sleep(delay)
			delay *= 2
		}

		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}
		req, err := http.NewRequest(method, s.cfg.BaseURL+path, reader)
		if err != nil {
			return nil, 0, err
		}
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if s.cfg.Token != "" {
			req.Header.Set("Authorization", "Bearer "+s.cfg.Token)
		}

		resp, err := s.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			lastErr = readErr
			continue
		}

		switch resp.StatusCode {
		case http.StatusOK, http.StatusNotFound:
			return body, resp.StatusCode, nil
		case http.StatusBadGateway, http.StatusGatewayTimeout:
			lastErr = fmt.Errorf("remote gateway returned status %d", resp.StatusCode)
			continue
		case http.StatusInternalServerError:
			// Distinguished backend crash: retrying cannot help.
			return nil, resp.StatusCode, fmt.Errorf("remote backend crashed (500)")
		case http.StatusUnauthorized, http.StatusForbidden:
			return nil, resp.StatusCode, fmt.Errorf("remote authentication failed (%d)", resp.StatusCode)
		default:
			return nil, resp.StatusCode, fmt.Errorf("remote returned status %d", resp.StatusCode)
		}
	}
	return nil, 0, fmt.Errorf("remote request failed after %d attempts: %w", maxAttempts, lastErr)
}

func (s *Store) getFromCache(key string) (json.RawMessage, bool) {
	s.cacheMutex.RLock()
	defer s.cacheMutex.RUnlock()

	entry, ok := s.cache[key]
	if !ok || time.Now().After(entry.Expiration) {
		return nil, false
	}
	return entry.Value, true
}

func (s *Store) addToCache(key string, value json.RawMessage) {
	s.cacheMutex.Lock()
	defer s.cacheMutex.Unlock()

	s.cache[key] = &cacheEntry{Value: value, Expiration: time.Now().Add(cacheTTL)}
}

func (s *Store) dropFromCache(key string) {
	s.cacheMutex.Lock()
	defer s.cacheMutex.Unlock()

	delete(s.cache, key)
}
