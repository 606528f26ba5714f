package store

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
)

// MemoryStore is an in-memory Store with optional JSONL snapshot
// persistence. With a path set, every mutation rewrites the snapshot so the
// store survives process restarts; the override set is small enough that a
// full rewrite stays cheap.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]json.RawMessage
	path string

	*Notifier
}

// snapshotLine is one persisted entry in the JSONL snapshot.
type snapshotLine struct {
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value"`
}

// NewMemoryStore creates an empty volatile store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data:     make(map[string]json.RawMessage),
		Notifier: NewNotifier(),
	}
}

// OpenMemoryStore creates a store backed by a JSONL snapshot file, loading
// any existing snapshot. Corrupt lines are skipped, not fatal.
func OpenMemoryStore(path string) (*MemoryStore, error) {
	s := NewMemoryStore()
	s.path = path

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil // No snapshot yet, not an error
		}
		return nil, fmt.Errorf("failed to open store snapshot: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	loaded := 0
	for scanner.Scan() {
		var line snapshotLine
		if err := json.Unmarshal(scanner.Bytes(), &line); err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Skipping invalid JSON line in store snapshot")
			continue
		}
		if _, err := ParseKey(line.Key); err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Skipping unparsable key in store snapshot")
			continue
		}
		s.data[line.Key] = line.Value
		loaded++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading store snapshot: %w", err)
	}

	log.Info().Str("path", path).Int("count", loaded).Msg("Loaded overrides from snapshot")
	return s, nil
}

func (s *MemoryStore) Get(key Key) (json.RawMessage, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.data[key.String()]
	return v, ok
}

func (s *MemoryStore) Set(key Key, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode value for %s: %w", key.String(), err)
	}

	s.mu.Lock()
	s.data[key.String()] = raw
	err = s.persistLocked()
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.Publish(key)
	return nil
}

func (s *MemoryStore) Remove(key Key) error {
	s.mu.Lock()
	_, existed := s.data[key.String()]
	delete(s.data, key.String())
	var err error
	if existed {
		err = s.persistLocked()
	}
	s.mu.Unlock()
	if err != nil {
		return err
	}

	if existed {
		s.Publish(key)
	}
	return nil
}

func (s *MemoryStore) Has(key Key) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.data[key.String()]
	return ok
}

func (s *MemoryStore) Keys(prefix string) []Key {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []Key
	for raw := range s.data {
		if !strings.HasPrefix(raw, prefix) {
			continue
		}
		key, err := ParseKey(raw)
		if err != nil {
			log.Warn().Err(err).Msg("Skipping unparsable stored key")
			continue
		}
		result = append(result, key)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].String() < result[j].String()
	})
	return result
}

func (s *MemoryStore) Close() error {
	s.CloseAll()
	return nil
}

// persistLocked rewrites the JSONL snapshot via an atomic rename. Caller
// holds the write lock.
func (s *MemoryStore) persistLocked() error {
	if s.path == "" {
		return nil
	}

	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	tmpPath := s.path + ".tmp"
	file, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("failed to create temp snapshot file: %w", err)
	}

	writer := bufio.NewWriter(file)
	encoder := json.NewEncoder(writer)
	for _, k := range keys {
		if err := encoder.Encode(snapshotLine{Key: k, Value: s.data[k]}); err != nil {
			file.Close()
			os.Remove(tmpPath)
			return fmt.Errorf("failed to encode snapshot line: %w", err)
		}
	}

	if err := writer.Flush(); err != nil {
		file.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to flush snapshot writer: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close snapshot file: %w", err)
	}

	// Atomic rename
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("failed to rename snapshot file: %w", err)
	}
	return nil
}
