package remote

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pireport/internal/store"
)

func newTestStore(url string) *Store {
	return New(Config{
		BaseURL:    url,
		Namespace:  "test",
		UserID:     "station-1",
		Timeout:    2 * time.Second,
		RetryDelay: time.Millisecond,
	})
}

func TestStore_GetAbsentOn404(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	s := newTestStore(server.URL)
	if _, ok := s.Get(store.TitleKey("2026", "station-1", "PI1")); ok {
		t.Error("Get on 404 = present, want absent")
	}
}

func TestStore_SetThenGetUsesCache(t *testing.T) {
	var gets int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			gets++
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	s := newTestStore(server.URL)
	key := store.TitleKey("2026", "station-1", "PI1")
	if err := s.Set(key, "Custom Title"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	// The write primes the cache, so the read must not hit the backend.
	raw, ok := s.Get(key)
	if !ok {
		t.Fatal("Get after Set = absent, want present")
	}
	var title string
	if err := json.Unmarshal(raw, &title); err != nil {
		t.Fatalf("Unmarshal cached value: %v", err)
	}
	if title != "Custom Title" {
		t.Errorf("cached value = %q, want %q", title, "Custom Title")
	}
	if gets != 0 {
		t.Errorf("backend GETs after cached read = %d, want 0", gets)
	}
}

func TestStore_RetriesGatewayFailures(t *testing.T) {
	var attempts int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	s := newTestStore(server.URL)
	if err := s.Set(store.TitleKey("2026", "", "PI1"), "x"); err != nil {
		t.Fatalf("Set() after recovered gateway = %v, want nil", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestStore_FailsFastOnBackendCrash(t *testing.T) {
	var attempts int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	s := newTestStore(server.URL)
	if err := s.Set(store.TitleKey("2026", "", "PI1"), "x"); err == nil {
		t.Fatal("Set() against crashing backend = nil, want error")
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1 (no retry on 500)", attempts)
	}
}

func TestStore_KeysScan(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]any{"keys": []string{
			"accomplishment|2026|station-1|PI1|pi1_26_1|0",
			"not-a-key",
			"accomplishment|2026|station-1|PI1|pi1_26_1|1",
		}}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	s := newTestStore(server.URL)
	keys := s.Keys(store.AccomplishmentPrefix("2026", "station-1", "PI1"))
	if len(keys) != 2 {
		t.Fatalf("Keys() returned %d keys, want 2 (malformed entry skipped)", len(keys))
	}
	if keys[0].Month != 0 || keys[1].Month != 1 {
		t.Errorf("Keys() months = %d, %d, want 0, 1", keys[0].Month, keys[1].Month)
	}
}

func TestStore_Upload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/upload" {
			t.Errorf("upload path = %q, want /upload", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]string{"ref": "blob-42"})
	}))
	defer server.Close()

	s := newTestStore(server.URL)
	ref, err := s.Upload("report.pdf", "application/pdf", []byte("data"))
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if ref != "blob-42" {
		t.Errorf("Upload() ref = %q, want %q", ref, "blob-42")
	}
}

func TestStore_NotifiesOnWrite(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	s := newTestStore(server.URL)
	defer s.Close()

	sub := s.Subscribe()
	key := store.TitleKey("2026", "station-1", "PI1")
	if err := s.Set(key, "t"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	select {
	case got := <-sub.C:
		if got.String() != key.String() {
			t.Errorf("notified key = %s, want %s", got, key)
		}
	case <-time.After(time.Second):
		t.Fatal("no change notification after Set")
	}
}
