package testsupport

import (
	"context"
	"testing"

	"tracksplit/internal/config"
	"tracksplit/internal/history"
)

// MustOpenHistory opens a history.Store for tests and registers cleanup.
func MustOpenHistory(t testing.TB, cfg *config.Config) *history.Store {
	t.Helper()

	store, err := history.Open(cfg)
	if err != nil {
		t.Fatalf("history.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// RecordEntry stores entry and fails the test on error.
func RecordEntry(t testing.TB, store *history.Store, entry history.Entry) history.Entry {
	t.Helper()

	saved, err := store.Record(context.Background(), entry)
	if err != nil {
		t.Fatalf("store.Record: %v", err)
	}
	return saved
}
