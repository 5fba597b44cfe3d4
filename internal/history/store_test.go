package history

import (
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStore_AddAndGetRecent(t *testing.T) {
	store := newTestStore(t)

	entries := []Entry{
		{SessionID: "s1", Source: "people.csv", Predicate: "(Age >= 10)", RowCount: 100, FilteredCount: 40, Duration: 3 * time.Millisecond, Success: true},
		{SessionID: "s1", Source: "people.csv", Predicate: `(lower(Name) contains "anna")`, RowCount: 100, FilteredCount: 2, Duration: 2 * time.Millisecond, Success: true},
		{SessionID: "s1", Source: "people.csv", Predicate: "((", Success: false, ErrorMessage: "compile predicate: unexpected token"},
	}
	for _, e := range entries {
		if err := store.Add(e); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}

	recent, err := store.GetRecent(2)
	if err != nil {
		t.Fatalf("GetRecent: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(recent))
	}
	if recent[0].Predicate != "((" {
		t.Errorf("expected newest entry first, got %q", recent[0].Predicate)
	}
	if recent[0].Success {
		t.Error("expected failed entry to round-trip success=false")
	}
	if recent[1].FilteredCount != 2 {
		t.Errorf("expected filtered count 2, got %d", recent[1].FilteredCount)
	}
}

func TestStore_Clear(t *testing.T) {
	store := newTestStore(t)

	if err := store.Add(Entry{SessionID: "s1", Source: "x", Predicate: ""}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}

	recent, err := store.GetRecent(10)
	if err != nil {
		t.Fatalf("GetRecent: %v", err)
	}
	if len(recent) != 0 {
		t.Errorf("expected empty history, got %d entries", len(recent))
	}
}
