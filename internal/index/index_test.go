package index

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rotom-cli/rotom/internal/logging"
	"github.com/rotom-cli/rotom/internal/pokeapi"
)

// fakeCatalog serves a fixed entry list in pages and records traffic.
type fakeCatalog struct {
	entries    []pokeapi.ListItem
	countCalls int
	pageCalls  int
	failAtPage int // 1-based; 0 means never fail
}

func (f *fakeCatalog) Count(ctx context.Context) (int, error) {
	f.countCalls++
	return len(f.entries), nil
}

func (f *fakeCatalog) ListPage(ctx context.Context, limit, offset int) ([]pokeapi.ListItem, error) {
	f.pageCalls++
	if f.failAtPage > 0 && f.pageCalls >= f.failAtPage {
		return nil, errors.New("page fetch failed")
	}
	if offset >= len(f.entries) {
		return nil, nil
	}
	end := offset + limit
	if end > len(f.entries) {
		end = len(f.entries)
	}
	return f.entries[offset:end], nil
}

func testEntries(n int) []pokeapi.ListItem {
	items := make([]pokeapi.ListItem, 0, n)
	for i := 1; i <= n; i++ {
		items = append(items, pokeapi.ListItem{Name: fmt.Sprintf("mon-%03d", i), ID: i})
	}
	return items
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "names.json"), logging.NopLogger{})
}

func TestIndex_Lookup(t *testing.T) {
	ix := build([]Entry{{Name: "bulbasaur", ID: 1}, {Name: "ivysaur", ID: 2}})

	tests := []struct {
		name   string
		wantID int
		wantOK bool
	}{
		{"bulbasaur", 1, true},
		{"BULBASAUR", 1, true},
		{"  ivysaur  ", 2, true},
		{"venusaur", 0, false},
	}

	for _, tt := range tests {
		id, ok := ix.Lookup(tt.name)
		if id != tt.wantID || ok != tt.wantOK {
			t.Errorf("Lookup(%q) = (%d, %v), want (%d, %v)", tt.name, id, ok, tt.wantID, tt.wantOK)
		}
	}

	if ix.Len() != 2 {
		t.Errorf("Len() = %d, want 2", ix.Len())
	}
}

func TestLoader_FullLoad(t *testing.T) {
	cat := &fakeCatalog{entries: testEntries(25)}
	store := newTestStore(t)

	l := NewLoader(cat, store, WithPageSize(10))
	ix, err := l.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if ix.Len() != 25 {
		t.Errorf("Len() = %d, want 25", ix.Len())
	}
	if cat.pageCalls != 3 {
		t.Errorf("pageCalls = %d, want 3 pages of 10", cat.pageCalls)
	}
	if id, ok := ix.Lookup("mon-013"); !ok || id != 13 {
		t.Errorf("Lookup(mon-013) = (%d, %v), want (13, true)", id, ok)
	}

	// Names come back in catalog order.
	names := ix.Names()
	if names[0] != "mon-001" || names[24] != "mon-025" {
		t.Errorf("names not in catalog order: first=%q last=%q", names[0], names[24])
	}

	if store.Load() == nil {
		t.Error("successful load should persist a snapshot")
	}
}

func TestLoader_AdoptsFreshSnapshot(t *testing.T) {
	cat := &fakeCatalog{entries: testEntries(25)}
	store := newTestStore(t)

	// First load populates the snapshot.
	l := NewLoader(cat, store, WithPageSize(10))
	if _, err := l.Load(context.Background()); err != nil {
		t.Fatalf("first Load() error = %v", err)
	}

	// Second load must only check the count.
	cat2 := &fakeCatalog{entries: testEntries(25)}
	l2 := NewLoader(cat2, store, WithPageSize(10))
	ix, err := l2.Load(context.Background())
	if err != nil {
		t.Fatalf("second Load() error = %v", err)
	}

	if cat2.countCalls != 1 {
		t.Errorf("countCalls = %d, want exactly 1", cat2.countCalls)
	}
	if cat2.pageCalls != 0 {
		t.Errorf("pageCalls = %d, want 0 (snapshot adopted)", cat2.pageCalls)
	}
	if ix.Len() != 25 {
		t.Errorf("Len() = %d, want 25", ix.Len())
	}
	if id, ok := ix.Lookup("mon-007"); !ok || id != 7 {
		t.Errorf("Lookup(mon-007) = (%d, %v) after round-trip, want (7, true)", id, ok)
	}
}

func TestLoader_ReloadsWhenCountDiverges(t *testing.T) {
	store := newTestStore(t)

	l := NewLoader(&fakeCatalog{entries: testEntries(25)}, store, WithPageSize(10))
	if _, err := l.Load(context.Background()); err != nil {
		t.Fatalf("first Load() error = %v", err)
	}

	// The catalog grew; the snapshot no longer matches its count.
	cat := &fakeCatalog{entries: testEntries(30)}
	l2 := NewLoader(cat, store, WithPageSize(10))
	ix, err := l2.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cat.pageCalls == 0 {
		t.Error("diverged count should force a full reload")
	}
	if ix.Len() != 30 {
		t.Errorf("Len() = %d, want 30", ix.Len())
	}
}

func TestLoader_ReloadsWhenSnapshotExpired(t *testing.T) {
	store := newTestStore(t)

	l := NewLoader(&fakeCatalog{entries: testEntries(10)}, store)
	if _, err := l.Load(context.Background()); err != nil {
		t.Fatalf("first Load() error = %v", err)
	}

	cat := &fakeCatalog{entries: testEntries(10)}
	l2 := NewLoader(cat, store, WithTTL(time.Hour))
	l2.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	if _, err := l2.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cat.pageCalls == 0 {
		t.Error("expired snapshot should force a full reload")
	}
}

func TestLoader_FailureMidWalkLeavesSnapshot(t *testing.T) {
	store := newTestStore(t)

	l := NewLoader(&fakeCatalog{entries: testEntries(20)}, store, WithPageSize(10))
	if _, err := l.Load(context.Background()); err != nil {
		t.Fatalf("first Load() error = %v", err)
	}
	before := store.Load()
	if before == nil {
		t.Fatal("expected a snapshot after first load")
	}

	// Catalog grew, but page 2 of the reload fails.
	cat := &fakeCatalog{entries: testEntries(40), failAtPage: 2}
	l2 := NewLoader(cat, store, WithPageSize(10))
	if _, err := l2.Load(context.Background()); err == nil {
		t.Fatal("expected mid-walk failure to surface")
	}

	after := store.Load()
	if after == nil || len(after.Entries) != len(before.Entries) {
		t.Error("failed reload must leave the previous snapshot untouched")
	}
}

func TestLoader_Cancellation(t *testing.T) {
	cat := &fakeCatalog{entries: testEntries(20)}
	l := NewLoader(cat, newTestStore(t), WithPageSize(10))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := l.Load(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Load() with cancelled ctx = %v, want context.Canceled", err)
	}
}

func TestLoader_Rebuild(t *testing.T) {
	store := newTestStore(t)

	l := NewLoader(&fakeCatalog{entries: testEntries(10)}, store)
	if _, err := l.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// Rebuild ignores the fresh snapshot.
	cat := &fakeCatalog{entries: testEntries(10)}
	l2 := NewLoader(cat, store)
	if _, err := l2.Rebuild(context.Background()); err != nil {
		t.Fatalf("Rebuild() error = %v", err)
	}
	if cat.pageCalls == 0 {
		t.Error("Rebuild should page through the catalog even with a fresh snapshot")
	}
}

func TestStore_MissingAndCorrupt(t *testing.T) {
	dir := t.TempDir()

	s := NewStore(filepath.Join(dir, "absent.json"), logging.NopLogger{})
	if s.Load() != nil {
		t.Error("Load() of a missing file should return nil")
	}

	corruptPath := filepath.Join(dir, "corrupt.json")
	if err := os.WriteFile(corruptPath, []byte("{definitely not json"), 0600); err != nil {
		t.Fatal(err)
	}
	s2 := NewStore(corruptPath, logging.NopLogger{})
	if s2.Load() != nil {
		t.Error("Load() of a corrupt file should return nil, not fail")
	}
}

func TestStore_RoundTrip(t *testing.T) {
	s := newTestStore(t)

	entries := []Entry{{Name: "bulbasaur", ID: 1}, {Name: "ivysaur", ID: 2}}
	if err := s.Save(entries); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	snap := s.Load()
	if snap == nil {
		t.Fatal("Load() returned nil after Save")
	}
	if len(snap.Entries) != 2 || snap.Entries[0] != entries[0] || snap.Entries[1] != entries[1] {
		t.Errorf("entries = %+v, want %+v", snap.Entries, entries)
	}
	if snap.SavedAt.IsZero() {
		t.Error("SavedAt should be stamped")
	}
}
