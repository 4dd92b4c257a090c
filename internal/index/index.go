// Package index maintains the catalog name index: every known name in
// catalog order plus a name→id map, loaded once and persisted locally
// with a TTL so later runs skip the full remote walk.
package index

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rotom-cli/rotom/internal/logging"
	"github.com/rotom-cli/rotom/internal/pokeapi"
)

// Entry is one name/id pair. Names are stored lowercased everywhere so
// lookups are case-insensitive.
type Entry struct {
	Name string `json:"name"`
	ID   int    `json:"id"`
}

// Index is the immutable in-memory name index. It is only ever replaced
// wholesale, never mutated in place.
type Index struct {
	names []string
	ids   map[string]int
}

func build(entries []Entry) *Index {
	ix := &Index{
		names: make([]string, 0, len(entries)),
		ids:   make(map[string]int, len(entries)),
	}
	for _, e := range entries {
		ix.names = append(ix.names, e.Name)
		ix.ids[e.Name] = e.ID
	}
	return ix
}

// Len returns the number of indexed names.
func (ix *Index) Len() int {
	return len(ix.names)
}

// Names returns every known name in catalog order. Callers must not
// modify the returned slice.
func (ix *Index) Names() []string {
	return ix.names
}

// Lookup returns the id for a name, case-insensitively.
func (ix *Index) Lookup(name string) (int, bool) {
	id, ok := ix.ids[strings.ToLower(strings.TrimSpace(name))]
	return id, ok
}

// Catalog is the remote side the loader pages through.
type Catalog interface {
	Count(ctx context.Context) (int, error)
	ListPage(ctx context.Context, limit, offset int) ([]pokeapi.ListItem, error)
}

// Loader builds an Index, preferring a fresh local snapshot over a full
// remote walk.
type Loader struct {
	catalog  Catalog
	store    *Store
	ttl      time.Duration
	pageSize int
	logger   logging.Logger

	now func() time.Time
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithTTL sets the maximum snapshot age before a full reload.
func WithTTL(ttl time.Duration) LoaderOption {
	return func(l *Loader) {
		l.ttl = ttl
	}
}

// WithPageSize sets the list page size for full reloads.
func WithPageSize(n int) LoaderOption {
	return func(l *Loader) {
		l.pageSize = n
	}
}

// WithLogger sets the diagnostics logger.
func WithLogger(logger logging.Logger) LoaderOption {
	return func(l *Loader) {
		l.logger = logger
	}
}

// NewLoader creates a Loader over the given catalog and snapshot store.
func NewLoader(catalog Catalog, store *Store, opts ...LoaderOption) *Loader {
	l := &Loader{
		catalog:  catalog,
		store:    store,
		ttl:      7 * 24 * time.Hour,
		pageSize: 200,
		logger:   logging.NopLogger{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load returns the name index. It asks the catalog for its entry count;
// if the persisted snapshot matches that count and is within the TTL it
// is adopted with no further network traffic. Otherwise the catalog is
// paged through in order and, only after every page succeeded, the new
// index replaces the snapshot. A failure mid-walk leaves the previous
// snapshot untouched.
func (l *Loader) Load(ctx context.Context) (*Index, error) {
	count, err := l.catalog.Count(ctx)
	if err != nil {
		return nil, err
	}

	if snap := l.store.Load(); snap != nil {
		age := l.now().Sub(snap.SavedAt)
		if len(snap.Entries) == count && age <= l.ttl {
			l.logger.Debug("adopting index snapshot: %d names, age %s", count, age)
			return build(snap.Entries), nil
		}
		l.logger.Debug("snapshot stale (have %d want %d, age %s), reloading", len(snap.Entries), count, age)
	}

	return l.reload(ctx, count)
}

// Rebuild forces a full remote walk, ignoring any snapshot.
func (l *Loader) Rebuild(ctx context.Context) (*Index, error) {
	count, err := l.catalog.Count(ctx)
	if err != nil {
		return nil, err
	}
	return l.reload(ctx, count)
}

func (l *Loader) reload(ctx context.Context, count int) (*Index, error) {
	entries := make([]Entry, 0, count)

	for offset := 0; offset < count; offset += l.pageSize {
		// Pages are fetched in order; a superseding operation cancels
		// the walk here, between pages.
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		items, err := l.catalog.ListPage(ctx, l.pageSize, offset)
		if err != nil {
			return nil, fmt.Errorf("index load failed at offset %d: %w", offset, err)
		}
		if len(items) == 0 {
			break
		}
		for _, it := range items {
			entries = append(entries, Entry{Name: it.Name, ID: it.ID})
		}
	}

	ix := build(entries)
	l.logger.Info("loaded %d catalog names", ix.Len())

	// The snapshot is advisory; failing to write it is not a load
	// failure.
	if err := l.store.Save(entries); err != nil {
		l.logger.Warn("failed to persist index snapshot: %v", err)
	}
	return ix, nil
}
