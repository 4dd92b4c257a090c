// Package dex assembles composite Pokédex records from the catalog
// API, caching every piece so repeated lookups stay off the network.
package dex

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/rotom-cli/rotom/internal/logging"
	"github.com/rotom-cli/rotom/internal/pokeapi"
	"github.com/rotom-cli/rotom/pkg/cache"
)

// EvolutionNode is one stage of an evolutionary lineage. The tree is
// shallow (depth rarely exceeds 3), so plain recursion is fine.
type EvolutionNode struct {
	Name      string          `json:"name"`
	EvolvesTo []EvolutionNode `json:"evolves_to,omitempty"`
}

// Record is the composite entity: base data plus species metadata plus
// evolutionary lineage. Species and Evolution are nil when the catalog
// has no such reference for the entity. A Record is immutable once
// assembled.
type Record struct {
	Pokemon   pokeapi.Pokemon
	Species   *pokeapi.Species
	Evolution *EvolutionNode
}

// Outcome is one settled item of a batch resolution.
type Outcome struct {
	ID     int
	Record *Record
	Err    error
}

// API is the catalog surface the service fetches from.
type API interface {
	Pokemon(ctx context.Context, idOrName string) (pokeapi.Pokemon, error)
	Species(ctx context.Context, id int) (pokeapi.Species, error)
	EvolutionChain(ctx context.Context, id int) (pokeapi.EvolutionChain, error)
}

// Service resolves composite records with cache-aware short-circuiting
// at every fetch step. Concurrent resolutions of the same cold key are
// coalesced into a single fetch.
type Service struct {
	api    API
	cache  *cache.Cache[any]
	flight singleflight.Group
	logger logging.Logger

	mu      sync.Mutex
	current int // id of the most recently resolved record
}

// Option configures a Service.
type Option func(*Service)

// WithCache replaces the default cache.
func WithCache(c *cache.Cache[any]) Option {
	return func(s *Service) {
		s.cache = c
	}
}

// WithLogger sets the diagnostics logger.
func WithLogger(l logging.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// NewService creates a Service over the given catalog API.
func NewService(api API, opts ...Option) *Service {
	s := &Service{
		api:    api,
		cache:  cache.New[any](64, 10*time.Minute),
		logger: logging.NopLogger{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Cache key namespaces. Composite records live under both their numeric
// id and their name key; species and evolution chains are cached
// separately because they are shared across forms.
func idKey(id int) string             { return strconv.Itoa(id) }
func nameKey(name string) string      { return "name_" + strings.ToLower(name) }
func speciesKey(id int) string        { return fmt.Sprintf("species_%d", id) }
func evolutionKey(chainID int) string { return fmt.Sprintf("evolution_%d", chainID) }

// recordKey maps a user query to its cache key: digits mean an id,
// anything else a lowercased name.
func recordKey(query string) string {
	if _, err := strconv.Atoi(query); err == nil {
		return query
	}
	return nameKey(query)
}

// Resolve returns the composite record for a numeric id or a free-text
// name. Cache hits return immediately; misses trigger one fetch per
// key no matter how many callers are waiting. A caller whose ctx ends
// while the fetch is in flight gets ctx.Err(), but the fetch itself
// runs to completion and still populates the cache for later callers.
func (s *Service) Resolve(ctx context.Context, query string) (*Record, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	key := recordKey(query)

	if v, ok := s.cache.Get(key); ok {
		rec := v.(*Record)
		s.setCurrent(rec.Pokemon.ID)
		return rec, nil
	}

	ch := s.flight.DoChan(key, func() (any, error) {
		return s.fetch(context.WithoutCancel(ctx), query)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		rec := res.Val.(*Record)
		s.setCurrent(rec.Pokemon.ID)
		return rec, nil
	}
}

// ResolveByID is a convenience wrapper over Resolve.
func (s *Service) ResolveByID(ctx context.Context, id int) (*Record, error) {
	return s.Resolve(ctx, strconv.Itoa(id))
}

// ResolveBatch settles every id independently: one failing item never
// fails the batch. Used for opportunistic preloading of neighboring
// entities, where partial success is expected.
func (s *Service) ResolveBatch(ctx context.Context, ids []int) []Outcome {
	outcomes := make([]Outcome, 0, len(ids))
	for _, id := range ids {
		rec, err := s.ResolveByID(ctx, id)
		outcomes = append(outcomes, Outcome{ID: id, Record: rec, Err: err})
	}
	return outcomes
}

// Current returns the id of the most recently resolved record, or 0.
func (s *Service) Current() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *Service) setCurrent(id int) {
	s.mu.Lock()
	s.current = id
	s.mu.Unlock()
}

// fetch performs the three dependent catalog calls and assembles the
// composite. Nothing partial is ever cached: the record is stored only
// after every required piece arrived.
func (s *Service) fetch(ctx context.Context, query string) (*Record, error) {
	p, err := s.api.Pokemon(ctx, query)
	if err != nil {
		return nil, err
	}

	sp, err := s.species(ctx, p)
	if err != nil {
		return nil, err
	}

	evo, err := s.evolution(ctx, sp)
	if err != nil {
		return nil, err
	}

	rec := &Record{Pokemon: p, Species: sp, Evolution: evo}

	// Cached under both keys so either one resolves the same composite.
	s.cache.Set(idKey(p.ID), rec)
	s.cache.Set(nameKey(p.Name), rec)
	return rec, nil
}

// species returns the species metadata for p, from cache when the same
// species was already fetched for another form. A missing species
// reference is not an error; the composite simply omits it.
func (s *Service) species(ctx context.Context, p pokeapi.Pokemon) (*pokeapi.Species, error) {
	sid := pokeapi.IDFromURL(p.Species.URL)
	if sid == 0 {
		s.logger.Debug("pokemon %s has no species reference", p.Name)
		return nil, nil
	}

	if v, ok := s.cache.Get(speciesKey(sid)); ok {
		return v.(*pokeapi.Species), nil
	}

	sp, err := s.api.Species(ctx, sid)
	if err != nil {
		return nil, err
	}
	s.cache.Set(speciesKey(sid), &sp)
	return &sp, nil
}

// evolution returns the lineage referenced by sp, from cache when the
// same chain was already fetched for a sibling species.
func (s *Service) evolution(ctx context.Context, sp *pokeapi.Species) (*EvolutionNode, error) {
	if sp == nil || sp.EvolutionChain == nil {
		return nil, nil
	}
	cid := pokeapi.IDFromURL(sp.EvolutionChain.URL)
	if cid == 0 {
		return nil, nil
	}

	if v, ok := s.cache.Get(evolutionKey(cid)); ok {
		return v.(*EvolutionNode), nil
	}

	chain, err := s.api.EvolutionChain(ctx, cid)
	if err != nil {
		return nil, err
	}
	node := buildEvolution(chain.Chain)
	s.cache.Set(evolutionKey(cid), &node)
	return &node, nil
}

func buildEvolution(link pokeapi.ChainLink) EvolutionNode {
	node := EvolutionNode{Name: link.Species.Name}
	for _, child := range link.EvolvesTo {
		node.EvolvesTo = append(node.EvolvesTo, buildEvolution(child))
	}
	return node
}
