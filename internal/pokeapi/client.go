// Package pokeapi is a typed client for the read-only Pokémon catalog
// API. All network access is funneled through a request throttle so the
// remote service never sees bursts.
package pokeapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/rotom-cli/rotom/internal/logging"
	"github.com/rotom-cli/rotom/pkg/throttle"
)

// DefaultBaseURL is the public catalog endpoint.
const DefaultBaseURL = "https://pokeapi.co/api/v2"

// Getter is the transport the client issues requests through.
// *throttle.Throttle satisfies it.
type Getter interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// Client wraps the catalog API with typed convenience methods.
type Client struct {
	baseURL   string
	transport Getter
	logger    logging.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the catalog endpoint (used in tests).
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

// WithLogger sets the diagnostics logger.
func WithLogger(l logging.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// NewClient creates a catalog client dispatching through transport.
func NewClient(transport Getter, opts ...Option) *Client {
	c := &Client{
		baseURL:   DefaultBaseURL,
		transport: transport,
		logger:    logging.NopLogger{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Count returns the total number of entities in the catalog.
func (c *Client) Count(ctx context.Context) (int, error) {
	var p page
	if err := c.getJSON(ctx, fmt.Sprintf("%s/pokemon?limit=1&offset=0", c.baseURL), &p); err != nil {
		return 0, fmt.Errorf("failed to fetch catalog count: %w", err)
	}
	return p.Count, nil
}

// ListPage returns one page of the catalog list with numeric ids parsed
// from the resource URLs. Entries whose URL carries no id are skipped.
func (c *Client) ListPage(ctx context.Context, limit, offset int) ([]ListItem, error) {
	var p page
	url := fmt.Sprintf("%s/pokemon?limit=%d&offset=%d", c.baseURL, limit, offset)
	if err := c.getJSON(ctx, url, &p); err != nil {
		return nil, fmt.Errorf("failed to fetch catalog page at offset %d: %w", offset, err)
	}

	items := make([]ListItem, 0, len(p.Results))
	for _, r := range p.Results {
		id := IDFromURL(r.URL)
		if id == 0 {
			c.logger.Warn("skipping catalog entry %q with unparseable url %q", r.Name, r.URL)
			continue
		}
		items = append(items, ListItem{Name: strings.ToLower(r.Name), ID: id})
	}
	return items, nil
}

// Pokemon fetches a base entity record by numeric id or lowercased name.
func (c *Client) Pokemon(ctx context.Context, idOrName string) (Pokemon, error) {
	var p Pokemon
	url := fmt.Sprintf("%s/pokemon/%s", c.baseURL, idOrName)
	if err := c.getJSON(ctx, url, &p); err != nil {
		return Pokemon{}, fmt.Errorf("failed to fetch pokemon %q: %w", idOrName, err)
	}
	return p, nil
}

// Species fetches species metadata by id.
func (c *Client) Species(ctx context.Context, id int) (Species, error) {
	var s Species
	url := fmt.Sprintf("%s/pokemon-species/%d", c.baseURL, id)
	if err := c.getJSON(ctx, url, &s); err != nil {
		return Species{}, fmt.Errorf("failed to fetch species %d: %w", id, err)
	}
	return s, nil
}

// EvolutionChain fetches an evolutionary lineage by chain id.
func (c *Client) EvolutionChain(ctx context.Context, id int) (EvolutionChain, error) {
	var e EvolutionChain
	url := fmt.Sprintf("%s/evolution-chain/%d", c.baseURL, id)
	if err := c.getJSON(ctx, url, &e); err != nil {
		return EvolutionChain{}, fmt.Errorf("failed to fetch evolution chain %d: %w", id, err)
	}
	return e, nil
}

func (c *Client) getJSON(ctx context.Context, url string, v any) error {
	c.logger.Debug("GET %s", url)

	body, err := c.transport.Get(ctx, url)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", url, err)
	}
	return nil
}

// IsNotFound reports whether err is a 404 from the catalog, which is
// how it answers lookups for names it does not know.
func IsNotFound(err error) bool {
	var statusErr *throttle.StatusError
	return errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound
}
