package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/rotom-cli/rotom/internal/dex"
	"github.com/rotom-cli/rotom/internal/index"
	"github.com/rotom-cli/rotom/internal/logging"
	"github.com/rotom-cli/rotom/internal/pokeapi"
	"github.com/rotom-cli/rotom/internal/ui"
	"github.com/rotom-cli/rotom/pkg/cache"
	"github.com/rotom-cli/rotom/pkg/throttle"
	"github.com/rotom-cli/rotom/pkg/timeutil"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// appContextKey is the context key for the App instance.
type appContextKey struct{}

// Config holds the resolved runtime configuration.
type Config struct {
	BaseURL      string
	OutputFormat string
	Language     string
	CacheSize    int
	CacheTTL     time.Duration
	MinInterval  time.Duration
	IndexTTL     time.Duration
	IndexFile    string
	PageSize     int
	Verbose      bool
	NoColor      bool
	Quiet        bool
}

// App holds the application dependencies that can be injected for testing.
type App struct {
	Config   Config
	Render   *ui.Renderer
	Client   *pokeapi.Client
	Service  *dex.Service
	Loader   *index.Loader
	Store    *index.Store
	throttle *throttle.Throttle
}

// loadConfig resolves the runtime configuration from flags and viper.
func loadConfig() (Config, error) {
	cfg := Config{
		BaseURL:      viper.GetString("base_url"),
		OutputFormat: getOutputFormat(),
		Language:     getLanguage(),
		CacheSize:    viper.GetInt("cache_size"),
		IndexFile:    viper.GetString("index_file"),
		PageSize:     viper.GetInt("page_size"),
		Verbose:      IsVerbose(),
		NoColor:      noColor,
		Quiet:        quiet,
	}
	if cfg.IndexFile == "" {
		cfg.IndexFile = index.DefaultPath()
	}

	var err error
	for _, d := range []struct {
		key  string
		dest *time.Duration
	}{
		{"cache_ttl", &cfg.CacheTTL},
		{"min_interval", &cfg.MinInterval},
		{"index_ttl", &cfg.IndexTTL},
	} {
		*d.dest, err = timeutil.ParseDuration(viper.GetString(d.key))
		if err != nil {
			return cfg, fmt.Errorf("invalid %s: %w", d.key, err)
		}
	}
	return cfg, nil
}

// NewApp wires the full dependency chain from the resolved config:
// throttle, catalog client, cache, resolver service and index loader.
func NewApp() (*App, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	logger := logging.Default()
	if cfg.Verbose {
		logger.SetLevel(logging.LevelDebug)
	}

	thr := throttle.New(cfg.MinInterval)
	client := pokeapi.NewClient(thr,
		pokeapi.WithBaseURL(cfg.BaseURL),
		pokeapi.WithLogger(logger),
	)
	service := dex.NewService(client,
		dex.WithCache(cache.New[any](cfg.CacheSize, cfg.CacheTTL)),
		dex.WithLogger(logger),
	)
	store := index.NewStore(cfg.IndexFile, logger)
	loader := index.NewLoader(client, store,
		index.WithTTL(cfg.IndexTTL),
		index.WithPageSize(cfg.PageSize),
		index.WithLogger(logger),
	)

	return &App{
		Config:   cfg,
		Render:   render,
		Client:   client,
		Service:  service,
		Loader:   loader,
		Store:    store,
		throttle: thr,
	}, nil
}

// NewAppWithDeps creates an App with explicit dependencies.
// This is primarily used for testing.
func NewAppWithDeps(cfg Config, renderer *ui.Renderer, service *dex.Service, loader *index.Loader, store *index.Store) *App {
	return &App{
		Config:  cfg,
		Render:  renderer,
		Service: service,
		Loader:  loader,
		Store:   store,
	}
}

// Close releases the request pipeline.
func (a *App) Close() {
	if a.throttle != nil {
		a.throttle.Close()
	}
}

// GetApp retrieves the App from the command context, building a default
// one when none was injected.
func GetApp(cmd *cobra.Command) (*App, error) {
	if app, ok := cmd.Context().Value(appContextKey{}).(*App); ok {
		return app, nil
	}
	return NewApp()
}

// SetApp stores the App in the context for a command.
func SetApp(ctx context.Context, app *App) context.Context {
	return context.WithValue(ctx, appContextKey{}, app)
}

// Debugf prints a debug message if verbose mode is enabled.
func (a *App) Debugf(format string, args ...interface{}) {
	if a.Config.Verbose {
		a.Render.Status(format, args...)
	}
}
