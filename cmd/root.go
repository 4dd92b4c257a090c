package cmd

import (
	"fmt"
	"os"

	"github.com/rotom-cli/rotom/internal/ui"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile      string
	outputFormat string
	language     string
	verbose      bool
	noColor      bool
	quiet        bool

	// render is the global renderer for all output
	render *ui.Renderer
)

var rootCmd = &cobra.Command{
	Use:   "rotom",
	Short: "A Pokédex for your terminal",
	Long: `rotom - the Pokémon that powers the Pokédex. Look up any Pokémon
by name or number, straight from your terminal.

Data comes from the public PokéAPI catalog and is cached locally, so
repeated lookups stay fast and polite to the upstream service.

Configuration:
  Create ~/.rotom/config.yaml to customize behavior:

    output: text        # text, json, csv
    language: en        # flavor text language
    cache_size: 64      # in-memory record cache entries
    cache_ttl: 10m      # record freshness window
    min_interval: 500ms # spacing between upstream requests
    index_ttl: 7d       # name index snapshot lifetime

Examples:
  # Look up by name or number
  rotom get pikachu
  rotom get 25

  # Fetch several at once, preloading neighbors
  rotom get 25 --neighbors 2

  # Fuzzy search when the spelling is uncertain
  rotom search pikacu

  # Build or inspect the local name index
  rotom index`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// SetVersion sets the version string for the root command
func SetVersion(v string) {
	rootCmd.Version = v
}

func init() {
	cobra.OnInitialize(initConfig, initRenderer)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.rotom/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "", "Output format: text, json, csv")
	rootCmd.PersistentFlags().StringVarP(&language, "language", "l", "", "Flavor text language (default en)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output for debugging")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&quiet, "quiet", false, "Suppress status messages")

	// Bind flags to viper
	_ = viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	_ = viper.BindPFlag("language", rootCmd.PersistentFlags().Lookup("language"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// initRenderer initializes the global renderer with current settings.
func initRenderer() {
	render = ui.NewRendererWithOptions(
		ui.WithNoColor(noColor || os.Getenv("NO_COLOR") != ""),
		ui.WithQuiet(quiet),
	)
}

// IsVerbose returns true if verbose mode is enabled
func IsVerbose() bool {
	return verbose || viper.GetBool("verbose")
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home + "/.rotom")
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	// Environment variables
	viper.SetEnvPrefix("ROTOM")
	viper.AutomaticEnv()

	// Defaults
	viper.SetDefault("base_url", "https://pokeapi.co/api/v2")
	viper.SetDefault("output", "text")
	viper.SetDefault("language", "en")
	viper.SetDefault("cache_size", 64)
	viper.SetDefault("cache_ttl", "10m")
	viper.SetDefault("min_interval", "500ms")
	viper.SetDefault("index_ttl", "7d")
	viper.SetDefault("page_size", 200)
	// index_file defaults to ~/.rotom/names.json (handled in app.go)

	// Read config file (ignore if not found, warn on other errors)
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "Warning: error reading config file: %v\n", err)
		}
	}
}

// getOutputFormat returns the output format from flags or config.
func getOutputFormat() string {
	if outputFormat != "" {
		return outputFormat
	}
	return viper.GetString("output")
}

// getLanguage returns the flavor text language from flags or config.
func getLanguage() string {
	if language != "" {
		return language
	}
	return viper.GetString("language")
}
