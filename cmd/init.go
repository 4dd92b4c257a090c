package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize rotom configuration",
	Long: `Create the default configuration file.

Creates ~/.rotom/config.yaml with every setting documented. The name
index snapshot lands in the same directory on first use.

Examples:
  # Create default config (won't overwrite existing)
  rotom init

  # Force overwrite existing config
  rotom init --force`,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite existing config file")
}

func runInit(cmd *cobra.Command, args []string) error {
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}

	configPath := filepath.Join(home, ".rotom", "config.yaml")

	if err := createFileIfNotExists(configPath, defaultConfig(), initForce); err != nil {
		return err
	}

	fmt.Println("Initialized rotom configuration:")
	fmt.Printf("  Config: %s\n", configPath)
	fmt.Printf("\nEdit %s to customize your settings.\n", configPath)

	return nil
}

func defaultConfig() string {
	return `# rotom configuration

# Default output format: text, json, csv
output: text

# Flavor text language
language: en

# Catalog endpoint
# base_url: https://pokeapi.co/api/v2

# In-memory record cache
cache_size: 64
cache_ttl: 10m

# Minimum spacing between upstream requests
min_interval: 500ms

# Name index snapshot
index_ttl: 7d
page_size: 200
# index_file: ~/.rotom/names.json
`
}

func createFileIfNotExists(path, content string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			fmt.Printf("  %s already exists (use --force to overwrite)\n", path)
			return nil
		}
	}

	// Create parent directory if needed
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	fmt.Printf("  Created %s\n", path)
	return nil
}
