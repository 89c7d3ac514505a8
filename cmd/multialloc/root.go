package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pavanmanishd/multialloc/config"
)

var (
	// Global flags
	configPath string
	jsonOut    bool
)

var rootCmd = &cobra.Command{
	Use:   "multialloc",
	Short: "Inspect and exercise multi-backend allocator configurations",
	Long: `multialloc loads a backend registration file, reports the tag each
backend receives, and runs allocation workloads through the tagging
allocator with a scoped backend selection.

The configuration path defaults to $MULTIALLOC_CONFIG; without it a single
heap backend is registered.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Backend configuration file (TOML)")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads the configuration named by --config.
func loadConfig() (*config.Config, error) {
	conf, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return conf, nil
}

// printJSON outputs data as JSON
func printJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
