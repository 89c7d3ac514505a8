package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/pavanmanishd/multialloc/config"
)

func init() {
	rootCmd.AddCommand(newCheckCmd())
}

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate a backend configuration",
		Long: `The check command validates a configuration file and builds its
dispatch table, reporting every problem found.

Example:
  multialloc check --config allocators.toml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := loadConfig()
			if err != nil {
				return err
			}
			return runCheck(cmd.OutOrStdout(), conf)
		},
	}
}

func runCheck(w io.Writer, conf *config.Config) error {
	table, err := conf.Build(nil)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	src := conf.OriginalPath
	if src == "" {
		src = "default configuration"
	}
	fmt.Fprintf(w, "%s: %d backend(s) OK\n", src, table.Len())
	return nil
}
