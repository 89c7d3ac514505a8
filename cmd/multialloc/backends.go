package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/pavanmanishd/multialloc/config"
)

func init() {
	rootCmd.AddCommand(newBackendsCmd())
}

func newBackendsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backends",
		Short: "List registered backends and their tags",
		Long: `The backends command lists every backend in registration order
together with the tag it is assigned. Tag 0 is the default selection.

Example:
  multialloc backends --config allocators.toml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := loadConfig()
			if err != nil {
				return err
			}
			return runBackends(cmd.OutOrStdout(), conf)
		},
	}
}

type backendRow struct {
	Tag  int    `json:"tag"`
	Name string `json:"name"`
	Kind string `json:"kind"`
}

func runBackends(w io.Writer, conf *config.Config) error {
	if err := conf.Validate(); err != nil {
		return err
	}
	rows := make([]backendRow, len(conf.Backends))
	for i, b := range conf.Backends {
		kind := b.Kind
		if b.Wraps != "" {
			kind += "(" + b.Wraps + ")"
		}
		rows[i] = backendRow{Tag: i, Name: b.Name, Kind: kind}
	}
	if jsonOut {
		return printJSON(w, rows)
	}
	for _, r := range rows {
		def := ""
		if r.Tag == 0 {
			def = "  (default)"
		}
		fmt.Fprintf(w, "%3d  %-16s %s%s\n", r.Tag, r.Name, r.Kind, def)
	}
	return nil
}
