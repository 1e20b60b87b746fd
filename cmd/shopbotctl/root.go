package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/shopbot/backend/internal/observability"
)

type rootOptions struct {
	verbose bool
	noColor bool
	asJSON  bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "shopbotctl",
		Short:         "Inspect how shopbot understands queries and matches the catalog",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.noColor {
				color.NoColor = true
			}
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")
	cmd.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "disable colored output")
	cmd.PersistentFlags().BoolVar(&opts.asJSON, "json", false, "print machine-readable JSON")

	cmd.AddCommand(newAnalyzeCmd(opts))
	cmd.AddCommand(newMatchCmd(opts))

	return cmd
}

func (o *rootOptions) logger(w io.Writer) zerolog.Logger {
	level := "disabled"
	if o.verbose {
		level = "debug"
	}
	return observability.NewLogger(observability.LogConfig{
		Level:       level,
		Format:      "console",
		Output:      w,
		ServiceName: "shopbotctl",
	})
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}
