package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/afonsov/gohff/internal/config"
	"github.com/afonsov/gohff/internal/ctxlog"
)

var flagVerbose bool

var rootCmd = &cobra.Command{
	Use:          "hff",
	Short:        "hff — Hubble Frontier Fields lensing models at a sky position",
	SilenceUsage: true, // don't print usage on operational errors
	Long: `hff finds the Frontier Fields cluster covering a sky position, loads the
lensing models published for it and reports convergence, shear, deflection
and magnification with errors from the model realizations.

Model data is read from the data_root set in ~/.hff/hff.yaml.`,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		cmd.SetContext(ctxlog.WithLogger(cmd.Context(), newLogger(os.Stderr, flagVerbose)))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log pipeline progress to stderr")
}

// newLogger writes text logs to w: debug and up when verbose, warnings otherwise.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// loadConfig loads and validates hff.yaml with a hint for first-time users.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("cannot load config: %w\nRun 'hff init <data-root>' first.", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Execute is called by main.go.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
