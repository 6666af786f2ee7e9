package cmd

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/afonsov/gohff/internal/config"
	"github.com/afonsov/gohff/internal/lensing"
)

// Set at build time with -ldflags "-X".
var (
	version   = "dev"
	commit    = ""
	buildDate = ""
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show hff build information, linked backends and data location",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		return writeVersion(os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// writeVersion prints build details followed by where hff reads its data.
// Configuration problems are reported in place, never as an error.
func writeVersion(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)
	row := func(k, v string) { fmt.Fprintf(tw, "%s:\t%s\n", k, v) }

	row("hff", fmt.Sprintf("%s (%s, built %s)", version, orNA(commit), orNA(buildDate)))
	row("Go", fmt.Sprintf("%s %s/%s", runtime.Version(), runtime.GOOS, runtime.GOARCH))
	row("Backends", orNA(strings.Join(lensing.Backends(), ", ")))

	if dir, err := config.HFFDir(); err != nil {
		row("Home", err.Error())
	} else {
		row("Home", dir)
	}
	if cfg, err := config.Load(); err != nil {
		row("Data root", "not configured (run 'hff init <data-root>')")
	} else {
		row("Data root", cfg.DataRoot)
		if cfg.Backend != "" {
			row("Backend", cfg.Backend)
		}
	}
	return tw.Flush()
}

func orNA(s string) string {
	if s == "" {
		return "n/a"
	}
	return s
}
