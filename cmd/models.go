package cmd

import (
	"fmt"
	"os"
	"slices"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/afonsov/gohff/internal/discovery"
	"github.com/afonsov/gohff/internal/lensing"
	"github.com/afonsov/gohff/internal/loader"
)

var flagReject []string

var modelsCmd = &cobra.Command{
	Use:   "models <cluster>",
	Short: "List the lensing models found for a cluster",
	Long: `List the distinct lensing models found under <data-root>/<cluster>.

Map files of one model (kappa, gamma, deflections) share a root name made of
the first six underscore-separated tokens and are listed once.`,
	Args: cobra.ExactArgs(1),
	RunE: runModels,
}

var loadCmd = &cobra.Command{
	Use:   "load <cluster>",
	Short: "Read every model of a cluster with its models.cfg entry",
	Long: `Resolve every discovered model against <data-root>/<cluster>/models.cfg and
print its redshift and resolution. With a lensing backend available the map
files are loaded as well, which checks that they are readable.`,
	Args: cobra.ExactArgs(1),
	RunE: runLoad,
}

func init() {
	for _, c := range []*cobra.Command{modelsCmd, loadCmd} {
		c.Flags().StringSliceVar(&flagReject, "reject", nil, "Skip models whose root name contains any of these (adds to hff.yaml reject)")
		rootCmd.AddCommand(c)
	}
}

func runModels(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	roots, err := discovery.Discover(cfg.DataRoot, args[0], slices.Concat(cfg.Reject, flagReject))
	if err != nil {
		return err
	}

	printSection(fmt.Sprintf("%s models", displayName(args[0])))
	if len(roots) == 0 {
		printMiss("", fmt.Sprintf("no models under %s", cfg.DataRoot))
		return nil
	}
	for _, r := range roots {
		printOK("", r)
	}
	return nil
}

func runLoad(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	backend, err := lensing.Lookup(cfg.Backend)
	if err != nil {
		printInfo("", "no lensing backend: reading metadata only")
		backend = nil
	}

	models, err := loader.New(cfg.DataRoot, backend).Load(cmd.Context(), args[0], slices.Concat(cfg.Reject, flagReject))
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "MODEL\tVERSION\tREDSHIFT\tRESOLUTION\tSOURCE\t")
	for _, m := range models {
		fmt.Fprintf(tw, "%s\t%s\t%.4f\t%g\t%s\t\n", m.ShortName, m.Version, m.Redshift, m.Resolution, m.Source)
	}
	return tw.Flush()
}
