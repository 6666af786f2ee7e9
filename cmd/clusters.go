package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/afonsov/gohff/internal/cluster"
	"github.com/afonsov/gohff/internal/config"
	"github.com/afonsov/gohff/internal/sky"
)

var clustersCmd = &cobra.Command{
	Use:   "clusters",
	Short: "List the cluster fields known to hff",
	Args:  cobra.NoArgs,
	RunE:  runClusters,
}

var resolveCmd = &cobra.Command{
	Use:   "resolve <ra> <dec>",
	Short: "Print the cluster whose field contains a sky position",
	Long: `Print the cluster whose field contains a sky position.

Coordinates are decimal degrees or sexagesimal (RA in hours):
  hff resolve 3.5896 -30.3975
  hff resolve 00:14:21.5 -30:23:51`,
	Args: cobra.ExactArgs(2),
	RunE: runResolve,
}

func init() {
	rootCmd.AddCommand(clustersCmd)
	rootCmd.AddCommand(resolveCmd)
}

// registryFromConfig uses hff.yaml when present and the built-in table otherwise.
func registryFromConfig() *cluster.Registry {
	cfg, err := config.Load()
	if err != nil {
		return cluster.Default()
	}
	reg, err := cfg.Registry()
	if err != nil {
		printWarn("", fmt.Sprintf("ignoring configured clusters: %v", err))
		return cluster.Default()
	}
	return reg
}

func runClusters(_ *cobra.Command, _ []string) error {
	reg := registryFromConfig()

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CLUSTER\tID\tRA MIN\tRA MAX\tDEC\tCENTER\t")
	for _, e := range reg.Entries() {
		fmt.Fprintf(tw, "%s\t%s\t%.5f\t%.5f\t%.5f..%.5f\t%s\t\n",
			displayName(e.Name), e.Name, e.Box.RAMin, e.Box.RAMax, e.Box.DecMin, e.Box.DecMax, e.Box.Center())
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if !reg.DeclinationChecked() {
		fmt.Println("\nOnly right ascension decides membership (set check_declination: true to test Dec).")
	}
	return nil
}

func runResolve(_ *cobra.Command, args []string) error {
	c, err := sky.Parse(args[0], args[1])
	if err != nil {
		return err
	}
	name, err := registryFromConfig().Resolve(c)
	if err != nil {
		return err
	}
	fmt.Println(name)
	return nil
}
