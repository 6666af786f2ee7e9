package cmd

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/afonsov/gohff/internal/aggregate"
	"github.com/afonsov/gohff/internal/config"
	"github.com/afonsov/gohff/internal/lensing"
	"github.com/afonsov/gohff/internal/sky"
)

var (
	flagLensSize       float64
	flagLensRedshift   float64
	flagLensPixelScale float64
)

var lensCmd = &cobra.Command{
	Use:   "lens <ra> <dec>",
	Short: "Lensing parameters with errors at a sky position",
	Long: `Stack every model of the cluster covering <ra> <dec> over a square of
--size arcsec and evaluate the three realizations for a source at --z.

The central realization is printed with two error rows: central - low and
high - central.`,
	Args: cobra.ExactArgs(2),
	RunE: runLens,
}

var magnificationCmd = &cobra.Command{
	Use:     "magnification <ra> <dec>",
	Aliases: []string{"mu"},
	Short:   "Magnification with errors at a sky position",
	Args:    cobra.ExactArgs(2),
	RunE:    runMagnification,
}

func init() {
	for _, c := range []*cobra.Command{lensCmd, magnificationCmd} {
		c.Flags().Float64Var(&flagLensSize, "size", 10, "Side of the stacking window in arcsec")
		c.Flags().Float64Var(&flagLensRedshift, "z", 0, "Source redshift (required)")
		c.Flags().Float64Var(&flagLensPixelScale, "pixel-scale", 0, "Stacking pixel size in arcsec (default: pixel_scale from hff.yaml)")
		c.Flags().StringSliceVar(&flagReject, "reject", nil, "Skip models whose root name contains any of these (adds to hff.yaml reject)")
		_ = c.MarkFlagRequired("z")
		rootCmd.AddCommand(c)
	}
}

// lensRequest is everything runLens and runMagnification share.
type lensRequest struct {
	agg   *aggregate.Aggregator
	coord sky.Coord
	opts  []aggregate.Option
}

func newLensRequest(args []string) (*lensRequest, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	c, err := sky.Parse(args[0], args[1])
	if err != nil {
		return nil, err
	}
	backend, err := lensing.Lookup(cfg.Backend)
	if err != nil {
		return nil, backendHint(err)
	}
	reg, err := cfg.Registry()
	if err != nil {
		return nil, err
	}
	agg, err := aggregate.ForDataRoot(cfg.DataRoot, reg, backend)
	if err != nil {
		return nil, err
	}
	return &lensRequest{agg: agg, coord: c, opts: lensOptions(cfg)}, nil
}

// lensSettings merges hff.yaml with the command-line flags: --pixel-scale
// replaces pixel_scale and --reject adds to reject.
func lensSettings(cfg *config.Config) (pixelScale float64, reject []string) {
	pixelScale = cfg.PixelScale
	if flagLensPixelScale > 0 {
		pixelScale = flagLensPixelScale
	}
	return pixelScale, slices.Concat(cfg.Reject, flagReject)
}

func lensOptions(cfg *config.Config) []aggregate.Option {
	scale, reject := lensSettings(cfg)
	return []aggregate.Option{
		aggregate.WithPixelScale(scale),
		aggregate.WithReject(reject...),
	}
}

func backendHint(err error) error {
	if !errors.Is(err, lensing.ErrDependencyMissing) {
		return err
	}
	return fmt.Errorf("%w\n  Stacking needs a lensing backend linked into hff (see main.go)\n  and selected with backend: in hff.yaml or HFF_BACKEND.", err)
}

func runLens(cmd *cobra.Command, args []string) error {
	req, err := newLensRequest(args)
	if err != nil {
		return err
	}
	res, err := req.agg.LensingParameters(cmd.Context(), req.coord, flagLensSize, flagLensRedshift, req.opts...)
	if err != nil {
		return err
	}

	fmt.Printf("%s at %s, z=%g\n\n", displayName(res.Cluster), req.coord, flagLensRedshift)
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	head := []string{"INDEX", "VALUE", "CENTRAL-LOW", "HIGH-CENTRAL"}
	fmt.Fprintln(tw, strings.Join(head, "\t")+"\t")
	for i, v := range res.Params {
		fmt.Fprintf(tw, "%d\t%.6g\t%.6g\t%.6g\t\n", i, v, res.Errors.At(0, i), res.Errors.At(1, i))
	}
	return tw.Flush()
}

func runMagnification(cmd *cobra.Command, args []string) error {
	req, err := newLensRequest(args)
	if err != nil {
		return err
	}
	mu, muErr, err := req.agg.Magnification(cmd.Context(), req.coord, flagLensSize, flagLensRedshift, req.opts...)
	if err != nil {
		return err
	}
	fmt.Printf("mu = %.4f  (-%.4f / +%.4f)\n", mu, muErr[0], muErr[1])
	return nil
}
