package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/afonsov/gohff/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init <data-root>",
	Short: "Write ~/.hff/hff.yaml pointing at the Frontier Fields model data",
	Long: `Initialize hff's configuration directory (~/.hff, or $HFF_HOME).

The data root holds one directory per cluster:
  <data-root>/<cluster>/models.cfg
  <data-root>/<cluster>/<model>/<version>/<model files>.fits

An existing hff.yaml is left untouched unless --force is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runInit,
}

var flagInitForce bool

func init() {
	initCmd.Flags().BoolVar(&flagInitForce, "force", false, "Overwrite an existing hff.yaml")
	rootCmd.AddCommand(initCmd)
}

func runInit(_ *cobra.Command, args []string) error {
	// ── 1. Resolve ~/.hff directory ───────────────────────────────────────────
	hffDir, err := config.HFFDir()
	if err != nil {
		return err
	}
	cfgPath, err := config.ConfigPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(hffDir, 0o755); err != nil {
		return fmt.Errorf("cannot create %s: %w", hffDir, err)
	}
	printOK("", fmt.Sprintf("hff directory ready: %s", hffDir))

	// ── 2. Resolve the data root ──────────────────────────────────────────────
	root, err := config.ExpandPath(args[0])
	if err != nil {
		return err
	}
	if root, err = filepath.Abs(root); err != nil {
		return fmt.Errorf("cannot resolve %s: %w", args[0], err)
	}
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		printWarn("", fmt.Sprintf("data root %s is not a readable directory yet", root))
	}

	// ── 3. Write hff.yaml ─────────────────────────────────────────────────────
	if _, err := os.Stat(cfgPath); err == nil && !flagInitForce {
		printInfo("", fmt.Sprintf("%s already exists (use --force to overwrite)", cfgPath))
	} else {
		if err := config.Save(config.DefaultConfig(root)); err != nil {
			return err
		}
		printOK("", fmt.Sprintf("wrote %s (data_root: %s)", cfgPath, root))
	}

	// ── 4. dotenv template ────────────────────────────────────────────────────
	if err := config.EnsureDotEnvTemplate(); err != nil {
		return err
	}
	p, _ := config.DotEnvPath()
	printOK("", fmt.Sprintf("overrides file ready: %s", p))
	return nil
}
