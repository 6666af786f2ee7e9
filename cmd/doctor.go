package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/afonsov/gohff/internal/config"
	"github.com/afonsov/gohff/internal/discovery"
	"github.com/afonsov/gohff/internal/lensing"
	"github.com/afonsov/gohff/internal/modelcfg"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Run pre-flight checks on configuration and model data",
	Long: `Check that hff's configuration, the model data tree and the lensing backend
are usable. Run this command when something seems wrong.`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(_ *cobra.Command, _ []string) error {
	allOK := true
	failD := func(format string, args ...any) {
		printErr("", fmt.Sprintf(format, args...))
		allOK = false
	}

	printSection("hff doctor")
	fmt.Println()

	// ── Check 1: hff.yaml is valid ────────────────────────────────────────────
	fmt.Println("[ hff.yaml ]")
	cfgPath, _ := config.ConfigPath()
	cfg, loadErr := config.Load()
	if loadErr != nil {
		failD("cannot load %s: %v (run 'hff init <data-root>')", cfgPath, loadErr)
	} else if err := cfg.Validate(); err != nil {
		failD("%v", err)
		loadErr = err
	} else {
		printOK("", fmt.Sprintf("valid, data_root %s", cfg.DataRoot))
	}
	fmt.Println()

	// ── Check 2: data root ────────────────────────────────────────────────────
	fmt.Println("[ Data root ]")
	if loadErr == nil {
		if err := checkReadableDir(cfg.DataRoot); err != nil {
			failD("%v", err)
			loadErr = err
		} else {
			printOK("", cfg.DataRoot)
		}
	} else {
		printWarn("", "skipped (hff.yaml not loaded)")
	}
	fmt.Println()

	// ── Check 3: per-cluster models ───────────────────────────────────────────
	fmt.Println("[ Clusters ]")
	if loadErr == nil {
		reg, err := cfg.Registry()
		if err != nil {
			failD("%v", err)
		} else {
			found := 0
			for _, e := range reg.Entries() {
				if doctorCluster(cfg, e.Name) {
					found++
				}
			}
			if found == 0 {
				failD("no cluster under %s has usable models", cfg.DataRoot)
			}
		}
	} else {
		printWarn("", "skipped")
	}
	fmt.Println()

	// ── Check 4: lensing backend ──────────────────────────────────────────────
	fmt.Println("[ Lensing backend ]")
	backendName := ""
	if cfg != nil {
		backendName = cfg.Backend
	}
	if b, err := lensing.Lookup(backendName); err != nil {
		printWarn("", fmt.Sprintf("%v; lens and magnification are unavailable", err))
	} else {
		printOK("", b.Name())
	}
	if names := lensing.Backends(); len(names) > 0 {
		printInfo("", "linked: "+strings.Join(names, ", "))
	}
	fmt.Println()

	// ── Summary ───────────────────────────────────────────────────────────────
	fmt.Println("===================")
	if allOK {
		fmt.Println("✓  All checks passed.")
	} else {
		fmt.Fprintln(os.Stderr, "✗  One or more checks failed. See details above.")
		return fmt.Errorf("doctor found issues")
	}
	return nil
}

// doctorCluster prints the state of one cluster directory and reports
// whether its models resolve against models.cfg.
func doctorCluster(cfg *config.Config, name string) bool {
	label := displayName(name)
	roots, err := discovery.Discover(cfg.DataRoot, name, cfg.Reject)
	if err != nil {
		printErr(label, err.Error())
		return false
	}
	if len(roots) == 0 {
		printMiss(label, "no model files")
		return false
	}
	mc, err := modelcfg.Load(modelcfg.Path(cfg.DataRoot, name))
	if err != nil {
		printErr(label, err.Error())
		return false
	}
	var missing []string
	for _, r := range roots {
		short, _, ok := discovery.Name(r)
		if !ok {
			missing = append(missing, r)
			continue
		}
		if _, err := mc.Lookup(short); err != nil {
			missing = append(missing, short)
		}
	}
	if len(missing) > 0 {
		printWarn(label, fmt.Sprintf("%d model(s), not configured in %s: %s", len(roots), modelcfg.FileName, strings.Join(missing, ", ")))
		return false
	}
	printOK(label, fmt.Sprintf("%d model(s)", len(roots)))
	return true
}
