package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/afonsov/gohff/internal/aggregate"
	"github.com/afonsov/gohff/internal/cluster"
	"github.com/afonsov/gohff/internal/config"
	"github.com/afonsov/gohff/internal/lensing"
	"github.com/afonsov/gohff/internal/lensing/lensingtest"
	"github.com/afonsov/gohff/internal/sky"
)

func TestNewLoggerLevel(t *testing.T) {
	var buf bytes.Buffer
	quiet := newLogger(&buf, false)
	quiet.Debug("hidden")
	quiet.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")

	buf.Reset()
	newLogger(&buf, true).Debug("stacking")
	assert.Contains(t, buf.String(), "stacking")
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "MACS0416", displayName("macs0416"))
	assert.Equal(t, "ABELL2744", displayName("abell2744"))
}

func TestLensSettings(t *testing.T) {
	t.Cleanup(func() { flagLensPixelScale, flagReject = 0, nil })
	cfg := config.DefaultConfig(t.TempDir())
	cfg.PixelScale = 0.1
	cfg.Reject = []string{"bad"}

	scale, reject := lensSettings(cfg)
	assert.Equal(t, 0.1, scale)
	assert.Equal(t, []string{"bad"}, reject)

	flagLensPixelScale = 0.05
	flagReject = []string{"worse"}
	scale, reject = lensSettings(cfg)
	assert.Equal(t, 0.05, scale)
	assert.Equal(t, []string{"bad", "worse"}, reject)
	assert.Equal(t, []string{"bad"}, cfg.Reject)
}

func TestLensOptionsReachStacking(t *testing.T) {
	t.Cleanup(func() { flagLensPixelScale, flagReject = 0, nil })
	root := t.TempDir()
	c := filepath.Join(root, "abell2744")
	write := func(p, body string) {
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	}
	write(filepath.Join(c, "models.cfg"), "[cats]\nredshift = 0.308\nresolution = 0.2\n\n[glafic]\nredshift = 0.308\nresolution = 0.03\n")
	write(filepath.Join(c, "cats", "v4", "hlsp_frontier_model_abell2744_cats_v4_kappa.fits"), "k")
	write(filepath.Join(c, "glafic", "v3", "hlsp_frontier_model_abell2744_glafic_v3_kappa.fits"), "k")

	cfg := config.DefaultConfig(root)
	cfg.Reject = []string{"cats"}
	flagLensPixelScale = 0.05
	flagReject = []string{"nothing_matches"}

	b := &lensingtest.Backend{Params: [][]float64{{1, 1, 1}, {1, 1, 1}, {1, 1, 1}}}
	agg, err := aggregate.ForDataRoot(root, cluster.Default(), b)
	require.NoError(t, err)
	_, err = agg.LensingParameters(context.Background(), sky.Coord{RA: 3.5896, Dec: -30.3975}, 10, 2.0, lensOptions(cfg)...)
	require.NoError(t, err)

	w := b.Windows()
	require.Len(t, w, 1)
	assert.InDelta(t, 0.05/3600, w[0].Scale, 1e-12)
	require.Len(t, b.StackInputs()[0], 1)
	e, ok := agg.Cache().Lookup("abell2744")
	require.True(t, ok)
	require.Len(t, e.Models, 1)
	assert.Equal(t, "glafic", e.Models[0].ShortName)
}

func TestBackendHint(t *testing.T) {
	err := backendHint(lensing.ErrDependencyMissing)
	require.ErrorIs(t, err, lensing.ErrDependencyMissing)
	assert.Contains(t, err.Error(), "HFF_BACKEND")

	other := errors.New("boom")
	assert.Same(t, other, backendHint(other))
}

func TestWriteVersion(t *testing.T) {
	home := filepath.Join(t.TempDir(), ".hff")
	t.Setenv(config.EnvHome, home)
	t.Setenv(config.EnvDataRoot, "")
	t.Setenv(config.EnvBackend, "")

	var buf bytes.Buffer
	require.NoError(t, writeVersion(&buf))
	assert.Contains(t, buf.String(), home)
	assert.Contains(t, buf.String(), "not configured")

	require.NoError(t, config.Save(config.DefaultConfig("/srv/frontier")))
	buf.Reset()
	require.NoError(t, writeVersion(&buf))
	assert.Contains(t, buf.String(), "/srv/frontier")
	assert.NotContains(t, buf.String(), "not configured")
}
