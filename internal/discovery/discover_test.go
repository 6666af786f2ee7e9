package discovery

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("SIMPLE  =                    T"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestRootName(t *testing.T) {
	cases := map[string]string{
		"a_b_c_d_e_f_kappa.fits": "a_b_c_d_e_f",
		"hlsp_frontier_model_abell2744_cats_v4_gamma.fits": "hlsp_frontier_model_abell2744_cats_v4",
		"/x/y/a_b_c_d_e_f.fits":                            "a_b_c_d_e_f",
		"a_b.fits":                                         "a_b",
	}
	for in, want := range cases {
		assert.Equal(t, want, RootName(in), in)
	}
}

func TestDiscover_DeduplicatesMapTypes(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "clusterA", "v1", "a_b_c_d_e_f_kappa.fits"))
	touch(t, filepath.Join(root, "clusterA", "v1", "a_b_c_d_e_f_gamma.fits"))

	got, err := Discover(root, "clusterA", nil)
	require.NoError(t, err)
	if diff := cmp.Diff([]string{"a_b_c_d_e_f"}, got); diff != "" {
		t.Fatalf("roots mismatch (-want +got):\n%s", diff)
	}
}

func modelTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	c := filepath.Join(root, "abell2744")
	for _, f := range []string{
		"cats/v4/hlsp_frontier_model_abell2744_cats_v4_kappa.fits",
		"cats/v4/hlsp_frontier_model_abell2744_cats_v4_gamma.fits",
		"glafic/v3/hlsp_frontier_model_abell2744_glafic_v3_kappa.fits",
		"sharon/v4cor/hlsp_frontier_model_abell2744_sharon_v4cor_x-arcsec-deflect.fits",
		"zitrin-nfw/v3/hlsp_frontier_model_abell2744_zitrin-nfw_v3_kappa.fits",
	} {
		touch(t, filepath.Join(c, filepath.FromSlash(f)))
	}
	// not in a version directory
	touch(t, filepath.Join(c, "cats", "hlsp_frontier_model_abell2744_cats_v9_kappa.fits"))
	// wrong extension
	touch(t, filepath.Join(c, "cats", "v4", "README.txt"))
	// another cluster
	touch(t, filepath.Join(root, "macs0416", "cats", "v4", "hlsp_frontier_model_macs0416_cats_v4_kappa.fits"))
	return root
}

func TestDiscover_OrderStableAndIdempotent(t *testing.T) {
	root := modelTree(t)

	want := []string{
		"hlsp_frontier_model_abell2744_cats_v4",
		"hlsp_frontier_model_abell2744_glafic_v3",
		"hlsp_frontier_model_abell2744_sharon_v4cor",
		"hlsp_frontier_model_abell2744_zitrin-nfw_v3",
	}
	for i := 0; i < 3; i++ {
		got, err := Discover(root, "abell2744", nil)
		require.NoError(t, err)
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("call %d (-want +got):\n%s", i, diff)
		}
	}
}

func TestDiscover_RejectBySubstring(t *testing.T) {
	root := modelTree(t)

	got, err := Discover(root, "abell2744", []string{"zitrin", "glafic"})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"hlsp_frontier_model_abell2744_cats_v4",
		"hlsp_frontier_model_abell2744_sharon_v4cor",
	}, got)
	for _, r := range got {
		assert.NotContains(t, r, "zitrin")
		assert.NotContains(t, r, "glafic")
	}
}

func TestDiscover_EmptyRejectEntryIgnored(t *testing.T) {
	root := modelTree(t)
	got, err := Discover(root, "abell2744", []string{""})
	require.NoError(t, err)
	assert.Len(t, got, 4)
}

func TestDiscover_MissingClusterIsEmpty(t *testing.T) {
	got, err := Discover(t.TempDir(), "nowhere", nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDiscover_ClusterPathIsFile(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "clusterA"))
	_, err := Discover(root, "clusterA", nil)
	assert.Error(t, err)
}

func TestName(t *testing.T) {
	short, version, ok := Name("hlsp_frontier_model_abell2744_cats_v4")
	require.True(t, ok)
	assert.Equal(t, "cats", short)
	assert.Equal(t, "v4", version)

	_, _, ok = Name("lonely")
	assert.False(t, ok)
	_, _, ok = Name("a__")
	assert.False(t, ok)
}
