// Package discovery finds lensing model files in a cluster data tree.
package discovery

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ModelExt is the extension of lensing map files.
const ModelExt = ".fits"

// rootTokens is how many underscore-separated tokens identify one model.
const rootTokens = 6

// RootName derives the model identity from a map file name: the first six
// underscore-separated tokens of the base name with its extension removed.
// Files that differ only after the sixth token (map type, suffix) share a
// root name.
func RootName(filename string) string {
	base := filepath.Base(filename)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	tokens := strings.Split(base, "_")
	if len(tokens) > rootTokens {
		tokens = tokens[:rootTokens]
	}
	return strings.Join(tokens, "_")
}

// Rejected reports whether rootName contains any entry of reject.
func Rejected(rootName string, reject []string) bool {
	for _, r := range reject {
		if r == "" {
			continue
		}
		if strings.Contains(rootName, r) {
			return true
		}
	}
	return false
}

// Discover scans dataRoot/cluster for model files and returns their root
// names, first occurrence first, without duplicates. A model file is a .fits
// file whose parent directory is a version directory ("v" prefix).
//
// A missing cluster directory is not an error; it yields no models.
func Discover(dataRoot, cluster string, reject []string) ([]string, error) {
	clusterDir := filepath.Join(dataRoot, cluster)
	info, err := os.Stat(clusterDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("cannot stat cluster directory %s: %w", clusterDir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("cluster path is not a directory: %s", clusterDir)
	}

	roots := []string{}
	seen := map[string]bool{}
	walkFn := func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if filepath.Ext(d.Name()) != ModelExt {
			return nil
		}
		if !strings.HasPrefix(filepath.Base(filepath.Dir(path)), "v") {
			return nil
		}

		root := RootName(d.Name())
		if Rejected(root, reject) || seen[root] {
			return nil
		}
		seen[root] = true
		roots = append(roots, root)
		return nil
	}

	if err := filepath.WalkDir(clusterDir, walkFn); err != nil {
		return nil, fmt.Errorf("cannot scan models under %s: %w", clusterDir, err)
	}
	return roots, nil
}

// Name splits a root name into the model short name (second-to-last token)
// and version tag (last token).
func Name(rootName string) (short, version string, ok bool) {
	tokens := strings.Split(rootName, "_")
	if len(tokens) < 2 {
		return "", "", false
	}
	short, version = tokens[len(tokens)-2], tokens[len(tokens)-1]
	if short == "" || version == "" {
		return "", "", false
	}
	return short, version, true
}
