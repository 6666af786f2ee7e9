// Package modelcfg reads the per-cluster models.cfg file that carries each
// lensing model's lens redshift and map resolution.
package modelcfg

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/ini.v1"
)

// FileName is the configuration file expected at the root of every cluster directory.
const FileName = "models.cfg"

var (
	// ErrConfigNotFound indicates models.cfg does not exist.
	ErrConfigNotFound = errors.New("model configuration not found")

	// ErrConfig indicates a malformed file or a missing or invalid entry.
	ErrConfig = errors.New("model configuration error")
)

// ModelConfig is the metadata of one model short name.
type ModelConfig struct {
	Redshift   float64
	Resolution float64
}

// File is a parsed models.cfg.
type File struct {
	path string
	ini  *ini.File
}

// Path returns the cluster's configuration path.
func Path(dataRoot, cluster string) string {
	return filepath.Join(dataRoot, cluster, FileName)
}

// Load parses the INI file at path. Keys are case-insensitive; "=" and ":"
// both separate keys from values. Dots in section names carry no meaning.
func Load(path string) (*File, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("cannot stat %s: %w", path, err)
	}
	f, err := ini.LoadSources(ini.LoadOptions{InsensitiveKeys: true, ChildSectionDelimiter: "\x00"}, path)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot parse %s: %v", ErrConfig, path, err)
	}
	return &File{path: path, ini: f}, nil
}

// Models lists the configured short names in file order.
func (f *File) Models() []string {
	var out []string
	for _, s := range f.ini.Sections() {
		if s.Name() == ini.DefaultSection {
			continue
		}
		out = append(out, s.Name())
	}
	return out
}

// Lookup returns the configuration for a model short name. Keys missing from
// the model's section are taken from [DEFAULT].
func (f *File) Lookup(model string) (ModelConfig, error) {
	if model == ini.DefaultSection {
		return ModelConfig{}, fmt.Errorf("%w: [%s] is not a model section", ErrConfig, model)
	}
	sec, err := f.ini.GetSection(model)
	if err != nil {
		return ModelConfig{}, fmt.Errorf("%w: %s has no section [%s]", ErrConfig, f.path, model)
	}

	zKey, err := f.key(sec, "redshift")
	if err != nil {
		return ModelConfig{}, err
	}
	z, err := strconv.ParseFloat(strings.TrimSpace(zKey.String()), 64)
	if err != nil {
		return ModelConfig{}, fmt.Errorf("%w: [%s] redshift %q is not a number", ErrConfig, model, zKey.String())
	}

	resKey, err := f.key(sec, "resolution")
	if err != nil {
		return ModelConfig{}, err
	}
	res, err := ParseResolution(resKey.String())
	if err != nil {
		return ModelConfig{}, fmt.Errorf("[%s]: %w", model, err)
	}

	return ModelConfig{Redshift: z, Resolution: res}, nil
}

func (f *File) key(sec *ini.Section, name string) (*ini.Key, error) {
	if sec.HasKey(name) {
		return sec.Key(name), nil
	}
	if def := f.ini.Section(ini.DefaultSection); def.HasKey(name) {
		return def.Key(name), nil
	}
	return nil, fmt.Errorf("%w: [%s] in %s has no %s", ErrConfig, sec.Name(), f.path, name)
}

// ParseResolution reads a resolution given as one number or a comma-separated
// list, of which only the first value counts.
//
//	"0.05"      → 0.05
//	"0.03,0.06" → 0.03
func ParseResolution(s string) (float64, error) {
	first := strings.TrimSpace(strings.Split(s, ",")[0])
	v, err := strconv.ParseFloat(first, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: resolution %q is not a number", ErrConfig, s)
	}
	return v, nil
}
