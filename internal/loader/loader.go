// Package loader turns a cluster's model files and models.cfg into an ordered
// list of lensing models, and memoizes that list per cluster.
package loader

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/afonsov/gohff/internal/ctxlog"
	"github.com/afonsov/gohff/internal/discovery"
	"github.com/afonsov/gohff/internal/lensing"
	"github.com/afonsov/gohff/internal/modelcfg"
)

// Descriptor is what the data tree says about one model.
type Descriptor struct {
	Cluster    string
	RootName   string
	ShortName  string
	Version    string
	Redshift   float64
	Resolution float64

	// Source is the map path prefix handed to the lensing backend:
	// <data-root>/<cluster>/<short>/<version>/<root-name>.
	Source string
}

// Model is a descriptor plus its populated lensing model. Lens is nil when
// the loader has no backend.
type Model struct {
	Descriptor
	Lens lensing.Model
}

// Loader reads models from a data root. A nil backend yields descriptors only.
type Loader struct {
	dataRoot string
	backend  lensing.Backend
}

// New returns a Loader for dataRoot.
func New(dataRoot string, backend lensing.Backend) *Loader {
	return &Loader{dataRoot: dataRoot, backend: backend}
}

// DataRoot returns the directory holding one subdirectory per cluster.
func (l *Loader) DataRoot() string { return l.dataRoot }

// Load discovers, configures and (with a backend) populates every model of
// cluster. Any failure aborts the whole load.
func (l *Loader) Load(ctx context.Context, cluster string, reject []string) ([]Model, error) {
	log := ctxlog.FromContext(ctx).With("cluster", cluster)

	roots, err := discovery.Discover(l.dataRoot, cluster, reject)
	if err != nil {
		return nil, err
	}
	log.Debug("discovered models", "count", len(roots), "roots", roots)
	if len(roots) == 0 {
		return nil, fmt.Errorf("%w: cluster %s under %s", ErrDataNotFound, cluster, l.dataRoot)
	}

	cfg, err := modelcfg.Load(modelcfg.Path(l.dataRoot, cluster))
	if err != nil {
		return nil, err
	}

	models := make([]Model, 0, len(roots))
	for _, root := range roots {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		d, err := l.describe(cfg, cluster, root)
		if err != nil {
			return nil, err
		}
		m := Model{Descriptor: d}
		if l.backend != nil {
			m.Lens, err = l.populate(d)
			if err != nil {
				return nil, err
			}
			if box, err := m.Lens.BoundingBox(); err == nil {
				log.Debug("model extent", "model", d.ShortName, "extent", box)
			}
		}
		log.Debug("loaded model", "model", d.ShortName, "version", d.Version, "redshift", d.Redshift, "resolution", d.Resolution)
		models = append(models, m)
	}
	return models, nil
}

func (l *Loader) describe(cfg *modelcfg.File, cluster, root string) (Descriptor, error) {
	short, version, ok := discovery.Name(root)
	if !ok {
		return Descriptor{}, fmt.Errorf("%w: cannot derive model name from %q", modelcfg.ErrConfig, root)
	}
	mc, err := cfg.Lookup(short)
	if err != nil {
		return Descriptor{}, err
	}
	return Descriptor{
		Cluster:    cluster,
		RootName:   root,
		ShortName:  short,
		Version:    version,
		Redshift:   mc.Redshift,
		Resolution: mc.Resolution,
		Source:     filepath.Join(l.dataRoot, cluster, short, version, root),
	}, nil
}

func (l *Loader) populate(d Descriptor) (lensing.Model, error) {
	lm, err := l.backend.NewModel(d.Redshift, d.Resolution)
	if err != nil {
		return nil, fmt.Errorf("cannot create model %s: %w", d.RootName, err)
	}
	if err := lm.LoadFile(d.Source); err != nil {
		return nil, fmt.Errorf("cannot load model data %s: %w", d.Source, err)
	}
	return lm, nil
}
