// Package cluster maps sky positions to Frontier Fields cluster ids.
package cluster

import (
	"fmt"
	"math"

	"github.com/afonsov/gohff/internal/sky"
)

// Box is the sky footprint of one cluster field, in degrees. Field order
// follows the historical tuple layout (ra-max, ra-min, dec-max, dec-min).
type Box struct {
	RAMax  float64 `yaml:"ra_max"`
	RAMin  float64 `yaml:"ra_min"`
	DecMax float64 `yaml:"dec_max"`
	DecMin float64 `yaml:"dec_min"`
}

// ContainsRA reports RAMin < ra < RAMax.
func (b Box) ContainsRA(ra float64) bool {
	return ra < b.RAMax && ra > b.RAMin
}

// ContainsDec reports whether dec lies strictly between the two stored
// declination bounds, whichever order they were written in.
func (b Box) ContainsDec(dec float64) bool {
	lo, hi := math.Min(b.DecMin, b.DecMax), math.Max(b.DecMin, b.DecMax)
	return dec > lo && dec < hi
}

// Center returns the midpoint of the box.
func (b Box) Center() sky.Coord {
	return sky.Coord{RA: (b.RAMax + b.RAMin) / 2, Dec: (b.DecMax + b.DecMin) / 2}
}

// Entry pairs a cluster id with its footprint.
type Entry struct {
	Name string
	Box  Box
}

// Registry is an ordered, immutable cluster table. Resolve returns the first
// matching entry in insertion order.
type Registry struct {
	entries  []Entry
	index    map[string]int
	checkDec bool
}

// Option configures a Registry.
type Option func(*Registry)

// WithDeclinationCheck makes Resolve test declination as well as right
// ascension. Without it only right ascension decides membership.
func WithDeclinationCheck() Option {
	return func(r *Registry) { r.checkDec = true }
}

// NewRegistry validates entries and builds a registry.
func NewRegistry(entries []Entry, opts ...Option) (*Registry, error) {
	r := &Registry{
		entries: make([]Entry, 0, len(entries)),
		index:   make(map[string]int, len(entries)),
	}
	for _, o := range opts {
		o(r)
	}
	for _, e := range entries {
		if e.Name == "" {
			return nil, fmt.Errorf("%w: empty name", ErrInvalidEntry)
		}
		if _, dup := r.index[e.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate cluster %q", ErrInvalidEntry, e.Name)
		}
		if !(e.Box.RAMin < e.Box.RAMax) {
			return nil, fmt.Errorf("%w: %s has ra_min %v >= ra_max %v", ErrInvalidEntry, e.Name, e.Box.RAMin, e.Box.RAMax)
		}
		r.index[e.Name] = len(r.entries)
		r.entries = append(r.entries, e)
	}
	return r, nil
}

// Default returns the built-in Frontier Fields table.
func Default(opts ...Option) *Registry {
	r, err := NewRegistry(frontierFields, opts...)
	if err != nil {
		panic(err)
	}
	return r
}

// With returns a new registry where extra entries replace same-named entries
// in place and unknown names are appended.
func (r *Registry) With(extra []Entry) (*Registry, error) {
	merged := make([]Entry, len(r.entries))
	copy(merged, r.entries)
	for _, e := range extra {
		if i, ok := r.index[e.Name]; ok {
			merged[i] = e
			continue
		}
		merged = append(merged, e)
	}
	var opts []Option
	if r.checkDec {
		opts = append(opts, WithDeclinationCheck())
	}
	return NewRegistry(merged, opts...)
}

// Resolve returns the id of the first cluster whose field contains c.
func (r *Registry) Resolve(c sky.Coord) (string, error) {
	for _, e := range r.entries {
		if !e.Box.ContainsRA(c.RA) {
			continue
		}
		if r.checkDec && !e.Box.ContainsDec(c.Dec) {
			continue
		}
		return e.Name, nil
	}
	return "", fmt.Errorf("coordinates %v,%v: %w", c.RA, c.Dec, ErrCoordinateOutOfRange)
}

// Lookup returns the footprint of a cluster.
func (r *Registry) Lookup(name string) (Box, error) {
	i, ok := r.index[name]
	if !ok {
		return Box{}, fmt.Errorf("%w: %s", ErrUnknownCluster, name)
	}
	return r.entries[i].Box, nil
}

// Entries returns a copy of the table in resolution order.
func (r *Registry) Entries() []Entry {
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// DeclinationChecked reports whether Resolve tests declination.
func (r *Registry) DeclinationChecked() bool { return r.checkDec }
