package loader

import "errors"

// ErrDataNotFound indicates that no model files were discovered for a cluster.
var ErrDataNotFound = errors.New("no lensing models found")
