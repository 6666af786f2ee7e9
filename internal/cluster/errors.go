package cluster

import "errors"

var (
	// ErrCoordinateOutOfRange indicates a position inside no registered cluster field.
	ErrCoordinateOutOfRange = errors.New("coordinate outside cluster boundaries")

	// ErrInvalidEntry indicates a malformed registry entry.
	ErrInvalidEntry = errors.New("invalid cluster entry")

	// ErrUnknownCluster indicates a cluster id that is not registered.
	ErrUnknownCluster = errors.New("unknown cluster")
)
