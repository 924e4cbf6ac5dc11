package core

import "errors"

var (
	// ErrInvalidDepth is returned for subdivision depths outside [0, MaxDepth].
	ErrInvalidDepth = errors.New("invalid subdivision depth")
	// ErrInvalidRadius is returned for non-positive or non-finite radii.
	ErrInvalidRadius = errors.New("invalid radius")
	// ErrDegenerateGeometry is returned when a face has no usable normal.
	ErrDegenerateGeometry = errors.New("degenerate geometry")
	// ErrTooFewStops is returned when a gradient has fewer than two colors.
	ErrTooFewStops = errors.New("color gradient needs at least two stops")
	// ErrUnknownKind is returned for mesh kinds the generator does not know.
	ErrUnknownKind = errors.New("unknown mesh kind")
)
