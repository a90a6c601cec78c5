package assets

import (
	"errors"
	"fmt"
)

var (
	// ErrNoAnimation is returned when a clip file holds no animations.
	ErrNoAnimation = errors.New("no animation in document")

	// ErrNoScene is returned when a model file has no nodes to show.
	ErrNoScene = errors.New("no scene in document")

	// ErrUnsupported is returned for data the decoders do not handle.
	ErrUnsupported = errors.New("unsupported asset data")

	// ErrMalformed is returned when a decoder fails on corrupt input.
	ErrMalformed = errors.New("malformed asset data")
)

// LoadError reports a failed asset load. The scene continues without it.
type LoadError struct {
	Kind Kind
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s %s: %v", e.Kind, e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }
