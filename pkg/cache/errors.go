package cache

import "errors"

// Sentinel errors for manifest handling.
var (
	// ErrCorruptManifest is returned when a stored manifest cannot be decoded.
	ErrCorruptManifest = errors.New("corrupt manifest")

	// ErrUnsafePath is returned for manifest paths that escape the output directory.
	ErrUnsafePath = errors.New("unsafe artifact path")
)
