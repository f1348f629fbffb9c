package questioncache

import "errors"

// Sentinel kinds for cache errors.
var (
	ErrClosed = errors.New("question cache closed")
)
