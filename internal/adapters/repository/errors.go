package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrUnsupportedDriver = errors.New("unsupported database driver")
	ErrQuery             = errors.New("store query failed")
)
