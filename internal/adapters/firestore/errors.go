package firestore

import "errors"

// Sentinel kinds for document store errors.
var (
	ErrConnect = errors.New("firestore connect failed")
	ErrRead    = errors.New("firestore read failed")
)
