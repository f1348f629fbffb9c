package trivia

import "errors"

// Reasons a raw question record is rejected at ingestion.
var (
	ErrMissingQuestion    = errors.New("question text missing")
	ErrTooFewOptions      = errors.New("fewer than 4 answer options")
	ErrCorrectIndexBounds = errors.New("correct answer index out of range")
	ErrDisabled           = errors.New("question disabled")
)
