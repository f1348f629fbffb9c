package api

import (
	"errors"
)

// Sentinel kinds for API errors. Their text is what clients see.
var (
	ErrInvalidJSON      = errors.New("invalid JSON body")
	ErrTeamsNotArrays   = errors.New("playerTeam and opponentTeam must be arrays")
	ErrEmptyTeam        = errors.New("each team must have at least one athlete")
	ErrInvalidAthlete   = errors.New("invalid athlete data")
	ErrInvalidLimit     = errors.New("limit must be a positive integer")
	ErrInvalidTier      = errors.New("tier must be one of: popular, all")
	ErrUnknownArchetype = errors.New("unknown archetype")
	ErrValidation       = errors.New("validation failed")
	ErrInternal         = errors.New("internal server error")
)

// opError tags an error with the operation that produced it.
type opError struct {
	op   string
	kind error
	err  error
}

func (e *opError) Error() string {
	return e.op + ": " + e.message()
}

func (e *opError) message() string {
	switch {
	case e.kind != nil && e.err != nil:
		return e.kind.Error() + ": " + e.err.Error()
	case e.kind != nil:
		return e.kind.Error()
	case e.err != nil:
		return e.err.Error()
	}
	return "unknown error"
}

func (e *opError) Unwrap() []error {
	out := make([]error, 0, 2)
	if e.kind != nil {
		out = append(out, e.kind)
	}
	if e.err != nil {
		out = append(out, e.err)
	}
	return out
}

// Wrap annotates err with op.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &opError{op: op, err: err}
}

// WrapKind annotates err with op and classifies it as kind.
func WrapKind(op string, kind, err error) error {
	return &opError{op: op, kind: kind, err: err}
}

// NewKind returns an error of kind raised by op.
func NewKind(op string, kind error) error {
	return &opError{op: op, kind: kind}
}

// publicMessage strips the operation name for the response body.
func publicMessage(err error) string {
	var oe *opError
	if errors.As(err, &oe) {
		return oe.message()
	}
	return err.Error()
}
