package domain

import (
	"errors"
	"fmt"
)

var (
	ErrMissingCredential = errors.New("missing credential")
	ErrInvalidInput      = errors.New("invalid input")
	ErrNetwork           = errors.New("network failure")
	ErrService           = errors.New("service error")
	ErrParse             = errors.New("malformed response")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}

// KindOf returns a short label for the failure kind carried by err, for logs
// and metric labels.
func KindOf(err error) string {
	switch {
	case err == nil:
		return "ok"
	case IsKind(err, ErrMissingCredential):
		return "missing_credential"
	case IsKind(err, ErrInvalidInput):
		return "invalid_input"
	case IsKind(err, ErrNetwork):
		return "network"
	case IsKind(err, ErrService):
		return "service"
	case IsKind(err, ErrParse):
		return "parse"
	default:
		return "unknown"
	}
}
