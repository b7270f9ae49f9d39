package x

import "errors"

// Sentinel errors for toolkit configuration and wiring.
var (
	ErrDuplicateID      = errors.New("x: duplicate modal id")
	ErrMissingID        = errors.New("x: element is missing a target id")
	ErrUnknownTarget    = errors.New("x: trigger references an unknown target")
	ErrAttributeClaimed = errors.New("x: attribute already claimed by another controller")
	ErrBadConfig        = errors.New("x: malformed controller configuration")
)

// IsConfigError checks if err is one of the configuration errors that
// controllers log and skip rather than propagate (bad markup should
// never take the page down).
func IsConfigError(err error) bool {
	return errors.Is(err, ErrDuplicateID) ||
		errors.Is(err, ErrMissingID) ||
		errors.Is(err, ErrUnknownTarget) ||
		errors.Is(err, ErrBadConfig)
}
