package models

import "errors"

// Error kinds returned by the goodies engine. Handlers translate these into
// HTTP status codes; bulk import captures them per row instead of aborting
// the batch.
var (
	ErrNotFound       = errors.New("not found")
	ErrNotEligible    = errors.New("employee is not eligible for this distribution")
	ErrAlreadyClaimed = errors.New("employee has already claimed this distribution")
	ErrOutOfStock     = errors.New("distribution has no remaining stock")

	// ErrInvariant marks a broken inventory invariant, e.g. a release with no
	// matching reserve. It indicates a bug in the calling code, never a
	// user-correctable condition, and must surface as an internal error.
	ErrInvariant = errors.New("inventory invariant violation")
)

// ValidationError reports malformed creation parameters.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func NewValidationError(msg string) error {
	return &ValidationError{Msg: msg}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
