package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")

	// ErrInvalidForm wraps the human readable list of failed form rules.
	ErrInvalidForm = errors.New("invalid form")
)
