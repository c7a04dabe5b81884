package book

import "errors"

// Error kinds reported by the contact directory. Callers match them with errors.Is;
// the returned errors usually wrap one of these with the offending input.
var (
	ErrInvalidPhoneFormat = errors.New("invalid phone format: expected 10 digits")
	ErrInvalidDateFormat  = errors.New("invalid date format: expected DD.MM.YYYY")
	ErrNotFound           = errors.New("not found")
	ErrMissingArgument    = errors.New("missing argument")
)
