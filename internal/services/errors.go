package services

import "errors"

// ErrInvalidInput is returned when a caller supplies a malformed filter
// value, an out-of-range rating, or missing required text. It is always
// reported to the caller and never retried internally.
var ErrInvalidInput = errors.New("invalid input")
