package store

import "errors"

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a guarded aggregate update observes that the
// tool's review count moved between read and write.
var ErrConflict = errors.New("conflict")
