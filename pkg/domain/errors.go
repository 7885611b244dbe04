package domain

import "errors"

// ErrRejectionNotFound is returned when a rejection ID cannot be found in the store.
var ErrRejectionNotFound = errors.New("rejection not found")
