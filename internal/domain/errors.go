package domain

import "errors"

// ErrNotFound is returned by every store backend when a record id does not
// exist, so callers can branch without knowing which backend is active.
var ErrNotFound = errors.New("record not found")
