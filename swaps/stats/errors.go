package stats

import "errors"

// ErrInvalidInput signals that an empty or malformed sample was provided
var ErrInvalidInput = errors.New("expected non-empty sample")
