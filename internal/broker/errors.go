package broker

import "errors"

// ErrNoWork is returned by Claim when the caller-supplied wait budget
// elapses before a compatible task becomes available.
var ErrNoWork = errors.New("broker: no work available")
