package service

import "errors"

// ErrSuperseded is returned for a result whose request is no longer the latest one.
// The result must be discarded by the caller.
var ErrSuperseded = errors.New("result superseded by a newer request")
