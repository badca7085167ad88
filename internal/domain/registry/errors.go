package registry

import "errors"

// Sentinel kinds for registry errors. These allow errors.Is from callers.
var (
	ErrUnknownMatch = errors.New("unknown match")
	ErrMatchStarted = errors.New("match already started")
)
