package service

import "errors"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrNoProvider   = errors.New("no provider client configured")
	ErrInvalidGuess = errors.New("guess must be a probability between 0 and 100")
)
