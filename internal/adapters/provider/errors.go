package provider

import "errors"

// Sentinel kinds for provider errors. These allow errors.Is from callers.
var (
	ErrFetch  = errors.New("provider fetch failed")
	ErrStatus = errors.New("provider returned non-OK status")
	ErrDecode = errors.New("provider response decode failed")
)
