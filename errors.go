package recherche

import "errors"

// ErrRenderFailed wraps navigation, timeout, and DOM-unavailable failures
// from the renderer. Fatal for the single request it occurs in; never
// converted to empty results.
var ErrRenderFailed = errors.New("recherche: render failed")

// ErrStorage wraps cache read/write faults. Fatal for the request; a
// fetch that succeeded but failed to cache is still reported as an error.
var ErrStorage = errors.New("recherche: storage failure")

// ErrInvalidInput is returned when a required input is missing or an
// enum value is unknown.
var ErrInvalidInput = errors.New("recherche: invalid input")
