package timeseries

import "errors"

// Error kinds shared by every stage of the decline pipeline. Returned errors
// wrap one of these, so callers can branch with errors.Is.
var (
	// ErrMalformedInput reports unparsable dates or rates, non-increasing
	// dates, or mismatched timestamp/value lengths.
	ErrMalformedInput = errors.New("malformed input")

	// ErrDomain reports a value outside a transform's domain, such as a
	// non-positive rate fed to the log transform.
	ErrDomain = errors.New("domain error")

	// ErrInsufficientData reports a series shorter than a window, lag count
	// or model order requires.
	ErrInsufficientData = errors.New("insufficient data")
)
