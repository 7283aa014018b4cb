package cli

import "errors"

var (
	// ErrUnknownOutput is returned for an --output value other than text or json.
	ErrUnknownOutput = errors.New("unknown output format")
	// ErrReadBatch wraps failures to read or decode a batch file.
	ErrReadBatch = errors.New("failed to read batch file")
	// ErrImplausible makes check exit non-zero for a time outside its window.
	ErrImplausible = errors.New("time is implausible for its distance")
	// ErrUnknownGender is returned for a --gender without a standards table.
	ErrUnknownGender = errors.New("unknown gender")
	// ErrEventRequired is returned when --time is given without --event.
	ErrEventRequired = errors.New("--time needs --event")
)
