package genstream

import "errors"

// ErrStreamFailed wraps provider or transport failures during generation.
var ErrStreamFailed = errors.New("generation stream failed")

// errStreamCancelled classifies a cooperative cancellation inside the read
// loop. It never escapes Generate: cancellation is the Cancelled terminal
// state, not an error.
var errStreamCancelled = errors.New("generation stream cancelled")
