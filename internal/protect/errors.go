package protect

import "errors"

// Static errors for the protection pipeline. Each sentinel tags one failure
// class; callers classify with errors.Is and wrap with context.
var (
	// ErrValidation is returned for missing, empty, or out-of-bound inputs
	// and for unrecognized settings values.
	ErrValidation = errors.New("validation failed")
	// ErrProbe is returned when the media metadata query fails or its
	// output cannot be parsed.
	ErrProbe = errors.New("probe failed")
	// ErrComposition is returned when a trim or concat invocation exits
	// non-zero or the declared output file is missing afterwards.
	ErrComposition = errors.New("composition failed")
	// ErrThumbnail is returned when frame extraction fails. It does not
	// fail an otherwise successful job.
	ErrThumbnail = errors.New("thumbnail extraction failed")
	// ErrWorkspace is returned when the scoped workspace directory cannot
	// be created or removed.
	ErrWorkspace = errors.New("workspace failure")
	// ErrTimeout is returned when an engine invocation exceeds the
	// configured deadline.
	ErrTimeout = errors.New("engine invocation timed out")
)
