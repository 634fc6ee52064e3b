package dialogue

import "errors"

var (
	// ErrExternalService wraps any failed completion call. The turn
	// degrades to a localized fallback and state is left as it was.
	ErrExternalService = errors.New("completion service failed")

	// ErrMalformedExtraction indicates the extraction reply was not a
	// usable JSON record. The merge step for the turn is skipped.
	ErrMalformedExtraction = errors.New("malformed extraction reply")

	// ErrSessionClosed is returned for turns sent after confirmation.
	ErrSessionClosed = errors.New("session already confirmed")

	// ErrEmptyInput is returned for blank user turns.
	ErrEmptyInput = errors.New("empty user input")

	// ErrNotConfirmed is returned when a trip is requested before the
	// user confirmed the summary.
	ErrNotConfirmed = errors.New("trip not confirmed yet")
)
