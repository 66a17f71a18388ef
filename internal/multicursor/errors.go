package multicursor

import "errors"

var (
	// ErrUnsupportedCommand vetoes a command entirely while cursors are
	// active, real actor included.
	ErrUnsupportedCommand = errors.New("command not supported with multiple cursors")

	// ErrPromptAbandoned reports that the user bailed out of a
	// classification prompt. The command still ran once on the real
	// actor; nothing is persisted.
	ErrPromptAbandoned = errors.New("classification prompt abandoned")

	// ErrTooManyCursors is returned when adding a cursor would exceed
	// the configured limit.
	ErrTooManyCursors = errors.New("too many cursors")
)
