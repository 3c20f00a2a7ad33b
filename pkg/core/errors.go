package core

import "errors"

// Error kinds the core distinguishes. Callers at module boundaries log and
// drop them; nothing in the core propagates them as control flow across
// threads.
var (
	// ErrNotFound marks a missing surface, buffer, pool, workspace or
	// handler id.
	ErrNotFound = errors.New("not found")

	// ErrWrongFrame marks a command addressed at a frame class that does
	// not support it.
	ErrWrongFrame = errors.New("wrong frame")

	// ErrResourceLimit marks an exhausted resource budget.
	ErrResourceLimit = errors.New("resource limit reached")
)
