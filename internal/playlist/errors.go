package playlist

import "errors"

var (
	// ErrCorruptSession is returned when a restored session blob
	// violates the session invariants. The persisted state is the
	// persistence collaborator's problem at that point; the engine
	// refuses to adopt it.
	ErrCorruptSession = errors.New("corrupt session state")

	// ErrInvalidDecision is returned by ApplyDecision when the decision
	// is inconsistent with the entry at the cursor (for example an
	// advance past the end of the playlist, or a retry naming a unit
	// that is not the current gate). The session is left untouched.
	ErrInvalidDecision = errors.New("invalid decision for current state")
)
