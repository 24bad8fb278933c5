package playlist

// Action discriminates the decision union produced by ResolveNext.
type Action string

const (
	// ActionAdvance moves the cursor to the next entry.
	ActionAdvance Action = "advance"

	// ActionComplete marks the session complete. Emitted exactly at the
	// last entry, never after advancing past it.
	ActionComplete Action = "complete"

	// ActionSkip marks the current entry skipped and advances.
	ActionSkip Action = "skip"

	// ActionInject splices new entries after the cursor and jumps the
	// learner into the first of them.
	ActionInject Action = "inject"

	// ActionRetry splices a retry entry for a failed gate after the
	// cursor and jumps to it.
	ActionRetry Action = "retry"

	// ActionHold leaves the session untouched: the current gate blocks
	// progress, either because it has not been attempted yet or because
	// its retry budget is exhausted under the hold fail strategy.
	ActionHold Action = "hold"
)

// Decision is the outcome of one ResolveNext call. Action selects the
// variant; Entries is set for inject, LUID for retry and hold-at-gate.
// Callers may also construct decisions directly.
type Decision struct {
	Action  Action  `json:"action"`
	Reason  string  `json:"reason,omitempty"`
	Entries []Entry `json:"entries,omitempty"`
	LUID    string  `json:"luId,omitempty"`
}
