package playlist

import "github.com/pathwise/pathwise/internal/catalog"

// EntryKind discriminates the playlist entry union.
type EntryKind string

const (
	KindStatic           EntryKind = "static"
	KindInjectedPractice EntryKind = "injected-practice"
	KindRetry            EntryKind = "retry"
)

// StaticPayload references the authored learning unit behind a static entry.
type StaticPayload struct {
	LUID string `json:"luId"`
}

// PracticePayload describes a remedial practice block injected at runtime.
// GateLUID, when set, ties the practice to the failed gate that caused it
// so the guided policy can route the learner back to a retry afterwards.
type PracticePayload struct {
	TargetNodeIDs []string `json:"targetNodeIds"`
	QuestionCount int      `json:"questionCount"`
	GateLUID      string   `json:"gateLuId,omitempty"`
}

// RetryPayload references the gate a retry entry re-attempts.
type RetryPayload struct {
	GateLUID string `json:"gateLuId"`
}

// Entry is one slot in a learner's playlist. Exactly one of the payload
// pointers is set, matching Kind; use the constructors to keep the pair
// consistent. The whole value is plain data and JSON round-trips losslessly.
type Entry struct {
	EntryID string    `json:"entryId"`
	Kind    EntryKind `json:"kind"`
	Title   string    `json:"title"`
	Skipped bool      `json:"skipped,omitempty"`

	Static   *StaticPayload   `json:"static,omitempty"`
	Practice *PracticePayload `json:"practice,omitempty"`
	Retry    *RetryPayload    `json:"retry,omitempty"`
}

// StaticEntryID derives the stable entry ID for a learning unit, so the
// identity of static entries survives serialization.
func StaticEntryID(luID string) string {
	return "static-" + luID
}

// NewStaticEntry projects a learning unit into a playlist entry.
func NewStaticEntry(lu *catalog.StaticLearningUnit) Entry {
	return Entry{
		EntryID: StaticEntryID(lu.ID),
		Kind:    KindStatic,
		Title:   lu.Title,
		Static:  &StaticPayload{LUID: lu.ID},
	}
}

// NewPracticeEntry builds an injected-practice entry targeting the given
// knowledge-graph nodes.
func NewPracticeEntry(id, title string, targetNodes []string, questionCount int, gateLUID string) Entry {
	return Entry{
		EntryID: id,
		Kind:    KindInjectedPractice,
		Title:   title,
		Practice: &PracticePayload{
			TargetNodeIDs: targetNodes,
			QuestionCount: questionCount,
			GateLUID:      gateLUID,
		},
	}
}

// NewRetryEntry builds a retry entry for a failed gate.
func NewRetryEntry(id, title, gateLUID string) Entry {
	return Entry{
		EntryID: id,
		Kind:    KindRetry,
		Title:   title,
		Retry:   &RetryPayload{GateLUID: gateLUID},
	}
}

// GateLUID returns the learning-unit ID of the gate this entry represents
// or re-attempts, and false for entries with no gate association.
func (e *Entry) GateLUID() (string, bool) {
	switch e.Kind {
	case KindStatic:
		if e.Static != nil {
			return e.Static.LUID, true
		}
	case KindRetry:
		if e.Retry != nil {
			return e.Retry.GateLUID, true
		}
	}
	return "", false
}
