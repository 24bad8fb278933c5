package playlist

import (
	"encoding/json"
	"fmt"
)

// GateResult is one attempt at a gate, recorded by the scoring
// collaborator. The engine trusts it as already computed.
type GateResult struct {
	LUID          string   `json:"luId"`
	Passed        bool     `json:"passed"`
	Score         float64  `json:"score"`
	AttemptNumber int      `json:"attemptNumber"`
	FailedNodes   []string `json:"failedNodes"`
}

// NodeProgress is the aggregated mastery record for one knowledge-graph
// node. Updates replace the whole record; the engine never merges.
type NodeProgress struct {
	Mastery  float64 `json:"mastery"`
	Attempts int     `json:"attempts"`
}

// Session is the full persisted state of one learner's attempt at one
// module. It contains only plain data and round-trips through JSON
// byte-for-byte, which is what the persistence collaborator relies on.
//
// Invariants:
//   - 0 <= CurrentIndex <= len(Playlist)
//   - Playlist only grows; entries are never removed
//   - GateAttempts lists only grow, in call order
type Session struct {
	SessionID    string                  `json:"sessionId,omitempty"`
	EnrollmentID string                  `json:"enrollmentId"`
	ModuleID     string                  `json:"moduleId"`
	Playlist     []Entry                 `json:"playlist"`
	CurrentIndex int                     `json:"currentIndex"`
	IsComplete   bool                    `json:"isComplete"`
	GateAttempts map[string][]GateResult `json:"gateAttempts"`
	NodeProgress map[string]NodeProgress `json:"nodeProgress"`
}

// Validate checks the session invariants. Used on restore, where a
// violation means the persisted blob is corrupt.
func (s *Session) Validate() error {
	if s.EnrollmentID == "" {
		return fmt.Errorf("%w: empty enrollment ID", ErrCorruptSession)
	}
	if s.ModuleID == "" {
		return fmt.Errorf("%w: empty module ID", ErrCorruptSession)
	}
	if s.CurrentIndex < 0 || s.CurrentIndex > len(s.Playlist) {
		return fmt.Errorf("%w: currentIndex %d out of range [0, %d]",
			ErrCorruptSession, s.CurrentIndex, len(s.Playlist))
	}
	seen := make(map[string]bool, len(s.Playlist))
	for i, e := range s.Playlist {
		if e.EntryID == "" {
			return fmt.Errorf("%w: entry %d has empty entryId", ErrCorruptSession, i)
		}
		if seen[e.EntryID] {
			return fmt.Errorf("%w: duplicate entryId %q", ErrCorruptSession, e.EntryID)
		}
		seen[e.EntryID] = true
		if err := validateEntryPayload(&e); err != nil {
			return fmt.Errorf("%w: %v", ErrCorruptSession, err)
		}
	}
	return nil
}

// validateEntryPayload checks that an entry's kind agrees with its
// payload pointer. Shared by restore validation and inject validation
// so a malformed entry can enter the playlist through neither door.
func validateEntryPayload(e *Entry) error {
	switch e.Kind {
	case KindStatic:
		if e.Static == nil {
			return fmt.Errorf("static entry %q missing payload", e.EntryID)
		}
	case KindInjectedPractice:
		if e.Practice == nil {
			return fmt.Errorf("practice entry %q missing payload", e.EntryID)
		}
	case KindRetry:
		if e.Retry == nil {
			return fmt.Errorf("retry entry %q missing payload", e.EntryID)
		}
	default:
		return fmt.Errorf("entry %q has unknown kind %q", e.EntryID, e.Kind)
	}
	return nil
}

// Marshal serializes the session for the persistence collaborator.
func (s *Session) Marshal() ([]byte, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal session: %w", err)
	}
	return b, nil
}

// UnmarshalSession decodes and validates a persisted session blob.
func UnmarshalSession(raw []byte) (*Session, error) {
	var s Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSession, err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// latestGateResult returns the most recent attempt for a gate, or nil.
func (s *Session) latestGateResult(luID string) *GateResult {
	attempts := s.GateAttempts[luID]
	if len(attempts) == 0 {
		return nil
	}
	return &attempts[len(attempts)-1]
}

// failureCount counts failed attempts recorded for a gate.
func (s *Session) failureCount(luID string) int {
	n := 0
	for _, a := range s.GateAttempts[luID] {
		if !a.Passed {
			n++
		}
	}
	return n
}
