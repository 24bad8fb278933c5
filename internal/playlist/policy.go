package playlist

import (
	"fmt"

	"github.com/pathwise/pathwise/internal/catalog"
)

// SkipMasteryThreshold is the node mastery level at or above which the
// guided policy considers a taught node already known.
const SkipMasteryThreshold = 0.8

// defaultPracticeQuestions is used for injected practice when the gate
// does not declare a minimum question count.
const defaultPracticeQuestions = 3

// DecisionPolicy resolves the next navigation decision for a session.
// Implementations must be read-only: Resolve never mutates the session.
// One policy exists per adaptive mode; new modes are additive.
type DecisionPolicy interface {
	Resolve(s *Session, units map[string]*catalog.StaticLearningUnit) Decision
}

// policyForMode selects the decision policy at engine construction time.
func policyForMode(mode catalog.Mode) DecisionPolicy {
	switch mode {
	case catalog.ModeGuided:
		return guidedPolicy{}
	default:
		return sequentialPolicy{}
	}
}

// sequentialPolicy is the off-mode passthrough: advance until the last
// entry, then complete. Gate metadata on units is ignored entirely.
type sequentialPolicy struct{}

func (sequentialPolicy) Resolve(s *Session, _ map[string]*catalog.StaticLearningUnit) Decision {
	return sequentialStep(s)
}

// sequentialStep implements the shared advance-or-complete tail used by
// every policy once nothing blocks the cursor.
func sequentialStep(s *Session) Decision {
	if s.IsComplete || s.CurrentIndex >= len(s.Playlist) {
		return Decision{Action: ActionComplete}
	}
	if s.CurrentIndex == len(s.Playlist)-1 {
		return Decision{Action: ActionComplete}
	}
	return Decision{Action: ActionAdvance}
}

// guidedPolicy evaluates gates, retry budgets, remedial injection, and
// mastery-based skipping before falling back to sequential movement.
type guidedPolicy struct{}

func (p guidedPolicy) Resolve(s *Session, units map[string]*catalog.StaticLearningUnit) Decision {
	if s.IsComplete || s.CurrentIndex >= len(s.Playlist) {
		return Decision{Action: ActionComplete}
	}
	cur := &s.Playlist[s.CurrentIndex]

	// Gate entries (and retries of them) block until passed.
	if gateID, ok := cur.GateLUID(); ok {
		if lu := units[gateID]; lu != nil && lu.IsGate() {
			return p.resolveGate(s, lu)
		}
	}

	// A practice block injected for a failed gate routes the learner
	// back into a retry of that gate.
	if cur.Kind == KindInjectedPractice && cur.Practice.GateLUID != "" {
		if lu := units[cur.Practice.GateLUID]; lu != nil && lu.IsGate() {
			latest := s.latestGateResult(lu.ID)
			if latest != nil && !latest.Passed && withinRetryBudget(s, lu) {
				return retryDecision(s, lu)
			}
		}
	}

	// Skippable content whose taught nodes are already mastered.
	if cur.Kind == KindStatic {
		if lu := units[cur.Static.LUID]; lu != nil && lu.IsSkippable() && allNodesMastered(s, lu.Adaptive.TeachesNodes) {
			return Decision{
				Action: ActionSkip,
				Reason: fmt.Sprintf("nodes taught by %q already mastered", lu.ID),
			}
		}
	}

	return sequentialStep(s)
}

func (p guidedPolicy) resolveGate(s *Session, lu *catalog.StaticLearningUnit) Decision {
	// Each gate or retry entry reached represents one attempt slot.
	// Until a result is recorded for the slot at the cursor, progress
	// holds; resolving early must not queue more remediation.
	if len(s.GateAttempts[lu.ID]) < attemptSlots(s, lu.ID) {
		return Decision{
			Action: ActionHold,
			Reason: "gate not yet attempted",
			LUID:   lu.ID,
		}
	}
	latest := s.latestGateResult(lu.ID)
	if latest.Passed {
		return sequentialStep(s)
	}

	if !withinRetryBudget(s, lu) {
		// Only the hold strategy exists today; unknown strategies
		// degrade to it rather than letting the learner through.
		return Decision{
			Action: ActionHold,
			Reason: "gate retry budget exhausted",
			LUID:   lu.ID,
		}
	}

	// Remediate before retrying when the attempt identified weak nodes
	// and practice for this gate is not already queued next.
	if len(latest.FailedNodes) > 0 && !practiceQueuedNext(s, lu.ID) {
		gc := lu.GateConfig()
		count := defaultPracticeQuestions
		if gc != nil && gc.MinQuestions > 0 {
			count = gc.MinQuestions
		}
		entry := NewPracticeEntry(
			fmt.Sprintf("practice-%s-%d", lu.ID, s.failureCount(lu.ID)),
			fmt.Sprintf("Practice: %s", lu.Title),
			latest.FailedNodes,
			count,
			lu.ID,
		)
		return Decision{
			Action:  ActionInject,
			Reason:  fmt.Sprintf("remediate nodes failed at gate %q", lu.ID),
			Entries: []Entry{entry},
		}
	}

	return retryDecision(s, lu)
}

// withinRetryBudget reports whether another attempt at the gate is
// allowed. The first failure is not a retry, so a budget of N permits
// N+1 failed attempts before the gate holds.
func withinRetryBudget(s *Session, lu *catalog.StaticLearningUnit) bool {
	gc := lu.GateConfig()
	if gc == nil {
		return false
	}
	return s.failureCount(lu.ID)-1 < gc.MaxRetries
}

func retryDecision(s *Session, lu *catalog.StaticLearningUnit) Decision {
	return Decision{
		Action: ActionRetry,
		Reason: fmt.Sprintf("gate %q failed within retry budget", lu.ID),
		LUID:   lu.ID,
	}
}

// attemptSlots counts the entries at or before the cursor that call for
// an attempt at the gate: its static entry plus any spliced retries.
func attemptSlots(s *Session, gateLUID string) int {
	n := 0
	for i := 0; i <= s.CurrentIndex && i < len(s.Playlist); i++ {
		if id, ok := s.Playlist[i].GateLUID(); ok && id == gateLUID {
			n++
		}
	}
	return n
}

// practiceQueuedNext reports whether the entry after the cursor is
// already an injected practice block for the given gate.
func practiceQueuedNext(s *Session, gateLUID string) bool {
	next := s.CurrentIndex + 1
	if next >= len(s.Playlist) {
		return false
	}
	e := &s.Playlist[next]
	return e.Kind == KindInjectedPractice && e.Practice != nil && e.Practice.GateLUID == gateLUID
}

// allNodesMastered reports whether every listed node meets the skip
// threshold. An empty node list never qualifies.
func allNodesMastered(s *Session, nodes []string) bool {
	if len(nodes) == 0 {
		return false
	}
	for _, n := range nodes {
		if s.NodeProgress[n].Mastery < SkipMasteryThreshold {
			return false
		}
	}
	return true
}
