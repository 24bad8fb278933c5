package playlist

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/pathwise/pathwise/internal/catalog"
)

// Engine owns the session state for one learner's attempt at one module.
// It is synchronous and performs no I/O; callers that share a session
// across goroutines must serialize access themselves.
type Engine struct {
	settings     *catalog.AdaptiveSettings
	units        []catalog.StaticLearningUnit
	unitsByID    map[string]*catalog.StaticLearningUnit
	policy       DecisionPolicy
	enrollmentID string
	moduleID     string
	priorNodes   map[string]NodeProgress

	session *Session
}

// NewEngine constructs an engine from the module's adaptive settings and
// ordered unit list. A nil settings value means off-mode behavior. The
// optional prior map seeds node progress for learners resuming with
// mastery history from earlier modules. No session exists until
// InitializePlaylist or RestoreSession is called.
func NewEngine(settings *catalog.AdaptiveSettings, units []catalog.StaticLearningUnit, enrollmentID, moduleID string, prior map[string]NodeProgress) *Engine {
	byID := make(map[string]*catalog.StaticLearningUnit, len(units))
	for i := range units {
		byID[units[i].ID] = &units[i]
	}
	return &Engine{
		settings:     settings,
		units:        units,
		unitsByID:    byID,
		policy:       policyForMode(settings.EffectiveMode()),
		enrollmentID: enrollmentID,
		moduleID:     moduleID,
		priorNodes:   prior,
	}
}

// InitializePlaylist derives a fresh session from the constructor's unit
// list, in list order. Any previously held session is discarded. An
// empty unit list yields a trivially complete session.
func (e *Engine) InitializePlaylist() *Session {
	entries := make([]Entry, 0, len(e.units))
	for i := range e.units {
		entries = append(entries, NewStaticEntry(&e.units[i]))
	}

	nodes := make(map[string]NodeProgress, len(e.priorNodes))
	for id, np := range e.priorNodes {
		nodes[id] = np
	}

	e.session = &Session{
		SessionID:    uuid.NewString(),
		EnrollmentID: e.enrollmentID,
		ModuleID:     e.moduleID,
		Playlist:     entries,
		CurrentIndex: 0,
		IsComplete:   len(entries) == 0,
		GateAttempts: make(map[string][]GateResult),
		NodeProgress: nodes,
	}
	return e.session
}

// RestoreSession replaces the engine's state wholesale with a previously
// serialized session, after checking the session invariants.
func (e *Engine) RestoreSession(saved *Session) error {
	if saved == nil {
		return fmt.Errorf("%w: nil session", ErrCorruptSession)
	}
	if err := saved.Validate(); err != nil {
		return err
	}
	if saved.GateAttempts == nil {
		saved.GateAttempts = make(map[string][]GateResult)
	}
	if saved.NodeProgress == nil {
		saved.NodeProgress = make(map[string]NodeProgress)
	}
	e.session = saved
	return nil
}

// Session returns the current session value, or nil before
// initialization. The value is plain data, safe to hand to a JSON
// encoder.
func (e *Engine) Session() *Session {
	return e.session
}

// IsComplete reports whether the learner has finished the module.
func (e *Engine) IsComplete() bool {
	return e.session != nil && e.session.IsComplete
}

// CurrentEntry returns the entry at the cursor, or nil once the session
// is complete or the cursor sits past the last entry.
func (e *Engine) CurrentEntry() *Entry {
	s := e.session
	if s == nil || s.IsComplete || s.CurrentIndex >= len(s.Playlist) {
		return nil
	}
	return &s.Playlist[s.CurrentIndex]
}

// ResolveNext produces the next navigation decision without mutating the
// session. The decision is a value; nothing changes until it is passed
// to ApplyDecision.
func (e *Engine) ResolveNext() Decision {
	if e.session == nil {
		return Decision{Action: ActionHold, Reason: "no session"}
	}
	return e.policy.Resolve(e.session, e.unitsByID)
}

// ApplyDecision mutates the session according to the decision. Decisions
// inconsistent with the entry at the cursor return ErrInvalidDecision
// and leave the session untouched.
func (e *Engine) ApplyDecision(d Decision) error {
	s := e.session
	if s == nil {
		return fmt.Errorf("%w: no session", ErrInvalidDecision)
	}

	switch d.Action {
	case ActionAdvance:
		if s.IsComplete || s.CurrentIndex >= len(s.Playlist) {
			return fmt.Errorf("%w: advance past end of playlist", ErrInvalidDecision)
		}
		s.CurrentIndex++
		return nil

	case ActionComplete:
		s.IsComplete = true
		return nil

	case ActionSkip:
		if s.IsComplete || s.CurrentIndex >= len(s.Playlist) {
			return fmt.Errorf("%w: skip past end of playlist", ErrInvalidDecision)
		}
		s.Playlist[s.CurrentIndex].Skipped = true
		s.CurrentIndex++
		return nil

	case ActionInject:
		if s.IsComplete {
			return fmt.Errorf("%w: inject into completed session", ErrInvalidDecision)
		}
		if len(d.Entries) == 0 {
			return fmt.Errorf("%w: inject carries no entries", ErrInvalidDecision)
		}
		existing := make(map[string]bool, len(s.Playlist))
		for _, en := range s.Playlist {
			existing[en.EntryID] = true
		}
		for i := range d.Entries {
			en := &d.Entries[i]
			if en.EntryID == "" || existing[en.EntryID] {
				return fmt.Errorf("%w: inject entry with missing or duplicate entryId %q", ErrInvalidDecision, en.EntryID)
			}
			if err := validateEntryPayload(en); err != nil {
				return fmt.Errorf("%w: %v", ErrInvalidDecision, err)
			}
			existing[en.EntryID] = true
		}
		e.splice(d.Entries)
		return nil

	case ActionRetry:
		if s.IsComplete {
			return fmt.Errorf("%w: retry in completed session", ErrInvalidDecision)
		}
		if d.LUID == "" {
			return fmt.Errorf("%w: retry names no learning unit", ErrInvalidDecision)
		}
		cur := e.CurrentEntry()
		if cur == nil || !entryReferencesGate(cur, d.LUID) {
			return fmt.Errorf("%w: retry of %q does not match current entry", ErrInvalidDecision, d.LUID)
		}
		e.splice([]Entry{e.buildRetryEntry(d.LUID)})
		return nil

	case ActionHold:
		return nil

	default:
		return fmt.Errorf("%w: unknown action %q", ErrInvalidDecision, d.Action)
	}
}

// splice inserts entries immediately after the cursor and jumps the
// cursor to the first of them.
func (e *Engine) splice(entries []Entry) {
	s := e.session
	at := s.CurrentIndex + 1
	rest := make([]Entry, len(s.Playlist[at:]))
	copy(rest, s.Playlist[at:])
	s.Playlist = append(s.Playlist[:at], entries...)
	s.Playlist = append(s.Playlist, rest...)
	s.CurrentIndex = at
}

// buildRetryEntry constructs a retry entry for a gate, numbering it by
// the retries already present so entry IDs stay unique.
func (e *Engine) buildRetryEntry(gateLUID string) Entry {
	n := 1
	for _, en := range e.session.Playlist {
		if en.Kind == KindRetry && en.Retry.GateLUID == gateLUID {
			n++
		}
	}
	title := "Retry: " + gateLUID
	if lu, ok := e.unitsByID[gateLUID]; ok {
		title = "Retry: " + lu.Title
	}
	return NewRetryEntry(fmt.Sprintf("retry-%s-%d", gateLUID, n), title, gateLUID)
}

// entryReferencesGate reports whether the entry is the gate itself, a
// retry of it, or practice injected for it.
func entryReferencesGate(en *Entry, gateLUID string) bool {
	if id, ok := en.GateLUID(); ok && id == gateLUID {
		return true
	}
	return en.Kind == KindInjectedPractice && en.Practice != nil && en.Practice.GateLUID == gateLUID
}

// GoToIndex moves the cursor directly for learner-initiated review.
// Out-of-range indexes are ignored. A successful navigation re-opens a
// completed session.
func (e *Engine) GoToIndex(index int) {
	s := e.session
	if s == nil || index < 0 || index >= len(s.Playlist) {
		return
	}
	s.CurrentIndex = index
	s.IsComplete = false
}

// RecordGateResult appends an attempt to the gate's log. Attempts are
// never overwritten, deduplicated, or reordered.
func (e *Engine) RecordGateResult(result GateResult) {
	s := e.session
	if s == nil {
		return
	}
	if s.GateAttempts == nil {
		s.GateAttempts = make(map[string][]GateResult)
	}
	s.GateAttempts[result.LUID] = append(s.GateAttempts[result.LUID], result)
}

// UpdateNodeProgress replaces the node's progress record wholesale. The
// scoring collaborator always supplies the complete aggregated record,
// so last write wins.
func (e *Engine) UpdateNodeProgress(nodeID string, record NodeProgress) {
	s := e.session
	if s == nil {
		return
	}
	if s.NodeProgress == nil {
		s.NodeProgress = make(map[string]NodeProgress)
	}
	s.NodeProgress[nodeID] = record
}
