package playlist

// GateStatus is the display state of a gate entry.
type GateStatus string

const (
	GatePending GateStatus = "pending"
	GatePassed  GateStatus = "passed"
	GateFailed  GateStatus = "failed"
)

// DisplayEntry is the read-only view of one playlist entry for
// presentation surfaces.
type DisplayEntry struct {
	EntryID     string
	Title       string
	Kind        EntryKind
	IsCurrent   bool
	IsCompleted bool
	IsSkipped   bool
	IsGate      bool
	GateStatus  GateStatus
}

// DisplayEntries projects every playlist entry, in order, into its
// display view. The projection is pure: it is recomputed from session
// state on every call, with no cache to fall out of sync.
func (e *Engine) DisplayEntries() []DisplayEntry {
	s := e.session
	if s == nil {
		return nil
	}

	views := make([]DisplayEntry, 0, len(s.Playlist))
	for i := range s.Playlist {
		en := &s.Playlist[i]
		view := DisplayEntry{
			EntryID:     en.EntryID,
			Title:       en.Title,
			Kind:        en.Kind,
			IsCurrent:   i == s.CurrentIndex && !s.IsComplete,
			IsCompleted: i < s.CurrentIndex && !en.Skipped,
			IsSkipped:   i < s.CurrentIndex && en.Skipped,
		}

		// Gate flags only apply to static entries backed by a gate
		// unit; injected kinds are never gates.
		if en.Kind == KindStatic {
			if lu, ok := e.unitsByID[en.Static.LUID]; ok && lu.IsGate() {
				view.IsGate = true
				view.GateStatus = e.gateStatus(lu.ID)
			}
		}

		views = append(views, view)
	}
	return views
}

// gateStatus derives a gate's display state from the latest recorded
// attempt, pending when none exists.
func (e *Engine) gateStatus(luID string) GateStatus {
	latest := e.session.latestGateResult(luID)
	switch {
	case latest == nil:
		return GatePending
	case latest.Passed:
		return GatePassed
	default:
		return GateFailed
	}
}
