package playlist

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/pathwise/pathwise/internal/catalog"
)

func testUnits(n int) []catalog.StaticLearningUnit {
	units := make([]catalog.StaticLearningUnit, 0, n)
	for i := 1; i <= n; i++ {
		units = append(units, catalog.StaticLearningUnit{
			ID:        fmt.Sprintf("lu-%d", i),
			Title:     fmt.Sprintf("Unit %d", i),
			Type:      "video",
			ContentID: fmt.Sprintf("vid-%d", i),
			Sequence:  i,
		})
	}
	return units
}

func offEngine(units []catalog.StaticLearningUnit) *Engine {
	return NewEngine(&catalog.AdaptiveSettings{Mode: catalog.ModeOff}, units, "enr-1", "mod-1", nil)
}

func TestInitializePlaylist(t *testing.T) {
	e := offEngine(testUnits(3))
	s := e.InitializePlaylist()

	if len(s.Playlist) != 3 {
		t.Fatalf("playlist length = %d, want 3", len(s.Playlist))
	}
	if s.CurrentIndex != 0 {
		t.Errorf("CurrentIndex = %d, want 0", s.CurrentIndex)
	}
	if s.IsComplete {
		t.Error("expected IsComplete to be false")
	}
	if s.EnrollmentID != "enr-1" || s.ModuleID != "mod-1" {
		t.Errorf("identity = (%s, %s), want (enr-1, mod-1)", s.EnrollmentID, s.ModuleID)
	}
}

func TestInitializePlaylist_EntryIDDeterminism(t *testing.T) {
	e := offEngine(testUnits(2))
	s := e.InitializePlaylist()

	for i, want := range []string{"static-lu-1", "static-lu-2"} {
		if s.Playlist[i].EntryID != want {
			t.Errorf("entry %d ID = %q, want %q", i, s.Playlist[i].EntryID, want)
		}
		if s.Playlist[i].Kind != KindStatic {
			t.Errorf("entry %d kind = %q, want %q", i, s.Playlist[i].Kind, KindStatic)
		}
	}
}

func TestInitializePlaylist_Empty(t *testing.T) {
	e := offEngine(nil)
	s := e.InitializePlaylist()

	if len(s.Playlist) != 0 {
		t.Errorf("playlist length = %d, want 0", len(s.Playlist))
	}
	if !s.IsComplete {
		t.Error("expected empty module to be trivially complete")
	}
	if e.CurrentEntry() != nil {
		t.Error("expected nil current entry on empty module")
	}
}

func TestSequentialPassthrough(t *testing.T) {
	// Off mode and absent settings must behave identically.
	engines := map[string]*Engine{
		"off-mode":    offEngine(testUnits(3)),
		"no-settings": NewEngine(nil, testUnits(3), "enr-1", "mod-1", nil),
	}

	for name, e := range engines {
		t.Run(name, func(t *testing.T) {
			e.InitializePlaylist()

			for i := 0; i < 2; i++ {
				d := e.ResolveNext()
				if d.Action != ActionAdvance {
					t.Fatalf("step %d: action = %q, want advance", i, d.Action)
				}
				if err := e.ApplyDecision(d); err != nil {
					t.Fatalf("step %d: apply: %v", i, err)
				}
				if e.IsComplete() {
					t.Fatalf("step %d: session complete too early", i)
				}
			}

			if e.Session().CurrentIndex != 2 {
				t.Errorf("CurrentIndex = %d, want 2", e.Session().CurrentIndex)
			}

			// At the last entry the decision is complete, not advance.
			d := e.ResolveNext()
			if d.Action != ActionComplete {
				t.Fatalf("final action = %q, want complete", d.Action)
			}
			if err := e.ApplyDecision(d); err != nil {
				t.Fatalf("apply complete: %v", err)
			}
			if !e.IsComplete() {
				t.Error("expected IsComplete after complete decision")
			}
			if e.CurrentEntry() != nil {
				t.Error("expected nil current entry after completion")
			}
		})
	}
}

func TestAdvancePastLastEntry_DoesNotComplete(t *testing.T) {
	e := offEngine(testUnits(2))
	e.InitializePlaylist()

	// Callers may advance manually; only an explicit complete decision
	// flips the flag.
	for i := 0; i < 2; i++ {
		if err := e.ApplyDecision(Decision{Action: ActionAdvance}); err != nil {
			t.Fatalf("advance %d: %v", i, err)
		}
	}

	s := e.Session()
	if s.CurrentIndex != 2 {
		t.Errorf("CurrentIndex = %d, want 2 (boundary)", s.CurrentIndex)
	}
	if s.IsComplete {
		t.Error("advancing past the last entry must not set IsComplete")
	}
	if e.CurrentEntry() != nil {
		t.Error("expected nil current entry at boundary index")
	}
}

func TestResolveNext_DoesNotMutate(t *testing.T) {
	e := offEngine(testUnits(3))
	e.InitializePlaylist()

	before, err := e.Session().Marshal()
	if err != nil {
		t.Fatal(err)
	}
	e.ResolveNext()
	after, err := e.Session().Marshal()
	if err != nil {
		t.Fatal(err)
	}

	if string(before) != string(after) {
		t.Error("ResolveNext mutated the session")
	}
}

func TestSerializationRoundTrip(t *testing.T) {
	e := offEngine(testUnits(3))
	e.InitializePlaylist()
	e.ApplyDecision(Decision{Action: ActionAdvance})
	e.RecordGateResult(GateResult{LUID: "lu-2", Passed: false, Score: 0.4, AttemptNumber: 1, FailedNodes: []string{"node-a"}})
	e.UpdateNodeProgress("node-a", NodeProgress{Mastery: 0.55, Attempts: 3})

	raw, err := e.Session().Marshal()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	restored, err := UnmarshalSession(raw)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	orig := e.Session()
	if restored.EnrollmentID != orig.EnrollmentID {
		t.Errorf("EnrollmentID = %q, want %q", restored.EnrollmentID, orig.EnrollmentID)
	}
	if restored.ModuleID != orig.ModuleID {
		t.Errorf("ModuleID = %q, want %q", restored.ModuleID, orig.ModuleID)
	}
	if len(restored.Playlist) != len(orig.Playlist) {
		t.Errorf("playlist length = %d, want %d", len(restored.Playlist), len(orig.Playlist))
	}
	if restored.CurrentIndex != orig.CurrentIndex {
		t.Errorf("CurrentIndex = %d, want %d", restored.CurrentIndex, orig.CurrentIndex)
	}

	// Byte-for-byte round trip.
	again, err := restored.Marshal()
	if err != nil {
		t.Fatalf("re-marshal: %v", err)
	}
	if string(again) != string(raw) {
		t.Error("serialization round trip is not byte-stable")
	}

	// Restoring into a fresh engine points at the same entry.
	fresh := offEngine(testUnits(3))
	if err := fresh.RestoreSession(restored); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if got, want := fresh.CurrentEntry().EntryID, e.CurrentEntry().EntryID; got != want {
		t.Errorf("restored current entry = %q, want %q", got, want)
	}
}

func TestRestoreSession_Corrupt(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Session)
		rawJSON string
	}{
		{name: "cursor out of bounds", mutate: func(s *Session) { s.CurrentIndex = 99 }},
		{name: "negative cursor", mutate: func(s *Session) { s.CurrentIndex = -1 }},
		{name: "empty enrollment", mutate: func(s *Session) { s.EnrollmentID = "" }},
		{name: "kind payload mismatch", mutate: func(s *Session) { s.Playlist[0].Static = nil }},
		{name: "duplicate entry ids", mutate: func(s *Session) { s.Playlist[1].EntryID = s.Playlist[0].EntryID }},
		{name: "unknown kind", mutate: func(s *Session) { s.Playlist[0].Kind = "mystery" }},
		{name: "not json", rawJSON: "{nope"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var err error
			if tt.rawJSON != "" {
				_, err = UnmarshalSession([]byte(tt.rawJSON))
			} else {
				e := offEngine(testUnits(2))
				s := e.InitializePlaylist()
				tt.mutate(s)
				fresh := offEngine(testUnits(2))
				err = fresh.RestoreSession(s)
			}
			if !errors.Is(err, ErrCorruptSession) {
				t.Errorf("error = %v, want ErrCorruptSession", err)
			}
		})
	}
}

func TestGoToIndex(t *testing.T) {
	e := offEngine(testUnits(3))
	e.InitializePlaylist()
	e.Session().CurrentIndex = 2

	tests := []struct {
		name  string
		index int
		want  int
	}{
		{"negative ignored", -1, 2},
		{"past end ignored", 3, 2},
		{"valid backward", 0, 0},
		{"valid forward", 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e.Session().CurrentIndex = 2
			e.GoToIndex(tt.index)
			if got := e.Session().CurrentIndex; got != tt.want {
				t.Errorf("CurrentIndex = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestGoToIndex_ReopensCompletedSession(t *testing.T) {
	e := offEngine(testUnits(2))
	e.InitializePlaylist()
	e.ApplyDecision(Decision{Action: ActionComplete})

	e.GoToIndex(0)

	if e.IsComplete() {
		t.Error("expected GoToIndex to clear IsComplete")
	}
	if cur := e.CurrentEntry(); cur == nil || cur.EntryID != "static-lu-1" {
		t.Errorf("current entry = %v, want static-lu-1", cur)
	}

	// An out-of-range jump must not reopen the session.
	e.ApplyDecision(Decision{Action: ActionComplete})
	e.GoToIndex(5)
	if !e.IsComplete() {
		t.Error("out-of-range GoToIndex must leave IsComplete set")
	}
}

func TestRecordGateResult_Accumulates(t *testing.T) {
	e := offEngine(testUnits(1))
	e.InitializePlaylist()

	const n = 4
	for i := 1; i <= n; i++ {
		e.RecordGateResult(GateResult{
			LUID:          "lu-1",
			Passed:        i%2 == 0,
			Score:         float64(i) / 10,
			AttemptNumber: i,
		})
	}

	attempts := e.Session().GateAttempts["lu-1"]
	if len(attempts) != n {
		t.Fatalf("attempts = %d, want %d", len(attempts), n)
	}
	for i, a := range attempts {
		if a.AttemptNumber != i+1 {
			t.Errorf("attempt %d: AttemptNumber = %d, want %d", i, a.AttemptNumber, i+1)
		}
		if a.Score != float64(i+1)/10 {
			t.Errorf("attempt %d: Score = %f, want %f", i, a.Score, float64(i+1)/10)
		}
	}
}

func TestUpdateNodeProgress_LastWriteWins(t *testing.T) {
	e := offEngine(testUnits(1))
	e.InitializePlaylist()

	e.UpdateNodeProgress("node-a", NodeProgress{Mastery: 0.3, Attempts: 2})
	e.UpdateNodeProgress("node-a", NodeProgress{Mastery: 0.9, Attempts: 7})

	got := e.Session().NodeProgress["node-a"]
	if got.Mastery != 0.9 || got.Attempts != 7 {
		t.Errorf("NodeProgress = %+v, want {0.9 7}", got)
	}
}

func TestApplyDecision_InjectSpliceAndJump(t *testing.T) {
	e := offEngine(testUnits(4))
	e.InitializePlaylist()
	e.Session().CurrentIndex = 1

	injected := []Entry{
		NewPracticeEntry("practice-a", "Practice A", []string{"node-a"}, 3, ""),
		NewPracticeEntry("practice-b", "Practice B", []string{"node-b"}, 3, ""),
	}
	if err := e.ApplyDecision(Decision{Action: ActionInject, Entries: injected}); err != nil {
		t.Fatalf("apply inject: %v", err)
	}

	s := e.Session()
	if len(s.Playlist) != 6 {
		t.Fatalf("playlist length = %d, want 6", len(s.Playlist))
	}
	if s.Playlist[2].EntryID != "practice-a" || s.Playlist[3].EntryID != "practice-b" {
		t.Errorf("injected entries at positions 2,3 = %q,%q", s.Playlist[2].EntryID, s.Playlist[3].EntryID)
	}
	if s.CurrentIndex != 2 {
		t.Errorf("CurrentIndex = %d, want 2 (jumped into injection)", s.CurrentIndex)
	}
	// Original tail preserved.
	if s.Playlist[4].EntryID != "static-lu-3" || s.Playlist[5].EntryID != "static-lu-4" {
		t.Errorf("tail = %q,%q, want static-lu-3,static-lu-4", s.Playlist[4].EntryID, s.Playlist[5].EntryID)
	}
}

func TestApplyDecision_RetrySplice(t *testing.T) {
	units := testUnits(2)
	units[0].Adaptive = gateDescriptor(0.8, 2)
	e := offEngine(units)
	e.InitializePlaylist()

	if err := e.ApplyDecision(Decision{Action: ActionRetry, LUID: "lu-1"}); err != nil {
		t.Fatalf("apply retry: %v", err)
	}

	s := e.Session()
	if len(s.Playlist) != 3 {
		t.Fatalf("playlist length = %d, want 3", len(s.Playlist))
	}
	re := s.Playlist[1]
	if re.Kind != KindRetry {
		t.Errorf("spliced kind = %q, want retry", re.Kind)
	}
	if re.Retry.GateLUID != "lu-1" {
		t.Errorf("retry gate = %q, want lu-1", re.Retry.GateLUID)
	}
	if s.CurrentIndex != 1 {
		t.Errorf("CurrentIndex = %d, want 1", s.CurrentIndex)
	}
}

// gateDescriptor builds a gate descriptor for tests.
func gateDescriptor(threshold float64, maxRetries int) *catalog.AdaptiveDescriptor {
	return &catalog.AdaptiveDescriptor{
		AssessesNodes: []string{"node-a"},
		IsGate:        true,
		Gate: &catalog.GateConfig{
			MasteryThreshold: threshold,
			MinQuestions:     5,
			MaxRetries:       maxRetries,
			FailStrategy:     catalog.FailHold,
		},
	}
}

func TestApplyDecision_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		prepare  func(*Engine)
		decision Decision
	}{
		{
			name:     "advance past boundary",
			prepare:  func(e *Engine) { e.Session().CurrentIndex = 2 },
			decision: Decision{Action: ActionAdvance},
		},
		{
			name:     "inject after complete",
			prepare:  func(e *Engine) { e.ApplyDecision(Decision{Action: ActionComplete}) },
			decision: Decision{Action: ActionInject, Entries: []Entry{NewPracticeEntry("p", "P", nil, 1, "")}},
		},
		{
			name:     "inject without entries",
			prepare:  func(e *Engine) {},
			decision: Decision{Action: ActionInject},
		},
		{
			name:     "inject duplicate entry id",
			prepare:  func(e *Engine) {},
			decision: Decision{Action: ActionInject, Entries: []Entry{{EntryID: "static-lu-1", Kind: KindInjectedPractice, Practice: &PracticePayload{}}}},
		},
		{
			name:    "inject entries sharing an id",
			prepare: func(e *Engine) {},
			decision: Decision{Action: ActionInject, Entries: []Entry{
				{EntryID: "p-1", Kind: KindInjectedPractice, Practice: &PracticePayload{}},
				{EntryID: "p-1", Kind: KindInjectedPractice, Practice: &PracticePayload{}},
			}},
		},
		{
			name:     "inject static entry without payload",
			prepare:  func(e *Engine) {},
			decision: Decision{Action: ActionInject, Entries: []Entry{{EntryID: "bad-1", Kind: KindStatic}}},
		},
		{
			name:     "inject practice entry without payload",
			prepare:  func(e *Engine) {},
			decision: Decision{Action: ActionInject, Entries: []Entry{{EntryID: "bad-2", Kind: KindInjectedPractice}}},
		},
		{
			name:     "inject entry of unknown kind",
			prepare:  func(e *Engine) {},
			decision: Decision{Action: ActionInject, Entries: []Entry{{EntryID: "bad-3", Kind: "mystery"}}},
		},
		{
			name:     "retry of non-current unit",
			prepare:  func(e *Engine) {},
			decision: Decision{Action: ActionRetry, LUID: "lu-2"},
		},
		{
			name:     "unknown action",
			prepare:  func(e *Engine) {},
			decision: Decision{Action: "teleport"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := offEngine(testUnits(2))
			e.InitializePlaylist()
			tt.prepare(e)

			before, _ := json.Marshal(e.Session())
			err := e.ApplyDecision(tt.decision)
			if !errors.Is(err, ErrInvalidDecision) {
				t.Fatalf("error = %v, want ErrInvalidDecision", err)
			}
			after, _ := json.Marshal(e.Session())
			if string(before) != string(after) {
				t.Error("invalid decision mutated the session")
			}
		})
	}
}

func TestApplyDecision_RejectedInjectLeavesSessionUsable(t *testing.T) {
	e := guidedEngine(gatedModule())
	e.InitializePlaylist()

	err := e.ApplyDecision(Decision{Action: ActionInject, Entries: []Entry{
		{EntryID: "bad-1", Kind: KindStatic},
	}})
	if !errors.Is(err, ErrInvalidDecision) {
		t.Fatalf("error = %v, want ErrInvalidDecision", err)
	}

	if verr := e.Session().Validate(); verr != nil {
		t.Fatalf("session invalid after rejected inject: %v", verr)
	}
	if got := len(e.DisplayEntries()); got != 3 {
		t.Errorf("display entries = %d, want 3", got)
	}
	if d := e.ResolveNext(); d.Action == "" {
		t.Error("ResolveNext produced no decision after rejected inject")
	}
}

func TestInitializePlaylist_SeedsPriorProgress(t *testing.T) {
	prior := map[string]NodeProgress{"node-a": {Mastery: 0.95, Attempts: 12}}
	e := NewEngine(nil, testUnits(1), "enr-1", "mod-1", prior)
	s := e.InitializePlaylist()

	if got := s.NodeProgress["node-a"]; got.Mastery != 0.95 {
		t.Errorf("seeded mastery = %f, want 0.95", got.Mastery)
	}

	// Seed map is copied, not aliased.
	e.UpdateNodeProgress("node-a", NodeProgress{Mastery: 0.1})
	if prior["node-a"].Mastery != 0.95 {
		t.Error("engine mutated the caller's prior progress map")
	}
}
