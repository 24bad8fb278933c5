package playlist

import "testing"

func TestDisplayEntries_GateStatus(t *testing.T) {
	e := guidedEngine(gatedModule())
	e.InitializePlaylist()

	views := e.DisplayEntries()
	if len(views) != 3 {
		t.Fatalf("views = %d, want 3", len(views))
	}

	if views[0].IsGate {
		t.Error("intro must not be flagged as a gate")
	}
	if views[0].GateStatus != "" {
		t.Errorf("non-gate GateStatus = %q, want empty", views[0].GateStatus)
	}
	if !views[1].IsGate {
		t.Error("checkpoint must be flagged as a gate")
	}
	if views[1].GateStatus != GatePending {
		t.Errorf("GateStatus = %q, want pending", views[1].GateStatus)
	}

	e.RecordGateResult(GateResult{LUID: "lu-gate", Passed: true, Score: 0.9, AttemptNumber: 1})
	if got := e.DisplayEntries()[1].GateStatus; got != GatePassed {
		t.Errorf("GateStatus = %q, want passed", got)
	}

	// Status tracks the latest attempt only.
	e.RecordGateResult(GateResult{LUID: "lu-gate", Passed: false, Score: 0.3, AttemptNumber: 2})
	if got := e.DisplayEntries()[1].GateStatus; got != GateFailed {
		t.Errorf("GateStatus = %q, want failed", got)
	}
}

func TestDisplayEntries_CursorFlags(t *testing.T) {
	e := offEngine(testUnits(3))
	e.InitializePlaylist()
	e.ApplyDecision(Decision{Action: ActionSkip})
	e.ApplyDecision(Decision{Action: ActionAdvance})

	views := e.DisplayEntries()

	if !views[0].IsSkipped || views[0].IsCompleted {
		t.Errorf("entry 0 = %+v, want skipped and not completed", views[0])
	}
	if !views[1].IsCompleted || views[1].IsSkipped {
		t.Errorf("entry 1 = %+v, want completed and not skipped", views[1])
	}
	if !views[2].IsCurrent {
		t.Errorf("entry 2 = %+v, want current", views[2])
	}
}

func TestDisplayEntries_NoCurrentAfterComplete(t *testing.T) {
	e := offEngine(testUnits(2))
	e.InitializePlaylist()
	e.ApplyDecision(Decision{Action: ActionComplete})

	for i, v := range e.DisplayEntries() {
		if v.IsCurrent {
			t.Errorf("entry %d flagged current in a completed session", i)
		}
	}
}

func TestDisplayEntries_InjectedKindsNeverGates(t *testing.T) {
	e := guidedEngine(gatedModule())
	e.InitializePlaylist()
	e.Session().CurrentIndex = 1
	e.RecordGateResult(GateResult{LUID: "lu-gate", Passed: false, Score: 0.4, AttemptNumber: 1})
	e.ApplyDecision(Decision{Action: ActionRetry, LUID: "lu-gate"})

	views := e.DisplayEntries()
	retry := views[2]
	if retry.Kind != KindRetry {
		t.Fatalf("entry 2 kind = %q, want retry", retry.Kind)
	}
	if retry.IsGate {
		t.Error("retry entries must not be flagged as gates")
	}
	if retry.GateStatus != "" {
		t.Errorf("retry GateStatus = %q, want empty", retry.GateStatus)
	}
}
