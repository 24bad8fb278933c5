// Package player implements the playlist player screen: the learner's
// path through a module, gate attempts, and session persistence.
package player

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/pathwise/pathwise/internal/catalog"
	"github.com/pathwise/pathwise/internal/playlist"
	"github.com/pathwise/pathwise/internal/router"
	"github.com/pathwise/pathwise/internal/store"
	"github.com/pathwise/pathwise/internal/ui/components"
	"github.com/pathwise/pathwise/internal/ui/layout"
	"github.com/pathwise/pathwise/internal/ui/theme"
)

// mode tracks which input surface owns the keyboard.
type mode int

const (
	modeBrowse mode = iota
	modeGate
	modeJump
	modeDone
)

// Gate attempt outcomes offered by the chooser. Scores are illustrative
// stand-ins for a real assessment result.
const (
	passScore = 0.9
	failScore = 0.4
)

// PlayerScreen drives a learner session for one module.
type PlayerScreen struct {
	def    *catalog.ModuleDefinition
	units  map[string]*catalog.StaticLearningUnit
	engine *playlist.Engine
	st     *store.Store
	rec    *store.SessionRecord

	mode       mode
	gatePrompt components.Chooser
	gateLUID   string
	jumpInput  components.TextInput
	doneButton components.Button
	notice     string
	saveErr    error
}

var _ router.Screen = (*PlayerScreen)(nil)
var _ router.KeyHintProvider = (*PlayerScreen)(nil)

// New creates the player over an initialized or restored engine.
func New(def *catalog.ModuleDefinition, engine *playlist.Engine, st *store.Store, rec *store.SessionRecord) *PlayerScreen {
	p := &PlayerScreen{
		def:    def,
		units:  def.UnitIndex(),
		engine: engine,
		st:     st,
		rec:    rec,
	}
	p.doneButton = components.NewButton("Back to Home", true, func() tea.Cmd {
		return func() tea.Msg { return router.PopScreenMsg{} }
	})
	p.doneButton.Variant = components.ButtonSuccess
	if engine.IsComplete() {
		p.mode = modeDone
	}
	return p
}

func (p *PlayerScreen) Init() tea.Cmd {
	return nil
}

func (p *PlayerScreen) Title() string {
	return p.def.Title
}

func (p *PlayerScreen) KeyHints() []layout.KeyHint {
	switch p.mode {
	case modeGate:
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Choose"},
			{Key: "Enter", Description: "Record"},
			{Key: "Esc", Description: "Back"},
		}
	case modeJump:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Go"},
			{Key: "Esc", Description: "Cancel"},
		}
	case modeDone:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Home"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	default:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Continue"},
			{Key: "g", Description: "Go to step"},
			{Key: "Esc", Description: "Home"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
}

func (p *PlayerScreen) Update(msg tea.Msg) (router.Screen, tea.Cmd) {
	switch p.mode {
	case modeGate:
		return p.updateGate(msg)
	case modeJump:
		return p.updateJump(msg)
	case modeDone:
		var cmd tea.Cmd
		p.doneButton, cmd = p.doneButton.Update(msg)
		return p, cmd
	default:
		return p.updateBrowse(msg)
	}
}

func (p *PlayerScreen) updateBrowse(msg tea.Msg) (router.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}

	switch kmsg.String() {
	case "enter", " ":
		p.step()
	case "g":
		if !p.jumpAllowed() {
			p.notice = "This module does not allow jumping between steps."
			return p, nil
		}
		p.jumpInput = components.NewTextInput("step number", true, 4)
		p.mode = modeJump
		return p, p.jumpInput.Init()
	}
	return p, nil
}

// jumpAllowed reports whether learner-initiated navigation is on:
// always in off mode, by module setting in guided mode.
func (p *PlayerScreen) jumpAllowed() bool {
	s := p.def.Settings
	if s.EffectiveMode() == catalog.ModeOff {
		return true
	}
	return s.AllowLearnerChoice
}

// step resolves the next decision and applies it, opening the gate
// prompt when the path is blocked on an unattempted checkpoint.
func (p *PlayerScreen) step() {
	p.notice = ""

	d := p.engine.ResolveNext()
	switch d.Action {
	case playlist.ActionHold:
		if d.LUID != "" && gateAwaitsAttempt(p.engine.Session(), d.LUID) {
			p.openGatePrompt(d.LUID)
			return
		}
		p.notice = holdNotice(d)
		return

	case playlist.ActionComplete:
		p.apply(d)
		p.mode = modeDone
		return

	default:
		p.apply(d)
	}
}

// gateAwaitsAttempt reports whether the hold is waiting on a fresh
// attempt rather than an exhausted retry budget.
func gateAwaitsAttempt(s *playlist.Session, gateLUID string) bool {
	slots := 0
	for i := 0; i <= s.CurrentIndex && i < len(s.Playlist); i++ {
		if id, ok := s.Playlist[i].GateLUID(); ok && id == gateLUID {
			slots++
		}
	}
	return len(s.GateAttempts[gateLUID]) < slots
}

func holdNotice(d playlist.Decision) string {
	if d.Reason != "" {
		return "Held: " + d.Reason
	}
	return "Held at checkpoint."
}

func (p *PlayerScreen) openGatePrompt(gateLUID string) {
	lu := p.units[gateLUID]
	title := gateLUID
	if lu != nil {
		title = lu.Title
	}
	p.gateLUID = gateLUID
	p.gatePrompt = components.NewChooser(
		fmt.Sprintf("Checkpoint: %s — record attempt outcome", title),
		[]string{
			fmt.Sprintf("Passed (score %.0f%%)", passScore*100),
			fmt.Sprintf("Failed (score %.0f%%)", failScore*100),
		},
	)
	p.mode = modeGate
}

func (p *PlayerScreen) updateGate(msg tea.Msg) (router.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok && kmsg.String() == "esc" {
		p.mode = modeBrowse
		return p, nil
	}

	var cmd tea.Cmd
	p.gatePrompt, cmd = p.gatePrompt.Update(msg)

	if p.gatePrompt.Submitted {
		passed := p.gatePrompt.Choice == 0
		p.recordGateAttempt(p.gateLUID, passed)
		p.mode = modeBrowse
		p.step()
	}
	return p, cmd
}

// recordGateAttempt appends a gate result and refreshes node mastery
// for the nodes the checkpoint assesses.
func (p *PlayerScreen) recordGateAttempt(gateLUID string, passed bool) {
	lu := p.units[gateLUID]

	var assessed []string
	if lu != nil && lu.Adaptive != nil {
		assessed = lu.Adaptive.AssessesNodes
	}

	score := passScore
	var failedNodes []string
	if !passed {
		score = failScore
		failedNodes = assessed
	}

	sess := p.engine.Session()
	attemptNumber := len(sess.GateAttempts[gateLUID]) + 1

	p.engine.RecordGateResult(playlist.GateResult{
		LUID:          gateLUID,
		Passed:        passed,
		Score:         score,
		AttemptNumber: attemptNumber,
		FailedNodes:   failedNodes,
	})

	for _, node := range assessed {
		prior := sess.NodeProgress[node]
		p.engine.UpdateNodeProgress(node, playlist.NodeProgress{
			Mastery:  score,
			Attempts: prior.Attempts + 1,
		})
	}

	p.persist()
}

func (p *PlayerScreen) updateJump(msg tea.Msg) (router.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "esc":
			p.mode = modeBrowse
			return p, nil
		case "enter":
			n, err := p.jumpInput.NumericValue()
			if err == nil && n >= 1 && n <= len(p.engine.Session().Playlist) {
				p.engine.GoToIndex(n - 1)
				p.persist()
				p.mode = modeBrowse
			} else {
				p.jumpInput.Submit(false)
			}
			return p, nil
		}
	}

	var cmd tea.Cmd
	p.jumpInput, cmd = p.jumpInput.Update(msg)
	return p, cmd
}

// apply mutates the session through the engine and persists the result.
func (p *PlayerScreen) apply(d playlist.Decision) {
	if err := p.engine.ApplyDecision(d); err != nil {
		p.notice = err.Error()
		return
	}
	if d.Reason != "" {
		p.notice = d.Reason
	}
	p.persist()
}

func (p *PlayerScreen) persist() {
	if p.st == nil {
		return
	}
	data, err := p.engine.Session().Marshal()
	if err != nil {
		p.saveErr = err
		return
	}
	p.rec.Data = data
	p.saveErr = p.st.SaveSession(context.Background(), p.rec)
}

func (p *PlayerScreen) View(width, height int) string {
	if p.mode == modeDone {
		return p.viewDone(width, height)
	}

	entries := p.engine.DisplayEntries()
	completedCount := 0
	for _, e := range entries {
		if e.IsCompleted || e.IsSkipped {
			completedCount++
		}
	}

	var b strings.Builder

	bar := components.NewProgressBar(
		"Progress",
		progressPercent(completedCount, len(entries)),
		true,
		min(width-4, 60),
	)
	if completedCount == len(entries) && len(entries) > 0 {
		bar.Tone = theme.Success
	}
	b.WriteString("  " + bar.View() + "\n\n")

	for i, e := range entries {
		b.WriteString(renderEntryLine(i, e) + "\n")
	}

	switch p.mode {
	case modeGate:
		b.WriteString("\n" + indentBlock(p.gatePrompt.View()))
	case modeJump:
		b.WriteString("\n  Go to step: " + p.jumpInput.View() + "\n")
	}

	if p.notice != "" {
		b.WriteString("\n" + theme.Hint.Render("  "+p.notice) + "\n")
	}
	if p.saveErr != nil {
		b.WriteString("\n" + lipgloss.NewStyle().Foreground(theme.Error).
			Render("  save failed: "+p.saveErr.Error()) + "\n")
	}

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Render(b.String())
}

func (p *PlayerScreen) viewDone(width, height int) string {
	entries := p.engine.DisplayEntries()
	skipped := 0
	for _, e := range entries {
		if e.IsSkipped {
			skipped++
		}
	}

	lines := []string{
		theme.Title.Render("Module complete!"),
		"",
		theme.Body.Render(fmt.Sprintf("%d steps · %d skipped", len(entries), skipped)),
		"",
		p.doneButton.View(),
	}

	card := theme.Card.Render(strings.Join(lines, "\n"))

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(card)
}

// renderEntryLine renders one playlist row with its status marker.
func renderEntryLine(i int, e playlist.DisplayEntry) string {
	marker := "  "
	style := theme.Unselected
	switch {
	case e.IsCurrent:
		marker = "▸ "
		style = theme.Selected
	case e.IsSkipped:
		marker = "− "
		style = theme.SkippedItem
	case e.IsCompleted:
		marker = "✓ "
		style = theme.Completed
	}

	line := fmt.Sprintf("  %s%2d. %s", marker, i+1, e.Title)

	if e.Kind == playlist.KindInjectedPractice {
		line += " " + theme.Hint.Render("(practice)")
	}

	if e.IsGate {
		switch e.GateStatus {
		case playlist.GatePassed:
			line += " " + theme.GatePassed.Render("[PASSED]")
		case playlist.GateFailed:
			line += " " + theme.GateFailed.Render("[FAILED]")
		default:
			line += " " + theme.GatePending.Render("[CHECKPOINT]")
		}
	}

	return style.Render(line)
}

func progressPercent(done, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(done) / float64(total)
}

func indentBlock(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = "  " + l
		}
	}
	return strings.Join(lines, "\n")
}
