// Package home implements the module landing screen.
package home

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/pathwise/pathwise/internal/catalog"
	"github.com/pathwise/pathwise/internal/playlist"
	"github.com/pathwise/pathwise/internal/router"
	"github.com/pathwise/pathwise/internal/screens/player"
	"github.com/pathwise/pathwise/internal/store"
	"github.com/pathwise/pathwise/internal/ui/components"
	"github.com/pathwise/pathwise/internal/ui/theme"
)

// HomeScreen is the application landing screen: it shows the loaded
// module and offers resume or fresh-start into the player.
type HomeScreen struct {
	menu         components.Menu
	def          *catalog.ModuleDefinition
	st           *store.Store
	enrollmentID string
	hasSaved     bool
	loadErr      error
}

var _ router.Screen = (*HomeScreen)(nil)

// New creates the home screen for a loaded module definition.
func New(def *catalog.ModuleDefinition, st *store.Store, enrollmentID string) *HomeScreen {
	h := &HomeScreen{
		def:          def,
		st:           st,
		enrollmentID: enrollmentID,
	}

	var saved *store.SessionRecord
	if st != nil {
		saved, h.loadErr = st.LoadSession(context.Background(), enrollmentID, def.ID)
	}
	h.hasSaved = saved != nil

	items := []components.MenuItem{
		{
			Label:    "RESUME SESSION",
			Disabled: !h.hasSaved,
			Action: func() tea.Cmd {
				return h.openPlayer(true)
			},
		},
		{
			Label: "START FRESH",
			Action: func() tea.Cmd {
				return h.openPlayer(false)
			},
		},
		{
			Label:  "QUIT",
			Action: func() tea.Cmd { return tea.Quit },
		},
	}
	h.menu = components.NewMenu(items)
	return h
}

// openPlayer builds the engine (restoring the saved session when asked)
// and pushes the player screen.
func (h *HomeScreen) openPlayer(resume bool) tea.Cmd {
	return func() tea.Msg {
		engine := playlist.NewEngine(
			h.def.Settings,
			h.def.UnitsBySequence(),
			h.enrollmentID,
			h.def.ID,
			nil,
		)

		rec := &store.SessionRecord{
			EnrollmentID: h.enrollmentID,
			ModuleID:     h.def.ID,
		}

		if resume && h.st != nil {
			saved, err := h.st.LoadSession(context.Background(), h.enrollmentID, h.def.ID)
			if err == nil && saved != nil {
				sess, uerr := playlist.UnmarshalSession(saved.Data)
				if uerr == nil && engine.RestoreSession(sess) == nil {
					rec = saved
				}
			}
		}

		if engine.Session() == nil {
			engine.InitializePlaylist()
		}

		return router.PushScreenMsg{
			Screen: player.New(h.def, engine, h.st, rec),
		}
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (router.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	var sections []string

	title := theme.Title.Width(width).Render(h.def.Title)
	sections = append(sections, title)

	gates := 0
	for i := range h.def.Units {
		if h.def.Units[i].IsGate() {
			gates++
		}
	}
	mode := h.def.Settings.EffectiveMode()
	stats := theme.Subtitle.Width(width).Render(fmt.Sprintf(
		"%d units · %d checkpoints · %s mode", len(h.def.Units), gates, mode))
	sections = append(sections, stats)

	if h.loadErr != nil {
		sections = append(sections, lipgloss.NewStyle().
			Foreground(theme.Error).
			Width(width).
			Align(lipgloss.Center).
			Render("could not read saved session: "+h.loadErr.Error()))
	} else if h.hasSaved {
		sections = append(sections, theme.Hint.Width(width).
			Align(lipgloss.Center).
			Render("A saved session exists for this module."))
	}

	menu := lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Render(h.menu.View())
	sections = append(sections, menu)

	content := strings.Join(sections, "\n\n")

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

func (h *HomeScreen) Title() string {
	return "Home"
}
