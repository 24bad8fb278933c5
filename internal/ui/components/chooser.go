package components

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/pathwise/pathwise/internal/ui/theme"
)

// Chooser is a single-answer option picker with a prompt. Once an
// option is chosen the chooser stops reacting to input until Reset.
type Chooser struct {
	Prompt    string
	Options   []string
	Selected  int
	Submitted bool
	Choice    int
}

// NewChooser creates a chooser over the given options.
func NewChooser(prompt string, options []string) Chooser {
	return Chooser{
		Prompt:  prompt,
		Options: options,
		Choice:  -1,
	}
}

// Init returns nil.
func (c Chooser) Init() tea.Cmd {
	return nil
}

// Update handles keyboard navigation and selection.
func (c Chooser) Update(msg tea.Msg) (Chooser, tea.Cmd) {
	if c.Submitted {
		return c, nil
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil
	}

	switch kmsg.String() {
	case "up", "k":
		if c.Selected > 0 {
			c.Selected--
		}
	case "down", "j":
		if c.Selected < len(c.Options)-1 {
			c.Selected++
		}
	case "enter":
		c.Submitted = true
		c.Choice = c.Selected
	}

	return c, nil
}

// View renders the chooser.
func (c Chooser) View() string {
	s := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(c.Prompt) + "\n\n"

	for i, opt := range c.Options {
		prefix := "  "
		if i == c.Selected && !c.Submitted {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%s", prefix, opt)

		switch {
		case c.Submitted && i == c.Choice:
			s += lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render(line) + "\n"
		case c.Submitted:
			s += lipgloss.NewStyle().Foreground(theme.TextDim).Render(line) + "\n"
		case i == c.Selected:
			s += lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(line) + "\n"
		default:
			s += lipgloss.NewStyle().Foreground(theme.Text).Render(line) + "\n"
		}
	}

	return s
}

// Reset clears the submission so the chooser can be reused.
func (c *Chooser) Reset() {
	c.Submitted = false
	c.Choice = -1
	c.Selected = 0
}
