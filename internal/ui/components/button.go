package components

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/pathwise/pathwise/internal/ui/theme"
)

// ButtonVariant selects the active button's accent color.
type ButtonVariant int

const (
	// ButtonPrimary is the default action accent.
	ButtonPrimary ButtonVariant = iota
	// ButtonSuccess marks a completion action.
	ButtonSuccess
)

// Button is a styled button component.
type Button struct {
	Label   string
	Active  bool
	Variant ButtonVariant
	OnPress func() tea.Cmd
}

// NewButton creates a new button.
func NewButton(label string, active bool, onPress func() tea.Cmd) Button {
	return Button{
		Label:   label,
		Active:  active,
		OnPress: onPress,
	}
}

// Update handles key events.
func (b Button) Update(msg tea.Msg) (Button, tea.Cmd) {
	if !b.Active {
		return b, nil
	}

	if kmsg, ok := msg.(tea.KeyMsg); ok {
		if kmsg.String() == "enter" && b.OnPress != nil {
			return b, b.OnPress()
		}
	}

	return b, nil
}

// View renders the button.
func (b Button) View() string {
	label := "  ▸ " + b.Label + " "
	if !b.Active {
		return theme.ButtonInactive.Render(label)
	}

	accent := theme.Primary
	if b.Variant == ButtonSuccess {
		accent = theme.Success
	}
	return lipgloss.NewStyle().
		Background(accent).
		Foreground(theme.Text).
		Bold(true).
		Padding(0, 2).
		Render(label)
}
