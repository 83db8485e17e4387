package ui

import (
	"github.com/charmbracelet/lipgloss"

	"mqttop/internal/model"
)

type Styles struct {
	Header     lipgloss.Style
	Text       lipgloss.Style
	Error      lipgloss.Style
	Meta       lipgloss.Style
	Cursor     lipgloss.Style
	Status     lipgloss.Style
	StatusWarn lipgloss.Style
	Hint       lipgloss.Style
	PopupBox   lipgloss.Style
	PopupTitle lipgloss.Style
}

func NewStyles(dark bool) Styles {
	s := Styles{}
	if dark {
		s.Header = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
		s.Text = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
		s.Error = lipgloss.NewStyle().Underline(true).Foreground(lipgloss.Color("196"))
		s.Meta = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
		s.Cursor = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("220"))
		s.Status = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
		s.StatusWarn = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("220"))
		s.Hint = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
		s.PopupBox = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("60")).Padding(1, 2)
		s.PopupTitle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
	} else {
		s.Header = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("27"))
		s.Text = lipgloss.NewStyle()
		s.Error = lipgloss.NewStyle().Underline(true).Foreground(lipgloss.Color("124"))
		s.Meta = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
		s.Cursor = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("27"))
		s.Status = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
		s.StatusWarn = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("130"))
		s.Hint = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
		s.PopupBox = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("12")).Padding(1, 2)
		s.PopupTitle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("27"))
	}
	return s
}

// RowStyle maps a model style tag to its lipgloss style.
func (s Styles) RowStyle(tag model.Style) lipgloss.Style {
	switch tag {
	case model.StyleHeader:
		return s.Header
	case model.StyleError:
		return s.Error
	case model.StyleMeta:
		return s.Meta
	}
	return s.Text
}
