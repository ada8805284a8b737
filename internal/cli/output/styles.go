package output

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles used by text-mode rendering. When
// styling is disabled (non-TTY, markdown, json), every style is a no-op so
// rendered strings come out plain.
type Styles struct {
	Header1 lipgloss.Style
	Header2 lipgloss.Style
	Bold    lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Info    lipgloss.Style

	// Status icons, pre-rendered.
	StatusSuccess lipgloss.Style
	StatusFailed  lipgloss.Style
}

func newStyles(styled bool) *Styles {
	if !styled {
		plain := lipgloss.NewStyle()
		return &Styles{
			Header1:       plain,
			Header2:       plain,
			Bold:          plain,
			Muted:         plain,
			Success:       plain,
			Warning:       plain,
			Error:         plain,
			Info:          plain,
			StatusSuccess: plain.SetString("+"),
			StatusFailed:  plain.SetString("x"),
		}
	}

	return &Styles{
		Header1:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14")),
		Header2:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		Bold:          lipgloss.NewStyle().Bold(true),
		Muted:         lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Success:       lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		Warning:       lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		Error:         lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		Info:          lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		StatusSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("10")).SetString("✓"),
		StatusFailed:  lipgloss.NewStyle().Foreground(lipgloss.Color("9")).SetString("✗"),
	}
}
