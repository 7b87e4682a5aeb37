// Package tui renders the playground views with bubbletea.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/nulzo/image-playground/internal/cli"
)

var (
	dim = cli.RGB{R: 88, G: 88, B: 88}

	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(cli.BrandBlue.Hex()))
	headerStyle   = lipgloss.NewStyle().Bold(true).MarginTop(1)
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(cli.BrandPurple.Hex())).Bold(true)
	focusedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	urlStyle      = lipgloss.NewStyle().Underline(true).Foreground(lipgloss.Color("39"))

	buttonStyle = lipgloss.NewStyle().
			Padding(0, 2).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color(cli.BrandBlue.Hex()))
	buttonFocusedStyle  = buttonStyle.Background(lipgloss.Color(cli.BrandPurple.Hex())).Underline(true)
	buttonDisabledStyle = buttonStyle.Foreground(lipgloss.Color("245")).Background(lipgloss.Color("237"))

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(1, 2).
			MarginTop(1)
)

func newSpinner() spinner.Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = focusedStyle
	return s
}

// Run takes over the terminal until the view quits or ctx is cancelled.
func Run(ctx context.Context, m tea.Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}
