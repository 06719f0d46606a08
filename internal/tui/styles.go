package tui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

type Styles struct {
	Status lipgloss.Style
	Error  lipgloss.Style
	Prompt lipgloss.Style
	Table  table.Styles
}

func NewStyles() Styles {
	s := Styles{
		Status: lipgloss.NewStyle().Foreground(lipgloss.Color("243")),
		Error:  lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		Prompt: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81")),
		Table:  table.DefaultStyles(),
	}
	s.Table.Header = lipgloss.NewStyle().Bold(true).PaddingRight(1)
	s.Table.Cell = lipgloss.NewStyle().PaddingRight(1)
	s.Table.Selected = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("220"))
	return s
}
