package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	quitTextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	labelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(16)

	OKStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	WarnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	ErrorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)

// Row is one line of a key/value table.
type Row struct {
	Label string
	Value string
}

// Table renders rows as aligned "label value" lines under a title.
func Table(title string, rows []Row) string {
	var b strings.Builder
	fmt.Fprintln(&b, titleStyle.Render(title))
	for _, r := range rows {
		fmt.Fprintf(&b, "  %s %s\n", labelStyle.Render(r.Label), r.Value)
	}
	return b.String()
}
