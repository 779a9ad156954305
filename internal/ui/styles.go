package ui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	headStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
	addStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	keepStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// Severity selects the styling of a message.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

// Render styles message for severity.
func Render(severity Severity, message string) string {
	switch severity {
	case SeverityWarning:
		return warnStyle.Render("! " + message)
	case SeverityError:
		return errStyle.Render("x " + message)
	default:
		return message
	}
}

// Table lays rows out in left-aligned columns under a bold header.
func Table(headers []string, rows [][]string) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i := 0; i < len(row) && i < len(widths); i++ {
			if w := lipgloss.Width(row[i]); w > widths[i] {
				widths[i] = w
			}
		}
	}

	line := func(cells []string, style lipgloss.Style) string {
		parts := make([]string, len(widths))
		for i := range widths {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			w := widths[i]
			if i < len(widths)-1 {
				w += 2
			}
			parts[i] = style.Width(w).Render(cell)
		}
		return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
	}

	out := line(headers, lipgloss.NewStyle().Bold(true))
	for _, row := range rows {
		out += "\n" + line(row, lipgloss.NewStyle())
	}
	return out
}
