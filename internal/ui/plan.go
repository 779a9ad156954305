package ui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// ItemKind selects how a plan line is drawn.
type ItemKind int

const (
	ItemChange ItemKind = iota
	ItemUnchanged
	ItemWarning
)

// PlanItem is one line of a plan section.
type PlanItem struct {
	Text string
	Kind ItemKind
}

// PlanSection groups the pending changes of one sync step.
type PlanSection struct {
	Title string
	// Empty is shown when Items is empty.
	Empty string
	Items []PlanItem
}

// PlanView is what the plan viewer shows.
type PlanView struct {
	Title    string
	Sections []PlanSection
	// Applicable enables the apply key.
	Applicable bool
}

// RenderPlan draws view as plain styled text.
func RenderPlan(view PlanView) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(view.Title) + "\n\n")
	for _, line := range planLines(view) {
		b.WriteString(line + "\n")
	}
	return b.String()
}

func planLines(view PlanView) []string {
	var lines []string
	for _, section := range view.Sections {
		lines = append(lines, headStyle.Render(section.Title))
		if len(section.Items) == 0 {
			lines = append(lines, "  "+keepStyle.Render(section.Empty))
		}
		for _, item := range section.Items {
			lines = append(lines, "  "+renderItem(item))
		}
		lines = append(lines, "")
	}
	return lines
}

func renderItem(item PlanItem) string {
	switch item.Kind {
	case ItemUnchanged:
		return keepStyle.Render("= " + item.Text)
	case ItemWarning:
		return warnStyle.Render("! " + item.Text)
	default:
		return addStyle.Render("+ " + item.Text)
	}
}

// RunPlanViewer shows view full screen and reports whether the user chose
// to apply it.
func RunPlanViewer(ctx context.Context, view PlanView) (bool, error) {
	model := newPlanModel(view)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := program.Run()
	if err != nil {
		return false, err
	}
	if m, ok := final.(*planModel); ok {
		return m.apply, nil
	}
	return false, nil
}

type planModel struct {
	view     PlanView
	lines    []string
	offset   int
	height   int
	showHelp bool
	apply    bool
}

func newPlanModel(view PlanView) *planModel {
	return &planModel{view: view, lines: planLines(view), height: 20}
}

func (m *planModel) Init() tea.Cmd {
	return nil
}

func (m *planModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		// Title, blank line and footer.
		m.height = max(1, msg.Height-4)
		m.clamp()
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "a", "enter":
			if m.view.Applicable {
				m.apply = true
				return m, tea.Quit
			}
		case "up", "k":
			m.offset--
			m.clamp()
		case "down", "j":
			m.offset++
			m.clamp()
		case "pgup":
			m.offset -= m.height
			m.clamp()
		case "pgdown", " ":
			m.offset += m.height
			m.clamp()
		case "h", "?":
			m.showHelp = !m.showHelp
		}
	}
	return m, nil
}

func (m *planModel) clamp() {
	limit := len(m.lines) - m.height
	if m.offset > limit {
		m.offset = limit
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

func (m *planModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.view.Title) + "\n\n")

	if m.showHelp {
		b.WriteString(boxStyle.Render(strings.Join([]string{
			"q, esc, ctrl+c  Quit without changes",
			"a, enter        Apply the plan",
			"up/k, down/j    Scroll",
			"pgup, pgdown    Scroll a page",
			"h, ?            Toggle this help",
		}, "\n")) + "\n")
		return b.String()
	}

	end := min(len(m.lines), m.offset+m.height)
	for _, line := range m.lines[m.offset:end] {
		b.WriteString(line + "\n")
	}

	footer := "q quit | h help"
	if m.view.Applicable {
		footer = "a apply | " + footer
	}
	if len(m.lines) > m.height {
		footer += fmt.Sprintf(" | %d-%d of %d", m.offset+1, end, len(m.lines))
	}
	b.WriteString(helpStyle.Render(footer) + "\n")
	return b.String()
}
