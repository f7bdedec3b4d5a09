// Package explore is an interactive TUI for browsing the findings in a
// scan database: a findings table on the left and a hex-dump view of the
// selected match on the right.
package explore

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// focusedPane tracks which pane has keyboard focus.
type focusedPane int

const (
	paneFindings focusedPane = iota
	paneDetails
)

// Model is the root Bubble Tea model for the explore TUI.
type Model struct {
	data     *exploreData
	findings findingsPane
	details  detailsPane

	focus     focusedPane
	showHelp  bool
	filtering bool
	filterBuf string

	width  int
	height int
}

// New creates a Model by loading findings from the given database path.
func New(dbPath string) (Model, error) {
	data, err := loadData(dbPath)
	if err != nil {
		return Model{}, err
	}
	return newModel(data), nil
}

func newModel(data *exploreData) Model {
	m := Model{
		data:     data,
		findings: newFindingsPane(data.findings),
		details:  newDetailsPane(),
		focus:    paneFindings,
	}
	m.findings.focused = true
	m.details.setFinding(m.findings.selectedFinding())
	return m
}

// Close releases the underlying store.
func (m Model) Close() error {
	if m.data != nil {
		return m.data.close()
	}
	return nil
}

func (m Model) Init() tea.Cmd {
	return tea.SetWindowTitle("sigil explore")
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		return m, nil

	case tea.KeyMsg:
		if m.filtering {
			return m.updateFilterInput(msg)
		}
		if m.showHelp {
			m.showHelp = false
			return m, nil
		}

		switch {
		case keyMatches(msg, defaultKeys.ForceQuit), keyMatches(msg, defaultKeys.Quit):
			return m, tea.Quit
		case keyMatches(msg, defaultKeys.ToggleHelp):
			m.showHelp = true
			return m, nil
		case keyMatches(msg, defaultKeys.NextPane):
			m.switchFocus()
			return m, nil
		case keyMatches(msg, defaultKeys.Filter):
			m.filtering = true
			m.filterBuf = m.findings.filter
			return m, nil
		case keyMatches(msg, defaultKeys.ClearFilter):
			m.findings.applyFilter("")
			m.details.setFinding(m.findings.selectedFinding())
			return m, nil
		}

		return m.updatePanes(msg)
	}

	return m, nil
}

func (m Model) updateFilterInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter, tea.KeyEsc:
		m.filtering = false
	case tea.KeyBackspace:
		if len(m.filterBuf) > 0 {
			m.filterBuf = m.filterBuf[:len(m.filterBuf)-1]
		}
	case tea.KeyRunes, tea.KeySpace:
		m.filterBuf += string(msg.Runes)
	default:
		return m, nil
	}
	m.findings.applyFilter(m.filterBuf)
	m.details.setFinding(m.findings.selectedFinding())
	return m, nil
}

func (m Model) updatePanes(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case paneFindings:
		before := m.findings.selectedFinding()
		m.findings, cmd = m.findings.Update(msg)
		if after := m.findings.selectedFinding(); after != before {
			m.details.setFinding(after)
		}
	case paneDetails:
		m.details, cmd = m.details.Update(msg)
	}
	return m, cmd
}

func (m *Model) switchFocus() {
	if m.focus == paneFindings {
		m.focus = paneDetails
	} else {
		m.focus = paneFindings
	}
	m.findings.focused = m.focus == paneFindings
	m.details.focused = m.focus == paneDetails
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	paneHeight := m.height - 1 // footer
	leftWidth := m.width * 2 / 5
	if leftWidth < 30 {
		leftWidth = min(30, m.width)
	}
	m.findings.setSize(leftWidth, paneHeight)
	m.details.setSize(m.width-leftWidth, paneHeight)
}

func (m Model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}

	if m.showHelp {
		return renderHelp()
	}

	panes := lipgloss.JoinHorizontal(lipgloss.Top, m.findings.View(), m.details.View())

	footer := " q quit · tab switch pane · j/k move · h/l match · s sort · / filter · ? help"
	if m.filtering {
		footer = " filter: " + m.filterBuf + "█  (enter/esc to finish)"
	}

	return lipgloss.JoinVertical(lipgloss.Left, panes, footerStyle.Render(truncateString(footer, m.width)))
}

func renderHelp() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(" sigil explore ") + "\n\n")
	rows := [][2]string{
		{"j/k, up/down", "move within the focused pane"},
		{"h/l, left/right", "previous/next match of the finding"},
		{"C-f / C-b", "page down / page up"},
		{"g / G", "jump to top / bottom"},
		{"tab", "switch between findings and match panes"},
		{"s", "cycle findings sort (signature, matches, size)"},
		{"/", "filter findings by signature"},
		{"C-r", "clear the filter"},
		{"?", "toggle this help"},
		{"q, C-c", "quit"},
	}
	for _, r := range rows {
		b.WriteString(fieldLabelStyle.Render("  "+padRight(r[0], 18)) + r[1] + "\n")
	}
	b.WriteString("\n" + footerStyle.Render("  press any key to return"))
	return b.String()
}
