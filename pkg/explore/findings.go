package explore

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// sortField defines which column to sort by.
type sortField int

const (
	sortBySignature sortField = iota
	sortByMatches
	sortBySize
	sortFieldCount // sentinel
)

var sortFieldNames = [sortFieldCount]string{
	"Signature", "Matches", "Size",
}

// findingsPane is the left-side findings table.
type findingsPane struct {
	rows    []*findingRow // filtered rows
	allRows []*findingRow // all rows (unfiltered)
	cursor  int
	offset  int // scroll offset
	sortBy  sortField
	filter  string
	width   int
	height  int
	focused bool
}

func newFindingsPane(rows []*findingRow) findingsPane {
	fp := findingsPane{allRows: rows}
	fp.applyFilter("")
	return fp
}

// applyFilter keeps rows whose signature ID or name contains the query,
// case-insensitive, then re-sorts.
func (fp *findingsPane) applyFilter(query string) {
	fp.filter = query
	q := strings.ToLower(query)
	fp.rows = fp.rows[:0]
	for _, r := range fp.allRows {
		if q == "" ||
			strings.Contains(strings.ToLower(r.SignatureID), q) ||
			strings.Contains(strings.ToLower(r.SignatureName), q) {
			fp.rows = append(fp.rows, r)
		}
	}
	fp.sortRows()
	if fp.cursor >= len(fp.rows) {
		fp.cursor = max(0, len(fp.rows)-1)
	}
	fp.ensureVisible()
}

func (fp *findingsPane) sortRows() {
	sort.SliceStable(fp.rows, func(i, j int) bool {
		a, b := fp.rows[i], fp.rows[j]
		switch fp.sortBy {
		case sortByMatches:
			if a.MatchCount != b.MatchCount {
				return a.MatchCount > b.MatchCount
			}
		case sortBySize:
			if len(a.Matched) != len(b.Matched) {
				return len(a.Matched) > len(b.Matched)
			}
		}
		if a.SignatureName != b.SignatureName {
			return a.SignatureName < b.SignatureName
		}
		return a.FindingID < b.FindingID
	})
}

func (fp findingsPane) selectedFinding() *findingRow {
	if fp.cursor < 0 || fp.cursor >= len(fp.rows) {
		return nil
	}
	return fp.rows[fp.cursor]
}

func (fp findingsPane) Update(msg tea.Msg) (findingsPane, tea.Cmd) {
	if !fp.focused {
		return fp, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case keyMatches(msg, defaultKeys.Up):
			if fp.cursor > 0 {
				fp.cursor--
			}
		case keyMatches(msg, defaultKeys.Down):
			if fp.cursor < len(fp.rows)-1 {
				fp.cursor++
			}
		case keyMatches(msg, defaultKeys.PageUp):
			fp.cursor = max(0, fp.cursor-fp.visibleRows())
		case keyMatches(msg, defaultKeys.PageDown):
			fp.cursor = min(len(fp.rows)-1, fp.cursor+fp.visibleRows())
			if fp.cursor < 0 {
				fp.cursor = 0
			}
		case keyMatches(msg, defaultKeys.Home):
			fp.cursor = 0
		case keyMatches(msg, defaultKeys.End):
			fp.cursor = max(0, len(fp.rows)-1)
		case keyMatches(msg, defaultKeys.SortNext):
			fp.sortBy = (fp.sortBy + 1) % sortFieldCount
			fp.sortRows()
		}
		fp.ensureVisible()
	}

	return fp, nil
}

func (fp findingsPane) View() string {
	if fp.width <= 0 || fp.height <= 0 {
		return ""
	}

	contentWidth := fp.width - 4 // borders
	colMatches := 7
	colBytes := min(24, contentWidth/3)
	colName := contentWidth - colBytes - colMatches - 3 // separators
	if colName < 10 {
		colName = 10
	}

	var b strings.Builder

	header := fmt.Sprintf(" %-*s %-*s %*s",
		colName, "Signature",
		colBytes, "Bytes",
		colMatches, "Matches",
	)
	b.WriteString(headerRowStyle.Width(contentWidth).Render(truncateString(header, contentWidth)))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", contentWidth))
	b.WriteString("\n")

	visibleEnd := min(fp.offset+fp.visibleRows(), len(fp.rows))
	for i := fp.offset; i < visibleEnd; i++ {
		row := fp.rows[i]

		line := fmt.Sprintf(" %-*s %-*s %*d",
			colName, truncateString(row.SignatureName, colName),
			colBytes, truncateString(hexPreview(row.Matched), colBytes),
			colMatches, row.MatchCount,
		)

		if i == fp.cursor && fp.focused {
			line = selectedRowStyle.Width(contentWidth).Render(line)
		}

		b.WriteString(padRight(line, contentWidth))
		if i < visibleEnd-1 {
			b.WriteString("\n")
		}
	}

	for i := visibleEnd - fp.offset; i < fp.visibleRows(); i++ {
		b.WriteString("\n")
	}

	label := fmt.Sprintf(" Findings (%d/%d) [sort: %s]", len(fp.rows), len(fp.allRows), sortFieldNames[fp.sortBy])
	if fp.filter != "" {
		label += fmt.Sprintf(" [filter: %s]", fp.filter)
	}
	title := titleStyle.Render(label + " ")

	borderStyle := inactiveBorderStyle
	if fp.focused {
		borderStyle = activeBorderStyle
	}

	content := borderStyle.
		Width(fp.width - 2).
		Height(fp.height - 3).
		Render(b.String())

	return lipgloss.JoinVertical(lipgloss.Left, title, content)
}

func (fp findingsPane) visibleRows() int {
	return max(1, fp.height-6) // title + border + header + separator
}

func (fp *findingsPane) ensureVisible() {
	if fp.cursor < fp.offset {
		fp.offset = fp.cursor
	}
	if fp.cursor >= fp.offset+fp.visibleRows() {
		fp.offset = fp.cursor - fp.visibleRows() + 1
	}
	if fp.offset < 0 {
		fp.offset = 0
	}
}

func (fp *findingsPane) setSize(w, h int) {
	fp.width = w
	fp.height = h
}

// hexPreview renders the leading matched bytes as spaced hex pairs.
func hexPreview(data []byte) string {
	const maxBytes = 8
	var b strings.Builder
	for i, v := range data {
		if i == maxBytes {
			b.WriteString(" …")
			break
		}
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%02X", v)
	}
	return b.String()
}

func truncateString(s string, width int) string {
	if width <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return string(r[:width-1]) + "…"
}

func padRight(s string, width int) string {
	if n := width - lipgloss.Width(s); n > 0 {
		return s + strings.Repeat(" ", n)
	}
	return s
}
