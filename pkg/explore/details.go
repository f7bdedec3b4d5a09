package explore

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sigil-dev/sigil/pkg/types"
)

const hexBytesPerRow = 16

// detailsPane shows one match of the selected finding as an annotated
// hex dump with the matched bytes highlighted.
type detailsPane struct {
	finding     *findingRow
	matchCursor int
	offset      int // scroll offset into the dump
	width       int
	height      int
	focused     bool
}

func newDetailsPane() detailsPane {
	return detailsPane{}
}

func (dp *detailsPane) setFinding(f *findingRow) {
	dp.finding = f
	dp.matchCursor = 0
	dp.offset = 0
}

func (dp detailsPane) selectedMatch() *matchRow {
	if dp.finding == nil || dp.matchCursor < 0 || dp.matchCursor >= len(dp.finding.Matches) {
		return nil
	}
	return dp.finding.Matches[dp.matchCursor]
}

func (dp detailsPane) Update(msg tea.Msg) (detailsPane, tea.Cmd) {
	if !dp.focused {
		return dp, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case keyMatches(msg, defaultKeys.Up):
			if dp.offset > 0 {
				dp.offset--
			}
		case keyMatches(msg, defaultKeys.Down):
			dp.offset++
		case keyMatches(msg, defaultKeys.Left):
			if dp.matchCursor > 0 {
				dp.matchCursor--
				dp.offset = 0
			}
		case keyMatches(msg, defaultKeys.Right):
			if dp.finding != nil && dp.matchCursor < len(dp.finding.Matches)-1 {
				dp.matchCursor++
				dp.offset = 0
			}
		case keyMatches(msg, defaultKeys.Home):
			dp.offset = 0
		case keyMatches(msg, defaultKeys.PageDown):
			dp.offset += dp.visibleRows()
		case keyMatches(msg, defaultKeys.PageUp):
			dp.offset = max(0, dp.offset-dp.visibleRows())
		}
	}

	return dp, nil
}

func (dp detailsPane) View() string {
	if dp.width <= 0 || dp.height <= 0 {
		return ""
	}

	contentWidth := dp.width - 4

	var lines []string

	m := dp.selectedMatch()
	switch {
	case dp.finding == nil:
		lines = append(lines, "  No finding selected")
	case m == nil:
		lines = append(lines, "  No matches recorded for this finding")
	default:
		f := dp.finding

		lines = append(lines, fmt.Sprintf("  %s %s",
			fieldLabelStyle.Render("Signature:"),
			fieldValueStyle.Render(fmt.Sprintf("%s (%s)", f.SignatureName, f.SignatureID))))

		path := "(unknown)"
		if len(m.Paths) > 0 {
			path = strings.Join(m.Paths, ", ")
		}
		lines = append(lines, fmt.Sprintf("  %s %s",
			fieldLabelStyle.Render("File:"),
			fieldValueStyle.Render(truncateString(path, contentWidth-10))))

		lines = append(lines, fmt.Sprintf("  %s %s",
			fieldLabelStyle.Render("Blob:"),
			fieldValueStyle.Render(m.BlobID.Hex())))

		lines = append(lines, fmt.Sprintf("  %s %s–%s (anchor %s)",
			fieldLabelStyle.Render("Offset:"),
			types.FormatOffset(m.Location.Offset.Start),
			types.FormatOffset(m.Location.Offset.End),
			types.FormatOffset(m.Location.Anchor)))

		lines = append(lines, "")

		dump := hexDump(m)
		start := min(dp.offset, max(0, len(dump)-1))
		end := min(len(dump), start+dp.visibleRows()-len(lines))
		for _, row := range dump[start:end] {
			lines = append(lines, "  "+row)
		}
	}

	for len(lines) < dp.visibleRows() {
		lines = append(lines, "")
	}

	label := " Match"
	if dp.finding != nil && len(dp.finding.Matches) > 0 {
		label = fmt.Sprintf(" Match %d/%d", dp.matchCursor+1, len(dp.finding.Matches))
	}
	title := titleStyle.Render(label + " ")

	borderStyle := inactiveBorderStyle
	if dp.focused {
		borderStyle = activeBorderStyle
	}

	content := borderStyle.
		Width(dp.width - 2).
		Height(dp.height - 3).
		Render(strings.Join(lines, "\n"))

	return lipgloss.JoinVertical(lipgloss.Left, title, content)
}

func (dp detailsPane) visibleRows() int {
	return max(1, dp.height-5)
}

func (dp *detailsPane) setSize(w, h int) {
	dp.width = w
	dp.height = h
}

// hexDump renders the excerpt around a match as styled hex rows. Context
// bytes are dimmed, matched bytes highlighted.
func hexDump(m *matchRow) []string {
	rows := hexRows(m.Location.Offset.Start, m.Excerpt)
	out := make([]string, len(rows))
	for i, r := range rows {
		var hexCol strings.Builder
		for j, cell := range r.cells {
			if j > 0 {
				hexCol.WriteByte(' ')
			}
			pair := fmt.Sprintf("%02X", cell.value)
			if cell.matched {
				hexCol.WriteString(hexMatchStyle.Render(pair))
			} else {
				hexCol.WriteString(hexContextStyle.Render(pair))
			}
		}
		// Pad short rows so the ASCII column lines up.
		pad := (hexBytesPerRow - len(r.cells)) * 3
		out[i] = fmt.Sprintf("%s  %s%s  %s",
			types.FormatOffset(r.offset),
			hexCol.String(),
			strings.Repeat(" ", pad),
			types.PrintableASCII(r.raw))
	}
	return out
}

// hexCell is one byte of a dump row.
type hexCell struct {
	value   byte
	matched bool
}

// hexRow is one 16-byte line of a dump.
type hexRow struct {
	offset int64
	cells  []hexCell
	raw    []byte
}

// hexRows lays the excerpt out in 16-byte rows. Row offsets are absolute
// blob offsets: the first row starts at the match offset minus however
// many context bytes precede it.
func hexRows(matchStart int64, ex types.Excerpt) []hexRow {
	data := make([]hexCell, 0, len(ex.Before)+len(ex.Matching)+len(ex.After))
	for _, b := range ex.Before {
		data = append(data, hexCell{value: b})
	}
	for _, b := range ex.Matching {
		data = append(data, hexCell{value: b, matched: true})
	}
	for _, b := range ex.After {
		data = append(data, hexCell{value: b})
	}

	base := matchStart - int64(len(ex.Before))
	var rows []hexRow
	for i := 0; i < len(data); i += hexBytesPerRow {
		end := min(i+hexBytesPerRow, len(data))
		row := hexRow{offset: base + int64(i), cells: data[i:end]}
		row.raw = make([]byte, end-i)
		for j, c := range data[i:end] {
			row.raw[j] = c.value
		}
		rows = append(rows, row)
	}
	return rows
}
