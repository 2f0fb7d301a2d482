package ui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/message"

	"github.com/abelbrown/gamedash/internal/model"
)

// Fixed column widths; the name column takes what is left.
const (
	colTag   = 16
	colFree  = 4
	colScore = 7
	colRecs  = 11
	colAppID = 9

	// Row padding (2) plus one space between each of the six columns.
	rowChrome = 2 + 5

	minNameWidth = 12
)

type column struct {
	key   model.SortKey // empty for columns that are not sortable
	title string
	width int
	right bool
}

func columns(width int) []column {
	name := width - colTag - colFree - colScore - colRecs - colAppID - rowChrome
	if name < minNameWidth {
		name = minNameWidth
	}
	return []column{
		{key: model.SortByName, title: "Name", width: name},
		{title: "Genre", width: colTag},
		{title: "Free", width: colFree},
		{key: model.SortByMetacritic, title: "Score", width: colScore, right: true},
		{key: model.SortByRecommendations, title: "Recs", width: colRecs, right: true},
		{key: model.SortByAppID, title: "App ID", width: colAppID, right: true},
	}
}

// RenderTable renders the display list as a table with a header row,
// scrolled so the cursor row stays visible.
func RenderTable(games []model.Game, cursor, width, height int, view model.ViewState, p *message.Printer) string {
	if len(games) == 0 {
		return HelpStyle.Render("No games match this view. Press ] to change genre, f to toggle free, or r to refresh.")
	}

	cols := columns(width)
	var b strings.Builder
	b.WriteString(renderHeaderRow(cols, view))
	b.WriteString("\n")

	availableHeight := height - 1
	if availableHeight < 1 {
		availableHeight = 1
	}

	offset := calcScrollOffset(len(games), cursor, availableHeight)
	end := offset + availableHeight
	if end > len(games) {
		end = len(games)
	}

	for i := offset; i < end; i++ {
		b.WriteString(renderRow(games[i], i == cursor, cols, p))
		b.WriteString("\n")
	}

	return b.String()
}

// calcScrollOffset returns the first visible row such that cursor is on
// screen.
func calcScrollOffset(total, cursor, availableHeight int) int {
	if total == 0 || cursor < 0 {
		return 0
	}
	if cursor >= total {
		cursor = total - 1
	}
	if cursor >= availableHeight {
		return cursor - availableHeight + 1
	}
	return 0
}

func renderHeaderRow(cols []column, view model.ViewState) string {
	cells := make([]string, len(cols))
	for i, c := range cols {
		title := c.title
		style := ColumnHeader.Padding(0)
		if c.key != "" && c.key == view.SortKey {
			if view.Direction == model.Descending {
				title += " ▼"
			} else {
				title += " ▲"
			}
			style = SortedColumnHeader.Padding(0)
		}
		cells[i] = style.Render(fit(title, c.width, c.right))
	}
	return ColumnHeader.Render(strings.Join(cells, " "))
}

func renderRow(g model.Game, selected bool, cols []column, p *message.Printer) string {
	values := []string{
		g.Name,
		model.TagLabel(g),
		freeLabel(g.IsFree),
		formatOptional(p, g.MetacriticScore),
		formatOptional(p, g.RecommendationsCount),
		g.AppIDString(),
	}

	cells := make([]string, len(cols))
	for i, c := range cols {
		cells[i] = fit(values[i], c.width, c.right)
	}

	if selected {
		return SelectedRow.Render(strings.Join(cells, " "))
	}

	cells[1] = TagBadge.Render(cells[1])
	if g.IsFree {
		cells[2] = FreeBadge.Render(cells[2])
	}
	if g.MetacriticScore == nil {
		cells[3] = MetaItem.Render(cells[3])
	}
	return NormalRow.Render(strings.Join(cells, " "))
}

func freeLabel(free bool) string {
	if free {
		return "yes"
	}
	return ""
}

// formatOptional formats n with locale digit grouping, "-" when absent.
func formatOptional(p *message.Printer, n *int) string {
	if n == nil {
		return "-"
	}
	if p == nil {
		return fmt.Sprintf("%d", *n)
	}
	return p.Sprintf("%d", *n)
}

// fit truncates or pads s to exactly width display cells.
func fit(s string, width int, right bool) string {
	s = truncateRunes(s, width)
	pad := width - lipgloss.Width(s)
	if pad <= 0 {
		return s
	}
	if right {
		return strings.Repeat(" ", pad) + s
	}
	return s + strings.Repeat(" ", pad)
}

// truncateRunes shortens s to at most limit runes, marking the cut with "…".
func truncateRunes(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	if limit == 1 {
		return "…"
	}
	return string(runes[:limit-1]) + "…"
}
