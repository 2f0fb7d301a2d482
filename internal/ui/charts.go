package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/abelbrown/gamedash/internal/aggregate"
)

const (
	maxChartLabel = 18
	minBarWidth   = 10

	// Panel border (2) plus horizontal padding (2).
	chartChrome = 4
)

// chartHeight returns how many lines RenderCharts will use for s with at
// most maxRows histogram rows.
func chartHeight(s aggregate.Summary, maxRows int) int {
	rows := len(s.Tags)
	if rows > maxRows {
		rows = maxRows + 1 // "+N more"
	}
	if rows == 0 {
		rows = 1
	}
	// Two titles, the split bar, a spacer, and the panel border.
	return rows + 4 + 2
}

// RenderCharts draws the genre histogram and the free/paid split as text
// bars inside a bordered panel. Bars are scaled to the largest bucket.
func RenderCharts(s aggregate.Summary, width, maxRows int) string {
	inner := width - chartChrome
	if inner < maxChartLabel+minBarWidth+8 {
		inner = maxChartLabel + minBarWidth + 8
	}

	var lines []string
	lines = append(lines, ChartTitle.Render(fmt.Sprintf("Games by genre (%d)", s.Tags.Total())))
	lines = append(lines, renderHistogram(s.Tags, inner, maxRows)...)
	lines = append(lines, "")
	lines = append(lines, ChartTitle.Render("Free vs paid"))
	lines = append(lines, renderSplit(s.Split, inner))

	return ChartPanel.Width(width - 2).Render(strings.Join(lines, "\n"))
}

func renderHistogram(h aggregate.Histogram, width, maxRows int) []string {
	if len(h) == 0 {
		return []string{MetaItem.Render("no games")}
	}

	labelWidth := 0
	for _, b := range h {
		labelWidth = max(labelWidth, lipgloss.Width(b.Label))
	}
	labelWidth = min(labelWidth, maxChartLabel)

	countWidth := len(fmt.Sprint(h.Max()))
	barWidth := width - labelWidth - countWidth - 2
	if barWidth < minBarWidth {
		barWidth = minBarWidth
	}

	shown := h
	if len(shown) > maxRows {
		shown = shown[:maxRows]
	}

	lines := make([]string, 0, len(shown)+1)
	peak := h.Max()
	for _, b := range shown {
		n := scale(b.Count, peak, barWidth)
		bar := ChartBar.Render(strings.Repeat("█", n))
		label := fit(b.Label, labelWidth, false)
		lines = append(lines, fmt.Sprintf("%s %s %*d", label, bar+strings.Repeat(" ", barWidth-n), countWidth, b.Count))
	}

	if hidden := len(h) - len(shown); hidden > 0 {
		lines = append(lines, MetaItem.Render(fmt.Sprintf("+%d more", hidden)))
	}
	return lines
}

func renderSplit(s aggregate.FreePaidSplit, width int) string {
	left := fmt.Sprintf("Free %d ", s.Free)
	right := fmt.Sprintf(" Paid %d", s.Paid)
	barWidth := width - len(left) - len(right)
	if barWidth < minBarWidth {
		barWidth = minBarWidth
	}

	free := scale(s.Free, s.Total(), barWidth)
	paid := barWidth - free
	if s.Total() == 0 {
		return MetaItem.Render(left + strings.Repeat("░", barWidth) + right)
	}
	return FreeBadge.Render(left) +
		FreeBar.Render(strings.Repeat("█", free)) +
		PaidBar.Render(strings.Repeat("█", paid)) +
		StatusBarText.Render(right)
}

// scale maps n in [0, total] onto [0, width], keeping any non-zero count
// visible.
func scale(n, total, width int) int {
	if total <= 0 || n <= 0 {
		return 0
	}
	w := n * width / total
	if w == 0 {
		w = 1
	}
	return w
}
