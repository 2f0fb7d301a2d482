package ui

import "github.com/charmbracelet/lipgloss"

// Colors used in the application.
var (
	colorPrimary   = lipgloss.Color("62")  // Purple
	colorSecondary = lipgloss.Color("241") // Gray
	colorMuted     = lipgloss.Color("240") // Darker gray
	colorHighlight = lipgloss.Color("212") // Pink
	colorSuccess   = lipgloss.Color("78")  // Green
	colorError     = lipgloss.Color("196") // Red
	colorWarning   = lipgloss.Color("214") // Orange
)

// HeaderBar style for the top line showing the current view.
var HeaderBar = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("255")).
	Background(colorPrimary).
	Padding(0, 1)

// HeaderDim style for secondary text in the header.
var HeaderDim = lipgloss.NewStyle().
	Foreground(lipgloss.Color("252")).
	Background(colorPrimary)

// ColumnHeader style for table column titles.
var ColumnHeader = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorHighlight).
	Padding(0, 1)

// SortedColumnHeader marks the column the list is ordered by.
var SortedColumnHeader = ColumnHeader.
	Underline(true)

// SelectedRow style for the currently highlighted game.
var SelectedRow = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("255")).
	Background(colorPrimary).
	Padding(0, 1)

// NormalRow style for unselected games.
var NormalRow = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Padding(0, 1)

// TagBadge style for the primary tag column.
var TagBadge = lipgloss.NewStyle().
	Foreground(colorPrimary)

// FreeBadge marks free-to-play games.
var FreeBadge = lipgloss.NewStyle().
	Foreground(colorSuccess).
	Bold(true)

// MetaItem style for dim secondary values.
var MetaItem = lipgloss.NewStyle().
	Foreground(colorMuted)

// StatusBar style for the bottom status bar.
var StatusBar = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Background(lipgloss.Color("236")).
	Padding(0, 1)

// StatusBarKey style for key hints in status bar.
var StatusBarKey = lipgloss.NewStyle().
	Foreground(colorHighlight).
	Bold(true)

// StatusBarText style for descriptive text in status bar.
var StatusBarText = lipgloss.NewStyle().
	Foreground(colorSecondary)

// ErrorStyle for displaying errors.
var ErrorStyle = lipgloss.NewStyle().
	Foreground(colorError).
	Bold(true).
	Padding(0, 1)

// StaleStyle for the cached-data marker.
var StaleStyle = lipgloss.NewStyle().
	Foreground(colorWarning)

// HelpStyle for help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(colorMuted).
	Padding(1, 2)

// SyncBar style for the sync input bar.
var SyncBar = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Background(colorMuted).
	Padding(0, 1)

// SyncBarPrompt style for the sync prompt.
var SyncBarPrompt = lipgloss.NewStyle().
	Foreground(colorHighlight).
	Bold(true)

// ConfirmationText style for a successful sync.
var ConfirmationText = lipgloss.NewStyle().
	Foreground(colorSuccess)

// ChartPanel style for the aggregate charts.
var ChartPanel = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorMuted).
	Padding(0, 1)

// ChartTitle style for chart headings.
var ChartTitle = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorHighlight)

// ChartBar style for histogram bars.
var ChartBar = lipgloss.NewStyle().
	Foreground(colorPrimary)

// FreeBar and PaidBar colour the two halves of the split bar.
var (
	FreeBar = lipgloss.NewStyle().Foreground(colorSuccess)
	PaidBar = lipgloss.NewStyle().Foreground(colorSecondary)
)
