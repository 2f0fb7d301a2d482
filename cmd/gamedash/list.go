package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"golang.org/x/text/message"

	"github.com/abelbrown/gamedash/internal/aggregate"
	"github.com/abelbrown/gamedash/internal/filter"
	"github.com/abelbrown/gamedash/internal/model"
)

// View flags shared by list and stats
var (
	genreFlag string
	freeFlag  bool
	sortFlag  string
	descFlag  bool
	jsonFlag  bool
)

// listCmd prints the display list
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the filtered and sorted game list",
	Long: `Load the collection and print it after applying the genre and
free-to-play filters and the chosen sort.

Sort keys: name, metacritic_score (score), recommendations_count (recs),
steam_appid (appid).`,
	Args: cobra.NoArgs,
	RunE: runList,
}

// genresCmd prints the genre filter options
var genresCmd = &cobra.Command{
	Use:   "genres",
	Short: "Print the genres available as filters",
	Args:  cobra.NoArgs,
	RunE:  runGenres,
}

// statsCmd prints the chart data
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print the genre histogram and free/paid split",
	Long: `Print the aggregates the dashboard charts are drawn from, computed
over the filtered list. Sort flags are accepted and ignored.`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

func init() {
	for _, c := range []*cobra.Command{listCmd, statsCmd} {
		c.Flags().StringVarP(&genreFlag, "genre", "g", "", "Only games whose primary genre is exactly this")
		c.Flags().BoolVar(&freeFlag, "free", false, "Only free-to-play games")
		c.Flags().StringVarP(&sortFlag, "sort", "s", "", "Sort key (default from config)")
		c.Flags().BoolVar(&descFlag, "desc", false, "Sort descending")
		c.Flags().BoolVar(&jsonFlag, "json", false, "Print JSON")
	}
	genresCmd.Flags().BoolVar(&jsonFlag, "json", false, "Print JSON")
}

// viewFromFlags starts from the configured view and applies the flags.
func viewFromFlags(cmd *cobra.Command, base model.ViewState) (model.ViewState, error) {
	v := base
	flags := cmd.Flags()
	if flags.Changed("genre") {
		v.Genre = genreFlag
	}
	if freeFlag {
		v.FreeOnly = true
	}
	if flags.Changed("sort") {
		key, err := model.ParseSortKey(sortFlag)
		if err != nil {
			return v, err
		}
		v.SortKey = key
	}
	if descFlag {
		v.Direction = model.Descending
	}
	return v, nil
}

// loadGames refreshes the collection. When the backend is down and a cached
// snapshot exists, the cached games are returned with a warning.
func loadGames(ctx context.Context, cmd *cobra.Command, e *env) ([]model.Game, error) {
	err := e.catalog.Refresh(ctx)
	if err == nil {
		return e.catalog.Games(), nil
	}
	if e.cachedAt.IsZero() {
		return nil, err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v; showing cached data from %s\n", err, e.cachedAt.Local().Format("2006-01-02 15:04"))
	return e.catalog.Games(), nil
}

func runList(cmd *cobra.Command, _ []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	defer e.close()

	view, err := viewFromFlags(cmd, e.cfg.View())
	if err != nil {
		return err
	}

	games, err := loadGames(cmd.Context(), cmd, e)
	if err != nil {
		return err
	}

	display := filter.Apply(games, view, e.cfg.LocaleTag())
	if jsonFlag {
		return writeJSON(cmd.OutOrStdout(), display)
	}

	p := message.NewPrinter(e.cfg.LocaleTag())
	fmt.Fprintln(cmd.OutOrStdout(), renderGameTable(display, p))
	fmt.Fprintf(cmd.OutOrStdout(), "%d of %d games · %s · sorted by %s %s\n",
		len(display), len(games), view.GenreLabel(), view.SortKey.Label(), view.Direction)
	return nil
}

func runGenres(cmd *cobra.Command, _ []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	defer e.close()

	games, err := loadGames(cmd.Context(), cmd, e)
	if err != nil {
		return err
	}

	options := filter.GenreOptions(games)
	if jsonFlag {
		return writeJSON(cmd.OutOrStdout(), options)
	}
	for _, o := range options {
		fmt.Fprintln(cmd.OutOrStdout(), o)
	}
	return nil
}

func runStats(cmd *cobra.Command, _ []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	defer e.close()

	view, err := viewFromFlags(cmd, e.cfg.View())
	if err != nil {
		return err
	}

	games, err := loadGames(cmd.Context(), cmd, e)
	if err != nil {
		return err
	}

	summary := aggregate.Compute(filter.Apply(games, view, e.cfg.LocaleTag()))
	if jsonFlag {
		return writeJSON(cmd.OutOrStdout(), summary)
	}

	fmt.Fprintln(cmd.OutOrStdout(), renderSummary(summary))
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)
var numberStyle = cellStyle.Align(lipgloss.Right)

func renderGameTable(games []model.Game, p *message.Printer) string {
	rows := make([][]string, len(games))
	for i, g := range games {
		free := ""
		if g.IsFree {
			free = "yes"
		}
		rows[i] = []string{
			g.Name,
			model.TagLabel(g),
			free,
			optional(p, g.MetacriticScore),
			optional(p, g.RecommendationsCount),
			g.AppIDString(),
		}
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Name", "Genre", "Free", "Score", "Recs", "App ID").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col >= 3:
				return numberStyle
			default:
				return cellStyle
			}
		}).
		String()
}

func renderSummary(s aggregate.Summary) string {
	rows := make([][]string, 0, len(s.Tags)+1)
	for _, b := range s.Tags {
		rows = append(rows, []string{b.Label, fmt.Sprint(b.Count)})
	}

	genres := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Genre", "Games").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 1:
				return numberStyle
			default:
				return cellStyle
			}
		}).
		String()

	split := fmt.Sprintf("Free %d · Paid %d · Total %d", s.Split.Free, s.Split.Paid, s.Split.Total())
	return genres + "\n" + split
}

func optional(p *message.Printer, n *int) string {
	if n == nil {
		return "-"
	}
	return p.Sprintf("%d", *n)
}
