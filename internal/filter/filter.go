// Package filter derives the display list from the raw game collection.
// All functions are pure: []Game in, new []Game out. Inputs are never mutated.
package filter

import (
	"cmp"
	"slices"

	"github.com/abelbrown/gamedash/internal/model"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// DefaultLocale is used for name ordering when no locale is configured.
var DefaultLocale = language.English

// ByGenre keeps only games whose primary tag equals tag exactly.
// model.AllGenres keeps everything.
func ByGenre(games []model.Game, tag string) []model.Game {
	result := make([]model.Game, 0, len(games))
	for _, g := range games {
		if tag == model.AllGenres {
			result = append(result, g)
			continue
		}
		if primary, ok := model.PrimaryTag(g); ok && primary == tag {
			result = append(result, g)
		}
	}
	return result
}

// FreeOnly keeps only free-to-play games.
func FreeOnly(games []model.Game) []model.Game {
	result := make([]model.Game, 0, len(games))
	for _, g := range games {
		if g.IsFree {
			result = append(result, g)
		}
	}
	return result
}

// Sort returns a sorted copy of games.
//
// Names compare with the collation rules of locale. Numeric keys treat a
// missing value as lower than any present value, so missing values lead in
// ascending order and trail in descending order. Games with equal keys end
// up in no particular relative order.
func Sort(games []model.Game, key model.SortKey, dir model.Direction, locale language.Tag) []model.Game {
	result := slices.Clone(games)
	if result == nil {
		result = []model.Game{}
	}

	compare := comparator(key, locale)
	if dir == model.Descending {
		asc := compare
		compare = func(a, b model.Game) int { return -asc(a, b) }
	}

	slices.SortFunc(result, compare)
	return result
}

// Apply runs the full pipeline: genre filter, free filter, then sort.
// It is total over any ViewState; an unknown genre yields an empty list.
func Apply(games []model.Game, v model.ViewState, locale language.Tag) []model.Game {
	result := ByGenre(games, v.Genre)
	if v.FreeOnly {
		result = FreeOnly(result)
	}
	return Sort(result, v.SortKey, v.Direction, locale)
}

// GenreOptions returns the distinct primary tags of games in byte order.
// Pass the raw collection, not a filtered one, so options don't vanish as
// filters are applied.
func GenreOptions(games []model.Game) []string {
	seen := make(map[string]bool)
	options := make([]string, 0)
	for _, g := range games {
		tag, ok := model.PrimaryTag(g)
		if !ok || seen[tag] {
			continue
		}
		seen[tag] = true
		options = append(options, tag)
	}
	slices.Sort(options)
	return options
}

// comparator builds the ascending comparison for key.
func comparator(key model.SortKey, locale language.Tag) func(a, b model.Game) int {
	switch key {
	case model.SortByMetacritic:
		return func(a, b model.Game) int {
			return compareOptional(a.MetacriticScore, b.MetacriticScore)
		}
	case model.SortByRecommendations:
		return func(a, b model.Game) int {
			return compareOptional(a.RecommendationsCount, b.RecommendationsCount)
		}
	case model.SortByAppID:
		return func(a, b model.Game) int {
			return compareOptional(a.SteamAppID, b.SteamAppID)
		}
	default:
		// A Collator is not safe for concurrent use; one per sort.
		col := collate.New(locale)
		return func(a, b model.Game) int {
			return col.CompareString(a.Name, b.Name)
		}
	}
}

// compareOptional orders nil before every non-nil value.
func compareOptional[T cmp.Ordered](a, b *T) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	return cmp.Compare(*a, *b)
}
