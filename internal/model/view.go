package model

import "fmt"

// AllGenres is the Genre value that disables the genre filter.
// Primary tags are never empty, so it cannot collide with a real tag.
const AllGenres = ""

// SortKey names the field the display list is ordered by.
type SortKey string

const (
	SortByName            SortKey = "name"
	SortByMetacritic      SortKey = "metacritic_score"
	SortByRecommendations SortKey = "recommendations_count"
	SortByAppID           SortKey = "steam_appid"
)

// SortKeys lists every key in the order the UI cycles through them.
var SortKeys = []SortKey{SortByName, SortByMetacritic, SortByRecommendations, SortByAppID}

// Label is the short column title for k.
func (k SortKey) Label() string {
	switch k {
	case SortByMetacritic:
		return "Score"
	case SortByRecommendations:
		return "Recommendations"
	case SortByAppID:
		return "App ID"
	default:
		return "Name"
	}
}

// ParseSortKey accepts a SortKey value or one of the short aliases used on
// the command line ("score", "recs", "appid").
func ParseSortKey(s string) (SortKey, error) {
	switch s {
	case "", "name":
		return SortByName, nil
	case "metacritic_score", "score", "metacritic":
		return SortByMetacritic, nil
	case "recommendations_count", "recs", "recommendations":
		return SortByRecommendations, nil
	case "steam_appid", "appid", "app_id":
		return SortByAppID, nil
	}
	return "", fmt.Errorf("unknown sort key %q", s)
}

// Direction is the sort order.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// ParseDirection accepts "asc"/"ascending" and "desc"/"descending".
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "", "asc", "ascending":
		return Ascending, nil
	case "desc", "descending":
		return Descending, nil
	}
	return "", fmt.Errorf("unknown sort direction %q", s)
}

// ViewState holds the user's filter and sort choices. It is owned by the
// presentation layer and read-only to the derivation pipeline.
type ViewState struct {
	Genre     string
	FreeOnly  bool
	SortKey   SortKey
	Direction Direction
}

// DefaultViewState matches all genres, includes paid games and sorts by
// name ascending.
func DefaultViewState() ViewState {
	return ViewState{
		Genre:     AllGenres,
		FreeOnly:  false,
		SortKey:   SortByName,
		Direction: Ascending,
	}
}

// NextSortKey returns v with the sort key advanced to the next entry of
// SortKeys, wrapping around.
func (v ViewState) NextSortKey() ViewState {
	for i, k := range SortKeys {
		if k == v.SortKey {
			v.SortKey = SortKeys[(i+1)%len(SortKeys)]
			return v
		}
	}
	v.SortKey = SortByName
	return v
}

// ToggleDirection returns v with the sort direction flipped.
func (v ViewState) ToggleDirection() ViewState {
	if v.Direction == Descending {
		v.Direction = Ascending
	} else {
		v.Direction = Descending
	}
	return v
}

// CycleGenre moves the genre filter through options by step (+1 or -1).
// Match-all sits before the first option.
func (v ViewState) CycleGenre(options []string, step int) ViewState {
	n := len(options) + 1
	pos := 0
	for i, o := range options {
		if o == v.Genre {
			pos = i + 1
			break
		}
	}
	pos = ((pos+step)%n + n) % n
	if pos == 0 {
		v.Genre = AllGenres
	} else {
		v.Genre = options[pos-1]
	}
	return v
}

// GenreLabel is the display form of the genre filter.
func (v ViewState) GenreLabel() string {
	if v.Genre == AllGenres {
		return "All genres"
	}
	return v.Genre
}
