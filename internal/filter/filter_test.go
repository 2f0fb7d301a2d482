package filter

import (
	"testing"

	"github.com/abelbrown/gamedash/internal/model"
	"github.com/google/go-cmp/cmp"
	"golang.org/x/text/language"
)

func game(id int64, name string, genre string, free bool) model.Game {
	g := model.Game{ID: id, Name: name, IsFree: free}
	if genre != "" {
		g.Genre = model.Ptr(genre)
	}
	return g
}

func names(games []model.Game) []string {
	out := make([]string, len(games))
	for i, g := range games {
		out[i] = g.Name
	}
	return out
}

func scores(games []model.Game) []*int {
	out := make([]*int, len(games))
	for i, g := range games {
		out[i] = g.MetacriticScore
	}
	return out
}

func fixture() []model.Game {
	return []model.Game{
		game(1, "Portal 2", "Action, Puzzle", false),
		game(2, "Dota 2", "Action, Strategy, Free to Play", true),
		game(3, "Stardew Valley", "Indie, RPG, Simulation", false),
		game(4, "Team Fortress 2", "Action, Free to Play", true),
		game(5, "Mystery", "", false),
		game(6, "Path of Exile", " RPG , Action", true),
	}
}

func TestByGenre(t *testing.T) {
	games := fixture()

	got := ByGenre(games, "Action")
	if diff := cmp.Diff([]string{"Portal 2", "Dota 2", "Team Fortress 2"}, names(got)); diff != "" {
		t.Errorf("ByGenre(Action) mismatch (-want +got):\n%s", diff)
	}

	// Secondary tags don't match.
	if got := ByGenre(games, "Puzzle"); len(got) != 0 {
		t.Errorf("ByGenre(Puzzle) = %v, want empty", names(got))
	}

	// Case-sensitive.
	if got := ByGenre(games, "action"); len(got) != 0 {
		t.Errorf("ByGenre(action) = %v, want empty", names(got))
	}

	if got := ByGenre(games, model.AllGenres); len(got) != len(games) {
		t.Errorf("ByGenre(all) returned %d games, want %d", len(got), len(games))
	}

	// Trimmed primary tag matches.
	got = ByGenre(games, "RPG")
	if diff := cmp.Diff([]string{"Path of Exile"}, names(got)); diff != "" {
		t.Errorf("ByGenre(RPG) mismatch (-want +got):\n%s", diff)
	}
}

func TestFreeOnly(t *testing.T) {
	got := FreeOnly(fixture())
	for _, g := range got {
		if !g.IsFree {
			t.Errorf("FreeOnly kept paid game %q", g.Name)
		}
	}
	if len(got) != 3 {
		t.Errorf("FreeOnly returned %d games, want 3", len(got))
	}
}

func TestSortByNameUsesLocaleOrder(t *testing.T) {
	games := []model.Game{
		game(1, "Beta", "", false),
		game(2, "alpha", "", false),
		game(3, "Gamma", "", false),
	}

	got := Sort(games, model.SortByName, model.Ascending, language.English)
	if diff := cmp.Diff([]string{"alpha", "Beta", "Gamma"}, names(got)); diff != "" {
		t.Errorf("ascending mismatch (-want +got):\n%s", diff)
	}

	got = Sort(games, model.SortByName, model.Descending, language.English)
	if diff := cmp.Diff([]string{"Gamma", "Beta", "alpha"}, names(got)); diff != "" {
		t.Errorf("descending mismatch (-want +got):\n%s", diff)
	}

	// Input is untouched.
	if diff := cmp.Diff([]string{"Beta", "alpha", "Gamma"}, names(games)); diff != "" {
		t.Errorf("input mutated (-want +got):\n%s", diff)
	}
}

func TestSortByNameAccents(t *testing.T) {
	games := []model.Game{
		game(1, "Zelda", "", false),
		game(2, "Ëlden", "", false),
		game(3, "Echo", "", false),
	}
	got := Sort(games, model.SortByName, model.Ascending, language.English)
	if diff := cmp.Diff([]string{"Echo", "Ëlden", "Zelda"}, names(got)); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestSortNumericMissingFirst(t *testing.T) {
	games := []model.Game{
		{ID: 1, Name: "a", MetacriticScore: nil},
		{ID: 2, Name: "b", MetacriticScore: model.Ptr(5)},
		{ID: 3, Name: "c", MetacriticScore: model.Ptr(2)},
	}

	got := Sort(games, model.SortByMetacritic, model.Ascending, language.English)
	want := []*int{nil, model.Ptr(2), model.Ptr(5)}
	if diff := cmp.Diff(want, scores(got)); diff != "" {
		t.Errorf("ascending mismatch (-want +got):\n%s", diff)
	}

	got = Sort(games, model.SortByMetacritic, model.Descending, language.English)
	want = []*int{model.Ptr(5), model.Ptr(2), nil}
	if diff := cmp.Diff(want, scores(got)); diff != "" {
		t.Errorf("descending mismatch (-want +got):\n%s", diff)
	}
}

func TestSortByAppIDAndRecommendations(t *testing.T) {
	games := []model.Game{
		{ID: 1, Name: "x", SteamAppID: model.Ptr(int64(730)), RecommendationsCount: model.Ptr(10)},
		{ID: 2, Name: "y", SteamAppID: model.Ptr(int64(70)), RecommendationsCount: nil},
		{ID: 3, Name: "z", SteamAppID: nil, RecommendationsCount: model.Ptr(1000)},
	}

	got := Sort(games, model.SortByAppID, model.Ascending, language.English)
	if diff := cmp.Diff([]string{"z", "y", "x"}, names(got)); diff != "" {
		t.Errorf("appid mismatch (-want +got):\n%s", diff)
	}

	got = Sort(games, model.SortByRecommendations, model.Descending, language.English)
	if diff := cmp.Diff([]string{"z", "x", "y"}, names(got)); diff != "" {
		t.Errorf("recommendations mismatch (-want +got):\n%s", diff)
	}
}

func TestApplyIsSubset(t *testing.T) {
	raw := fixture()
	byID := make(map[int64]model.Game, len(raw))
	for _, g := range raw {
		byID[g.ID] = g
	}

	views := []model.ViewState{
		model.DefaultViewState(),
		{Genre: "Action", FreeOnly: true, SortKey: model.SortByMetacritic, Direction: model.Descending},
		{Genre: "Indie", SortKey: model.SortByAppID, Direction: model.Ascending},
		{Genre: "Nope", FreeOnly: true, SortKey: model.SortByName, Direction: model.Ascending},
		{Genre: model.AllGenres, FreeOnly: true, SortKey: model.SortByRecommendations, Direction: model.Descending},
	}

	for _, v := range views {
		got := Apply(raw, v, language.English)
		seen := make(map[int64]bool)
		for _, g := range got {
			if _, ok := byID[g.ID]; !ok {
				t.Errorf("view %+v: game %d not in raw collection", v, g.ID)
			}
			if seen[g.ID] {
				t.Errorf("view %+v: game %d duplicated", v, g.ID)
			}
			seen[g.ID] = true
			if v.FreeOnly && !g.IsFree {
				t.Errorf("view %+v: paid game %q kept", v, g.Name)
			}
			if v.Genre != model.AllGenres {
				if tag, _ := model.PrimaryTag(g); tag != v.Genre {
					t.Errorf("view %+v: game %q has primary tag %q", v, g.Name, tag)
				}
			}
		}
	}
}

func TestApplyUnknownGenreIsEmpty(t *testing.T) {
	got := Apply(fixture(), model.ViewState{Genre: "Racing", SortKey: model.SortByName}, language.English)
	if got == nil || len(got) != 0 {
		t.Errorf("Apply(unknown genre) = %#v, want empty non-nil slice", got)
	}
}

func TestApplyPrimaryTagScenario(t *testing.T) {
	raw := []model.Game{{
		ID:         1,
		Name:       "Portal 2",
		SteamAppID: model.Ptr(int64(620)),
		Genre:      model.Ptr("Action, Puzzle"),
		IsFree:     false,
	}}

	v := model.DefaultViewState()
	v.Genre = "Action"
	if got := Apply(raw, v, language.English); len(got) != 1 {
		t.Errorf("Action filter returned %d games, want 1", len(got))
	}

	v.Genre = "Puzzle"
	if got := Apply(raw, v, language.English); len(got) != 0 {
		t.Errorf("Puzzle filter returned %d games, want 0", len(got))
	}
}

func TestGenreOptions(t *testing.T) {
	got := GenreOptions(fixture())
	want := []string{"Action", "Indie", "RPG"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("GenreOptions mismatch (-want +got):\n%s", diff)
	}

	if got := GenreOptions(nil); got == nil || len(got) != 0 {
		t.Errorf("GenreOptions(nil) = %#v, want empty non-nil slice", got)
	}
}
