// Package model defines the catalog record and the view parameters the
// dashboard derives its display list from.
//
// Games are immutable once decoded. A refresh replaces the whole collection;
// nothing in this module edits a Game in place.
package model

import (
	"strconv"
	"strings"
)

// UnknownTag labels games without a primary tag in aggregates.
const UnknownTag = "Unknown"

// Game is one catalog record as served by the backend.
// Pointer fields are nullable on the wire.
type Game struct {
	ID                   int64   `json:"id"`
	Name                 string  `json:"name"`
	SteamAppID           *int64  `json:"steam_appid"`
	Genre                *string `json:"genre"` // comma-separated, first entry is the primary tag
	Developer            *string `json:"developer"`
	Publisher            *string `json:"publisher"`
	ReleaseDate          *string `json:"release_date"`
	IsFree               bool    `json:"is_free"`
	MetacriticScore      *int    `json:"metacritic_score"`
	RecommendationsCount *int    `json:"recommendations_count"`
	Languages            *string `json:"languages"`
	Categories           *string `json:"categories"`
	HeaderImage          *string `json:"header_image"`
}

// PrimaryTag returns the first comma-separated genre of g, trimmed.
// ok is false when the genre field is absent or the first segment is blank.
//
// Every place that needs a game's genre (filter options, filtering,
// histogram buckets) must go through this function.
func PrimaryTag(g Game) (tag string, ok bool) {
	if g.Genre == nil {
		return "", false
	}
	first, _, _ := strings.Cut(*g.Genre, ",")
	first = strings.TrimSpace(first)
	if first == "" {
		return "", false
	}
	return first, true
}

// TagLabel returns the primary tag of g or UnknownTag.
func TagLabel(g Game) string {
	if tag, ok := PrimaryTag(g); ok {
		return tag
	}
	return UnknownTag
}

// AppIDString formats the Steam app id, or "" when absent.
func (g Game) AppIDString() string {
	if g.SteamAppID == nil {
		return ""
	}
	return strconv.FormatInt(*g.SteamAppID, 10)
}

// Str dereferences an optional text field.
func Str(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Ptr returns a pointer to v. Handy for building fixtures.
func Ptr[T any](v T) *T {
	return &v
}
