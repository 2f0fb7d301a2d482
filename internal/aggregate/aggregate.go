// Package aggregate summarizes a display list for the dashboard charts.
package aggregate

import "github.com/abelbrown/gamedash/internal/model"

// Bucket is one bar of the genre histogram.
type Bucket struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Histogram counts games per primary tag in first-encountered order, so the
// same input always renders the same chart.
type Histogram []Bucket

// Total returns the sum of all bucket counts.
func (h Histogram) Total() int {
	total := 0
	for _, b := range h {
		total += b.Count
	}
	return total
}

// Get returns the count for label, or 0.
func (h Histogram) Get(label string) int {
	for _, b := range h {
		if b.Label == label {
			return b.Count
		}
	}
	return 0
}

// Max returns the largest bucket count, or 0 for an empty histogram.
func (h Histogram) Max() int {
	m := 0
	for _, b := range h {
		if b.Count > m {
			m = b.Count
		}
	}
	return m
}

// FreePaidSplit counts free and paid games.
type FreePaidSplit struct {
	Free int `json:"free"`
	Paid int `json:"paid"`
}

// Total returns Free + Paid.
func (s FreePaidSplit) Total() int {
	return s.Free + s.Paid
}

// Summary holds both chart datasets for one display list.
type Summary struct {
	Tags  Histogram     `json:"genres"`
	Split FreePaidSplit `json:"free_paid"`
}

// Compute builds the summary of games. Every game lands in exactly one
// histogram bucket (its primary tag, or model.UnknownTag) and exactly one
// side of the split.
func Compute(games []model.Game) Summary {
	s := Summary{Tags: Histogram{}}
	index := make(map[string]int)

	for _, g := range games {
		label := model.TagLabel(g)
		if i, ok := index[label]; ok {
			s.Tags[i].Count++
		} else {
			index[label] = len(s.Tags)
			s.Tags = append(s.Tags, Bucket{Label: label, Count: 1})
		}

		if g.IsFree {
			s.Split.Free++
		} else {
			s.Split.Paid++
		}
	}

	return s
}
