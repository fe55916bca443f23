// Package search filters a flashcard pool by visibility and a text query.
package search

import (
	"strings"
	"unicode/utf8"

	"codeberg.org/snonux/flashdeck/internal/models"
)

// MinQueryLength is the shortest trimmed query, in runes, that is matched.
// Shorter queries yield no results instead of the whole visible pool.
const MinQueryLength = 2

// Search returns the cards in pool that viewerID may see and whose word or
// definition contains query, case-insensitively. Pool order is preserved.
// Cards owned by other users never match.
func Search(pool []models.Flashcard, viewerID int64, query string) []models.Flashcard {
	results := []models.Flashcard{}

	q := strings.ToLower(strings.TrimSpace(query))
	if utf8.RuneCountInString(q) < MinQueryLength {
		return results
	}

	for _, card := range pool {
		if !card.VisibleTo(viewerID) {
			continue
		}
		if matches(card, q) {
			results = append(results, card)
		}
	}
	return results
}

func matches(card models.Flashcard, lowerQuery string) bool {
	return strings.Contains(strings.ToLower(card.Word), lowerQuery) ||
		strings.Contains(strings.ToLower(card.Definition), lowerQuery)
}

// Filter keeps search results current for one viewer as the pool or the
// query changes.
type Filter struct {
	viewerID int64
	pool     []models.Flashcard
	query    string
	results  []models.Flashcard
}

// NewFilter creates a filter for viewerID with an empty pool.
func NewFilter(viewerID int64) *Filter {
	return &Filter{viewerID: viewerID, results: []models.Flashcard{}}
}

// SetPool replaces the pool and re-evaluates the query.
func (f *Filter) SetPool(pool []models.Flashcard) {
	f.pool = append([]models.Flashcard(nil), pool...)
	f.refresh()
}

// SetQuery replaces the query and re-evaluates it.
func (f *Filter) SetQuery(query string) {
	f.query = query
	f.refresh()
}

// Query returns the current query.
func (f *Filter) Query() string {
	return f.query
}

// Results returns the cards matching the current pool and query.
func (f *Filter) Results() []models.Flashcard {
	return append([]models.Flashcard{}, f.results...)
}

func (f *Filter) refresh() {
	f.results = Search(f.pool, f.viewerID, f.query)
}
