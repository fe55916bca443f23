// Package deck provides cyclic navigation over a loaded set of flashcards.
package deck

import (
	"errors"
	"math/rand/v2"

	"codeberg.org/snonux/flashdeck/internal/models"
)

// ErrEmptyDeck is returned by Load for an empty card sequence. Callers should
// check for this upstream and show a "no cards available" state.
var ErrEmptyDeck = errors.New("no flashcards available")

// Deck is a non-empty ordered set of flashcards with a cursor.
// It is not safe for concurrent use.
type Deck struct {
	cards []models.Flashcard
	index int
}

// Load builds a deck from cards. The cursor starts at startID if it is in
// the deck, otherwise at a uniformly random position drawn from rng (or the
// global source when rng is nil).
func Load(cards []models.Flashcard, startID *int64, rng *rand.Rand) (*Deck, error) {
	if len(cards) == 0 {
		return nil, ErrEmptyDeck
	}

	d := &Deck{cards: append([]models.Flashcard(nil), cards...)}

	if startID != nil {
		for i, c := range d.cards {
			if c.ID == *startID {
				d.index = i
				return d, nil
			}
		}
	}

	if rng != nil {
		d.index = rng.IntN(len(d.cards))
	} else {
		d.index = rand.IntN(len(d.cards))
	}
	return d, nil
}

// Current returns the card at the cursor.
func (d *Deck) Current() models.Flashcard {
	return d.cards[d.index]
}

// Next advances the cursor, wrapping from the last card to the first.
func (d *Deck) Next() models.Flashcard {
	d.index = (d.index + 1) % len(d.cards)
	return d.cards[d.index]
}

// Prev moves the cursor back, wrapping from the first card to the last.
func (d *Deck) Prev() models.Flashcard {
	d.index = (d.index - 1 + len(d.cards)) % len(d.cards)
	return d.cards[d.index]
}

// Len returns the number of cards.
func (d *Deck) Len() int {
	return len(d.cards)
}

// Index returns the cursor position.
func (d *Deck) Index() int {
	return d.index
}

// Cards returns a copy of the deck's cards in order.
func (d *Deck) Cards() []models.Flashcard {
	return append([]models.Flashcard(nil), d.cards...)
}
