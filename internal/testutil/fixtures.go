package testutil

import "codeberg.org/snonux/flashdeck/internal/models"

// ClipData returns a few bytes that pass for an MP3 frame header
func ClipData() []byte {
	return []byte{0xFF, 0xFB, 0x90, 0x00, 0x00, 0x00, 0x00, 0x00}
}

// SampleCards returns a small pool: public cards, cards owned by user 5
// and cards owned by user 7
func SampleCards() []models.Flashcard {
	return []models.Flashcard{
		{ID: 1, Word: "ябълка", Definition: "apple", TopicID: 1},
		{ID: 2, Word: "котка", Definition: "cat, a small feline", TopicID: 1},
		{ID: 3, Word: "category", Definition: "a class of things", OwnerID: models.Owner(7), TopicID: 1},
		{ID: 4, Word: "куче", Definition: "dog", OwnerID: models.Owner(5), TopicID: 2},
		{ID: 5, Word: "хляб", Definition: "bread", TopicID: 2},
		{ID: 6, Word: "книга", Definition: "book", OwnerID: models.Owner(7), TopicID: 2},
	}
}
