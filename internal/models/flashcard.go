package models

import "fmt"

// Flashcard is a word/definition/example unit with topic and ownership.
type Flashcard struct {
	ID         int64    `json:"id"`
	Word       string   `json:"word"`
	Definition string   `json:"definition"`
	Example    string   `json:"example"`
	Phonetic   string   `json:"phonetic,omitempty"`
	Synonyms   []string `json:"synonyms,omitempty"`
	// OwnerID is nil for public cards.
	OwnerID *int64 `json:"userId"`
	TopicID int64  `json:"topicId"`
}

// IsPublic reports whether the card has no owning user.
func (f Flashcard) IsPublic() bool {
	return f.OwnerID == nil
}

// OwnedBy reports whether userID owns the card.
func (f Flashcard) OwnedBy(userID int64) bool {
	return f.OwnerID != nil && *f.OwnerID == userID
}

// VisibleTo reports whether the card is public or owned by viewerID.
func (f Flashcard) VisibleTo(viewerID int64) bool {
	return f.IsPublic() || f.OwnedBy(viewerID)
}

func (f Flashcard) String() string {
	return fmt.Sprintf("#%d %s", f.ID, f.Word)
}

// Owner returns a pointer to id, for building cards with an owning user.
func Owner(id int64) *int64 {
	return &id
}
