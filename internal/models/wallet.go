package models

// WalletEntry is the per-user, per-flashcard study record. It is owned by the
// server; clients hold a transient copy.
type WalletEntry struct {
	UserID      int64  `json:"userId"`
	FlashcardID int64  `json:"flashcardId"`
	Status      Status `json:"status"`
}

// StatusAck is the server acknowledgement of a status transition.
type StatusAck struct {
	Message           string `json:"message"`
	SentenceGenerated bool   `json:"sentenceGenerated,omitempty"`
}
