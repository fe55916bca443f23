package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"codeberg.org/snonux/flashdeck/internal/models"
)

// FetchTTS downloads the pronunciation clip for a flashcard.
func (c *Client) FetchTTS(ctx context.Context, flashcardID int64) ([]byte, error) {
	resp, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/flashcards/%d/tts", flashcardID), nil, nil)
	if err != nil {
		return nil, err
	}
	if len(resp.body) == 0 {
		return nil, fmt.Errorf("%w: empty audio payload for flashcard %d", ErrServer, flashcardID)
	}
	return resp.body, nil
}

// GetFlashcard loads a single flashcard.
func (c *Client) GetFlashcard(ctx context.Context, flashcardID int64) (models.Flashcard, error) {
	var card models.Flashcard
	resp, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/flashcards/%d", flashcardID), nil, nil)
	if err != nil {
		return card, err
	}
	err = decode(resp, &card)
	return card, err
}

// Word resolves the word of a flashcard. It lets the client act as the word
// source of the OpenAI fallback fetcher.
func (c *Client) Word(ctx context.Context, flashcardID int64) (string, error) {
	card, err := c.GetFlashcard(ctx, flashcardID)
	if err != nil {
		return "", err
	}
	return card.Word, nil
}

// ListFlashcards loads the flashcards of a topic, or every card the server
// exposes when topicID is 0.
func (c *Client) ListFlashcards(ctx context.Context, topicID int64) ([]models.Flashcard, error) {
	query := url.Values{}
	if topicID != 0 {
		query.Set("topicId", strconv.FormatInt(topicID, 10))
	}

	resp, err := c.do(ctx, http.MethodGet, "/api/flashcards", query, nil)
	if err != nil {
		return nil, err
	}

	var cards []models.Flashcard
	if err := decode(resp, &cards); err != nil {
		return nil, err
	}
	return cards, nil
}
