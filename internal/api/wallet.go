package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"codeberg.org/snonux/flashdeck/internal/models"
)

// WalletCard is a flashcard as listed in a user's wallet.
type WalletCard struct {
	models.Flashcard
	Status models.Status `json:"status"`
}

// Entry returns the wallet entry the card represents for userID.
func (w WalletCard) Entry(userID int64) models.WalletEntry {
	return models.WalletEntry{UserID: userID, FlashcardID: w.ID, Status: w.Status}
}

type statusRequest struct {
	Status models.Status `json:"status"`
}

type walletRequest struct {
	UserID int64 `json:"userId"`
}

// UpdateStatus sets the study status of a walleted flashcard.
func (c *Client) UpdateStatus(ctx context.Context, userID, flashcardID int64, status models.Status) (models.StatusAck, error) {
	var ack models.StatusAck
	if !status.Valid() {
		return ack, fmt.Errorf("invalid status: %v", status)
	}

	path := fmt.Sprintf("/api/users/%d/flashcards/%d/status", userID, flashcardID)
	resp, err := c.do(ctx, http.MethodPut, path, nil, statusRequest{Status: status})
	if err != nil {
		return ack, err
	}
	if len(resp.body) == 0 {
		return ack, nil
	}
	err = decode(resp, &ack)
	return ack, err
}

// AddToWallet creates a wallet entry for the flashcard.
func (c *Client) AddToWallet(ctx context.Context, userID, flashcardID int64) error {
	path := fmt.Sprintf("/api/flashcards/%d/wallet", flashcardID)
	_, err := c.do(ctx, http.MethodPost, path, nil, walletRequest{UserID: userID})
	return err
}

// RemoveFromWallet deletes the wallet entry for the flashcard.
func (c *Client) RemoveFromWallet(ctx context.Context, userID, flashcardID int64) error {
	path := fmt.Sprintf("/api/users/%d/flashcards/%d/wallet", userID, flashcardID)
	_, err := c.do(ctx, http.MethodDelete, path, nil, nil)
	return err
}

// ListWallet loads the user's wallet, optionally restricted to one status.
func (c *Client) ListWallet(ctx context.Context, userID int64, status *models.Status) ([]WalletCard, error) {
	query := url.Values{}
	if status != nil {
		query.Set("status", status.String())
	}

	resp, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/users/%d/flashcards/wallet", userID), query, nil)
	if err != nil {
		return nil, err
	}

	var cards []WalletCard
	if err := decode(resp, &cards); err != nil {
		return nil, err
	}
	// Servers that filter by status may omit it per item.
	if status != nil {
		for i := range cards {
			if !cards[i].Status.Valid() {
				cards[i].Status = *status
			}
		}
	}
	return cards, nil
}

// ListLearned loads the flashcards the user has learned.
func (c *Client) ListLearned(ctx context.Context, userID int64) ([]models.Flashcard, error) {
	resp, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/users/%d/flashcards/learned", userID), nil, nil)
	if err != nil {
		return nil, err
	}

	var cards []models.Flashcard
	if err := decode(resp, &cards); err != nil {
		return nil, err
	}
	return cards, nil
}
