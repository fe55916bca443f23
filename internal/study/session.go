// Package study drives a study session: deck navigation, pronunciation
// playback and wallet mutations for one viewer.
package study

import (
	"context"
	"fmt"

	"codeberg.org/snonux/flashdeck/internal/deck"
	"codeberg.org/snonux/flashdeck/internal/logging"
	"codeberg.org/snonux/flashdeck/internal/models"
	"codeberg.org/snonux/flashdeck/internal/wallet"
)

// Pronouncer plays pronunciation clips.
type Pronouncer interface {
	PlayPronunciation(ctx context.Context, flashcardID int64) error
}

// Stopper stops the current playback session.
type Stopper interface {
	Stop()
}

// Wallet mutates the viewer's wallet.
type Wallet interface {
	Transition(ctx context.Context, userID, flashcardID int64, target models.Status) (wallet.Result, error)
	AddToWallet(ctx context.Context, userID, flashcardID int64) error
	Remove(ctx context.Context, userID, flashcardID int64) error
	Status(userID, flashcardID int64) (models.Status, bool)
}

// Options configures a Session.
type Options struct {
	AutoPlay bool // play the card after every move
	Log      logging.Logger
}

// Session is one viewer working through a deck.
type Session struct {
	deck   *deck.Deck
	userID int64
	audio  Pronouncer
	player Stopper
	wallet Wallet

	autoPlay bool
	log      logging.Logger
}

// NewSession creates a session over d for userID.
func NewSession(d *deck.Deck, userID int64, audio Pronouncer, player Stopper, w Wallet, opts Options) (*Session, error) {
	if d == nil {
		return nil, deck.ErrEmptyDeck
	}
	if audio == nil || player == nil || w == nil {
		return nil, fmt.Errorf("study session needs audio, player and wallet")
	}
	log := opts.Log
	if log == nil {
		log = logging.Nop()
	}
	return &Session{
		deck:     d,
		userID:   userID,
		audio:    audio,
		player:   player,
		wallet:   w,
		autoPlay: opts.AutoPlay,
		log:      log,
	}, nil
}

// Current returns the card under the cursor.
func (s *Session) Current() models.Flashcard {
	return s.deck.Current()
}

// Position returns the 1-based cursor position and the deck size.
func (s *Session) Position() (int, int) {
	return s.deck.Index() + 1, s.deck.Len()
}

// Start plays the first card when auto-play is on.
func (s *Session) Start(ctx context.Context) error {
	return s.arrive(ctx)
}

// Next stops playback and moves to the next card.
func (s *Session) Next(ctx context.Context) (models.Flashcard, error) {
	s.player.Stop()
	s.deck.Next()
	return s.deck.Current(), s.arrive(ctx)
}

// Prev stops playback and moves to the previous card.
func (s *Session) Prev(ctx context.Context) (models.Flashcard, error) {
	s.player.Stop()
	s.deck.Prev()
	return s.deck.Current(), s.arrive(ctx)
}

// Play plays the current card's pronunciation.
func (s *Session) Play(ctx context.Context) error {
	return s.audio.PlayPronunciation(ctx, s.deck.Current().ID)
}

// Mark moves the current card to status.
func (s *Session) Mark(ctx context.Context, status models.Status) (wallet.Result, error) {
	return s.wallet.Transition(ctx, s.userID, s.deck.Current().ID, status)
}

// AddCurrent adds the current card to the wallet.
func (s *Session) AddCurrent(ctx context.Context) error {
	return s.wallet.AddToWallet(ctx, s.userID, s.deck.Current().ID)
}

// RemoveCurrent removes the current card from the wallet.
func (s *Session) RemoveCurrent(ctx context.Context) error {
	return s.wallet.Remove(ctx, s.userID, s.deck.Current().ID)
}

// Status returns the locally known wallet status of the current card.
func (s *Session) Status() (models.Status, bool) {
	return s.wallet.Status(s.userID, s.deck.Current().ID)
}

func (s *Session) arrive(ctx context.Context) error {
	if !s.autoPlay {
		return nil
	}
	id := s.deck.Current().ID
	if err := s.audio.PlayPronunciation(ctx, id); err != nil {
		s.log.Warn(ctx, "auto-play failed", "flashcard", id, "error", err)
		return err
	}
	return nil
}
