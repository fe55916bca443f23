package wallet

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"sync"

	"codeberg.org/snonux/flashdeck/internal/api"
	"codeberg.org/snonux/flashdeck/internal/logging"
	"codeberg.org/snonux/flashdeck/internal/models"
)

// API is the part of the server client the status machine needs.
type API interface {
	UpdateStatus(ctx context.Context, userID, flashcardID int64, status models.Status) (models.StatusAck, error)
	AddToWallet(ctx context.Context, userID, flashcardID int64) error
	RemoveFromWallet(ctx context.Context, userID, flashcardID int64) error
	ListWallet(ctx context.Context, userID int64, status *models.Status) ([]api.WalletCard, error)
	ListLearned(ctx context.Context, userID int64) ([]models.Flashcard, error)
}

// ChangeKind says what a confirmed mutation did.
type ChangeKind int

const (
	ChangeAdded ChangeKind = iota
	ChangeStatus
	ChangeRemoved
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeAdded:
		return "added"
	case ChangeStatus:
		return "status"
	case ChangeRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// Change describes one mutation the server acknowledged.
type Change struct {
	Kind     ChangeKind
	Entry    models.WalletEntry
	Previous models.Status // zero when unknown or for ChangeAdded
}

// Result is the outcome of a successful Transition.
type Result struct {
	Changed           bool
	Status            models.Status
	Message           string
	SentenceGenerated bool
}

type entryKey struct {
	userID      int64
	flashcardID int64
}

// StatusMachine applies user-triggered wallet mutations.
type StatusMachine struct {
	api API
	log logging.Logger

	mu       sync.RWMutex
	entries  map[entryKey]models.Status
	hydrated map[int64]bool

	subMu  sync.Mutex
	nextID int
	subs   map[int]func(Change)
}

// NewStatusMachine creates a status machine talking to client.
func NewStatusMachine(client API, log logging.Logger) *StatusMachine {
	if log == nil {
		log = logging.Nop()
	}
	return &StatusMachine{
		api:      client,
		log:      log,
		entries:  make(map[entryKey]models.Status),
		hydrated: make(map[int64]bool),
		subs:     make(map[int]func(Change)),
	}
}

// Allowed reports whether from -> to is a valid status edge. Staying in the
// same status is always allowed.
func Allowed(from, to models.Status) bool {
	if from == to || to == models.Hidden {
		return true
	}
	switch from {
	case models.InProgress:
		return to == models.Learned
	case models.Learned:
		return to == models.InProgress
	}
	return false
}

// Transition moves a walleted flashcard to target. The local view changes
// only after the server acknowledges.
func (m *StatusMachine) Transition(ctx context.Context, userID, flashcardID int64, target models.Status) (Result, error) {
	if !target.Valid() {
		return Result{}, fmt.Errorf("%w: invalid status %v", ErrTransitionRejected, target)
	}

	key := entryKey{userID, flashcardID}
	m.mu.RLock()
	current, known := m.entries[key]
	hydrated := m.hydrated[userID]
	m.mu.RUnlock()

	if known {
		if current == target {
			return Result{Status: current}, nil
		}
		if !Allowed(current, target) {
			return Result{}, fmt.Errorf("%w: %s -> %s", ErrTransitionRejected, current, target)
		}
	} else if hydrated {
		return Result{}, fmt.Errorf("%w: flashcard %d", ErrNotFound, flashcardID)
	}

	ack, err := m.api.UpdateStatus(ctx, userID, flashcardID, target)
	if err != nil {
		err = classify(err, false)
		if errors.Is(err, ErrNotFound) {
			m.forget(key)
		}
		return Result{}, err
	}

	m.mu.Lock()
	m.entries[key] = target
	m.mu.Unlock()

	m.log.Debug(ctx, "status changed", "user", userID, "flashcard", flashcardID,
		"from", current, "to", target)
	m.notify(Change{
		Kind:     ChangeStatus,
		Entry:    models.WalletEntry{UserID: userID, FlashcardID: flashcardID, Status: target},
		Previous: current,
	})

	return Result{
		Changed:           true,
		Status:            target,
		Message:           ack.Message,
		SentenceGenerated: ack.SentenceGenerated,
	}, nil
}

// AddToWallet creates an IN_PROGRESS entry. It fails with ErrAlreadyWalleted
// if the entry exists, leaving its status unchanged.
func (m *StatusMachine) AddToWallet(ctx context.Context, userID, flashcardID int64) error {
	key := entryKey{userID, flashcardID}
	m.mu.RLock()
	current, known := m.entries[key]
	m.mu.RUnlock()
	if known {
		return fmt.Errorf("%w: flashcard %d is %s", ErrAlreadyWalleted, flashcardID, current)
	}

	if err := m.api.AddToWallet(ctx, userID, flashcardID); err != nil {
		return classify(err, true)
	}

	entry := models.WalletEntry{UserID: userID, FlashcardID: flashcardID, Status: models.InProgress}
	m.mu.Lock()
	m.entries[key] = entry.Status
	m.mu.Unlock()

	m.log.Debug(ctx, "added to wallet", "user", userID, "flashcard", flashcardID)
	m.notify(Change{Kind: ChangeAdded, Entry: entry})
	return nil
}

// Remove deletes the wallet entry. The flashcard itself is untouched.
func (m *StatusMachine) Remove(ctx context.Context, userID, flashcardID int64) error {
	key := entryKey{userID, flashcardID}
	m.mu.RLock()
	current, known := m.entries[key]
	hydrated := m.hydrated[userID]
	m.mu.RUnlock()
	if !known && hydrated {
		return fmt.Errorf("%w: flashcard %d", ErrNotFound, flashcardID)
	}

	if err := m.api.RemoveFromWallet(ctx, userID, flashcardID); err != nil {
		err = classify(err, false)
		if errors.Is(err, ErrNotFound) {
			m.forget(key)
		}
		return err
	}

	m.forget(key)
	m.log.Debug(ctx, "removed from wallet", "user", userID, "flashcard", flashcardID)
	m.notify(Change{
		Kind:     ChangeRemoved,
		Entry:    models.WalletEntry{UserID: userID, FlashcardID: flashcardID, Status: current},
		Previous: current,
	})
	return nil
}

// Hydrate loads the user's entries from the server. Without a status filter
// the view for userID is replaced and becomes authoritative, so later calls
// can detect absent entries locally. With a filter the loaded entries are
// merged in.
func (m *StatusMachine) Hydrate(ctx context.Context, userID int64, status *models.Status) ([]api.WalletCard, error) {
	cards, err := m.api.ListWallet(ctx, userID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to load wallet: %w", err)
	}

	if status == nil || *status == models.Learned {
		learned, err := m.api.ListLearned(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to load learned flashcards: %w", err)
		}
		seen := make(map[int64]bool, len(cards))
		for _, c := range cards {
			seen[c.ID] = true
		}
		for _, f := range learned {
			if !seen[f.ID] {
				cards = append(cards, api.WalletCard{Flashcard: f, Status: models.Learned})
				seen[f.ID] = true
			}
		}
	}

	m.mu.Lock()
	if status == nil {
		for key := range m.entries {
			if key.userID == userID {
				delete(m.entries, key)
			}
		}
		m.hydrated[userID] = true
	}
	for _, c := range cards {
		if c.Status.Valid() {
			m.entries[entryKey{userID, c.ID}] = c.Status
		}
	}
	m.mu.Unlock()

	m.log.Debug(ctx, "wallet hydrated", "user", userID, "entries", len(cards))
	return cards, nil
}

// Status returns the locally known status of a flashcard.
func (m *StatusMachine) Status(userID, flashcardID int64) (models.Status, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.entries[entryKey{userID, flashcardID}]
	return s, ok
}

// Entries returns the locally known entries of userID ordered by flashcard.
func (m *StatusMachine) Entries(userID int64) []models.WalletEntry {
	m.mu.RLock()
	entries := []models.WalletEntry{}
	for key, s := range m.entries {
		if key.userID == userID {
			entries = append(entries, models.WalletEntry{UserID: userID, FlashcardID: key.flashcardID, Status: s})
		}
	}
	m.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].FlashcardID < entries[j].FlashcardID
	})
	return entries
}

// Subscribe registers fn to be called after every confirmed mutation. The
// returned function unregisters it.
func (m *StatusMachine) Subscribe(fn func(Change)) func() {
	m.subMu.Lock()
	defer m.subMu.Unlock()
	id := m.nextID
	m.nextID++
	m.subs[id] = fn
	return func() {
		m.subMu.Lock()
		defer m.subMu.Unlock()
		delete(m.subs, id)
	}
}

func (m *StatusMachine) notify(c Change) {
	m.subMu.Lock()
	ids := make([]int, 0, len(m.subs))
	for id := range m.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(Change), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, m.subs[id])
	}
	m.subMu.Unlock()

	for _, fn := range fns {
		fn(c)
	}
}

func (m *StatusMachine) forget(key entryKey) {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
}

// classify maps server answers onto wallet errors. Network failures and 5xx
// answers are returned as they are.
func classify(err error, adding bool) error {
	var se *api.StatusError
	if !errors.As(err, &se) || !se.IsClientError() {
		return err
	}

	reason := se.Message
	if reason == "" {
		reason = http.StatusText(se.StatusCode)
	}

	switch {
	case se.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, reason)
	case se.StatusCode == http.StatusConflict && adding:
		return fmt.Errorf("%w: %s", ErrAlreadyWalleted, reason)
	default:
		return fmt.Errorf("%w: %s", ErrTransitionRejected, reason)
	}
}
