package wallet

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/snonux/flashdeck/internal/api"
	"codeberg.org/snonux/flashdeck/internal/models"
)

type mockAPI struct {
	mu sync.Mutex

	updateErr error
	addErr    error
	removeErr error
	listErr   error
	ack       models.StatusAck
	wallet    []api.WalletCard
	learned   []models.Flashcard

	updates int
	adds    int
	removes int
	lastTo  models.Status
}

func (m *mockAPI) UpdateStatus(ctx context.Context, userID, flashcardID int64, status models.Status) (models.StatusAck, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updates++
	m.lastTo = status
	return m.ack, m.updateErr
}

func (m *mockAPI) AddToWallet(ctx context.Context, userID, flashcardID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.adds++
	return m.addErr
}

func (m *mockAPI) RemoveFromWallet(ctx context.Context, userID, flashcardID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.removes++
	return m.removeErr
}

func (m *mockAPI) ListWallet(ctx context.Context, userID int64, status *models.Status) ([]api.WalletCard, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []api.WalletCard
	for _, c := range m.wallet {
		if status == nil || c.Status == *status {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *mockAPI) ListLearned(ctx context.Context, userID int64) ([]models.Flashcard, error) {
	return m.learned, nil
}

func card(id int64, status models.Status) api.WalletCard {
	return api.WalletCard{Flashcard: models.Flashcard{ID: id, Word: "w"}, Status: status}
}

func TestAllowed(t *testing.T) {
	tests := []struct {
		from, to models.Status
		want     bool
	}{
		{models.InProgress, models.Learned, true},
		{models.InProgress, models.Hidden, true},
		{models.Learned, models.InProgress, true},
		{models.Learned, models.Hidden, true},
		{models.Hidden, models.Hidden, true},
		{models.Learned, models.Learned, true},
		{models.Hidden, models.Learned, false},
		{models.Hidden, models.InProgress, false},
	}
	for _, tt := range tests {
		t.Run(tt.from.String()+"->"+tt.to.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, Allowed(tt.from, tt.to))
		})
	}
}

func TestTransition_UpdatesViewAfterAck(t *testing.T) {
	client := &mockAPI{ack: models.StatusAck{Message: "ok", SentenceGenerated: true}}
	m := NewStatusMachine(client, nil)
	ctx := context.Background()

	require.NoError(t, m.AddToWallet(ctx, 5, 1))

	res, err := m.Transition(ctx, 5, 1, models.Learned)
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Equal(t, "ok", res.Message)
	assert.True(t, res.SentenceGenerated)

	s, ok := m.Status(5, 1)
	require.True(t, ok)
	assert.Equal(t, models.Learned, s)
	assert.Equal(t, 1, client.updates)
}

func TestTransition_RejectedLeavesViewUntouched(t *testing.T) {
	client := &mockAPI{updateErr: &api.StatusError{StatusCode: http.StatusForbidden, Message: "not your flashcard"}}
	m := NewStatusMachine(client, nil)
	ctx := context.Background()
	require.NoError(t, m.AddToWallet(ctx, 5, 1))

	_, err := m.Transition(ctx, 5, 1, models.Learned)
	require.ErrorIs(t, err, ErrTransitionRejected)
	assert.Contains(t, err.Error(), "not your flashcard")

	s, _ := m.Status(5, 1)
	assert.Equal(t, models.InProgress, s)
}

func TestTransition_ErrorsPassThrough(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantErr error
	}{
		{"network", api.ErrNetwork, api.ErrNetwork},
		{"server", &api.StatusError{StatusCode: http.StatusInternalServerError}, api.ErrServer},
		{"not found", &api.StatusError{StatusCode: http.StatusNotFound}, ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &mockAPI{updateErr: tt.err}
			m := NewStatusMachine(client, nil)

			_, err := m.Transition(context.Background(), 5, 1, models.Hidden)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, 1, client.updates, "no silent retry")

			_, ok := m.Status(5, 1)
			assert.False(t, ok)
		})
	}
}

func TestTransition_DisallowedEdge(t *testing.T) {
	client := &mockAPI{wallet: []api.WalletCard{card(1, models.Hidden)}}
	m := NewStatusMachine(client, nil)
	ctx := context.Background()
	_, err := m.Hydrate(ctx, 5, nil)
	require.NoError(t, err)

	_, err = m.Transition(ctx, 5, 1, models.Learned)
	require.ErrorIs(t, err, ErrTransitionRejected)
	assert.Equal(t, 0, client.updates)
}

func TestTransition_SameStatusIsNoOp(t *testing.T) {
	client := &mockAPI{}
	m := NewStatusMachine(client, nil)
	ctx := context.Background()
	require.NoError(t, m.AddToWallet(ctx, 5, 1))

	_, err := m.Transition(ctx, 5, 1, models.Learned)
	require.NoError(t, err)

	res, err := m.Transition(ctx, 5, 1, models.Learned)
	require.NoError(t, err)
	assert.False(t, res.Changed)
	assert.Equal(t, models.Learned, res.Status)
	assert.Equal(t, 1, client.updates)
}

func TestTransition_NotWalletedAfterHydrate(t *testing.T) {
	client := &mockAPI{}
	m := NewStatusMachine(client, nil)
	ctx := context.Background()
	_, err := m.Hydrate(ctx, 5, nil)
	require.NoError(t, err)

	_, err = m.Transition(ctx, 5, 1, models.Learned)
	require.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 0, client.updates)
}

func TestTransition_InvalidTarget(t *testing.T) {
	m := NewStatusMachine(&mockAPI{}, nil)
	_, err := m.Transition(context.Background(), 5, 1, models.Status(0))
	require.ErrorIs(t, err, ErrTransitionRejected)
}

func TestAddToWallet(t *testing.T) {
	t.Run("already walleted keeps status", func(t *testing.T) {
		client := &mockAPI{}
		m := NewStatusMachine(client, nil)
		ctx := context.Background()
		require.NoError(t, m.AddToWallet(ctx, 5, 1))
		_, err := m.Transition(ctx, 5, 1, models.Learned)
		require.NoError(t, err)

		err = m.AddToWallet(ctx, 5, 1)
		require.ErrorIs(t, err, ErrAlreadyWalleted)
		assert.Equal(t, 1, client.adds)

		s, _ := m.Status(5, 1)
		assert.Equal(t, models.Learned, s)
	})

	t.Run("server conflict", func(t *testing.T) {
		client := &mockAPI{addErr: &api.StatusError{StatusCode: http.StatusConflict, Message: "exists"}}
		m := NewStatusMachine(client, nil)

		err := m.AddToWallet(context.Background(), 5, 1)
		require.ErrorIs(t, err, ErrAlreadyWalleted)
		_, ok := m.Status(5, 1)
		assert.False(t, ok)
	})

	t.Run("network error", func(t *testing.T) {
		m := NewStatusMachine(&mockAPI{addErr: api.ErrNetwork}, nil)
		err := m.AddToWallet(context.Background(), 5, 1)
		require.ErrorIs(t, err, api.ErrNetwork)
	})

	t.Run("distinct users", func(t *testing.T) {
		m := NewStatusMachine(&mockAPI{}, nil)
		ctx := context.Background()
		require.NoError(t, m.AddToWallet(ctx, 5, 1))
		require.NoError(t, m.AddToWallet(ctx, 6, 1))
	})
}

func TestRemove(t *testing.T) {
	client := &mockAPI{wallet: []api.WalletCard{card(1, models.InProgress)}}
	m := NewStatusMachine(client, nil)
	ctx := context.Background()
	_, err := m.Hydrate(ctx, 5, nil)
	require.NoError(t, err)

	require.NoError(t, m.Remove(ctx, 5, 1))
	_, ok := m.Status(5, 1)
	assert.False(t, ok)

	err = m.Remove(ctx, 5, 1)
	require.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 1, client.removes)

	// Not hydrated: the server decides
	other := NewStatusMachine(&mockAPI{removeErr: &api.StatusError{StatusCode: http.StatusNotFound}}, nil)
	require.ErrorIs(t, other.Remove(ctx, 5, 1), ErrNotFound)
}

func TestHydrate(t *testing.T) {
	client := &mockAPI{
		wallet: []api.WalletCard{
			card(3, models.InProgress),
			card(1, models.Learned),
		},
		learned: []models.Flashcard{{ID: 1}, {ID: 7}},
	}
	m := NewStatusMachine(client, nil)
	ctx := context.Background()

	cards, err := m.Hydrate(ctx, 5, nil)
	require.NoError(t, err)
	assert.Len(t, cards, 3)

	assert.Equal(t, []models.WalletEntry{
		{UserID: 5, FlashcardID: 1, Status: models.Learned},
		{UserID: 5, FlashcardID: 3, Status: models.InProgress},
		{UserID: 5, FlashcardID: 7, Status: models.Learned},
	}, m.Entries(5))
	assert.Empty(t, m.Entries(6))

	// A second hydrate replaces the view
	client.wallet = []api.WalletCard{card(3, models.Hidden)}
	client.learned = nil
	_, err = m.Hydrate(ctx, 5, nil)
	require.NoError(t, err)
	assert.Equal(t, []models.WalletEntry{{UserID: 5, FlashcardID: 3, Status: models.Hidden}}, m.Entries(5))

	client.listErr = errors.New("boom")
	_, err = m.Hydrate(ctx, 5, nil)
	require.Error(t, err)
}

func TestSubscribe(t *testing.T) {
	m := NewStatusMachine(&mockAPI{}, nil)
	ctx := context.Background()

	var changes []Change
	unsubscribe := m.Subscribe(func(c Change) { changes = append(changes, c) })

	require.NoError(t, m.AddToWallet(ctx, 5, 1))
	_, err := m.Transition(ctx, 5, 1, models.Learned)
	require.NoError(t, err)
	_, err = m.Transition(ctx, 5, 1, models.Learned)
	require.NoError(t, err)
	require.NoError(t, m.Remove(ctx, 5, 1))

	require.Len(t, changes, 3)
	assert.Equal(t, ChangeAdded, changes[0].Kind)
	assert.Equal(t, ChangeStatus, changes[1].Kind)
	assert.Equal(t, models.InProgress, changes[1].Previous)
	assert.Equal(t, models.Learned, changes[1].Entry.Status)
	assert.Equal(t, ChangeRemoved, changes[2].Kind)

	unsubscribe()
	require.NoError(t, m.AddToWallet(ctx, 5, 2))
	assert.Len(t, changes, 3)
}

func TestFailedMutationDoesNotNotify(t *testing.T) {
	m := NewStatusMachine(&mockAPI{updateErr: api.ErrNetwork}, nil)
	called := false
	m.Subscribe(func(Change) { called = true })

	_, err := m.Transition(context.Background(), 5, 1, models.Learned)
	require.Error(t, err)
	assert.False(t, called)
}
