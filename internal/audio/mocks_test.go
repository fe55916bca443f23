package audio

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
)

// mockFetcher counts calls and can block until released.
type mockFetcher struct {
	mu      sync.Mutex
	name    string
	data    map[int64][]byte
	err     error
	calls   int
	started chan int64    // receives the id when a fetch begins, if non-nil
	release chan struct{} // fetch blocks until closed, if non-nil
}

func (m *mockFetcher) Fetch(ctx context.Context, flashcardID int64) ([]byte, error) {
	m.mu.Lock()
	m.calls++
	started, release := m.started, m.release
	m.mu.Unlock()

	if started != nil {
		started <- flashcardID
	}
	if release != nil {
		<-release
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if data, ok := m.data[flashcardID]; ok {
		return data, nil
	}
	return []byte{0xFF, 0xFB, 0x90, 0x00, byte(flashcardID)}, nil
}

func (m *mockFetcher) Name() string {
	if m.name == "" {
		return "mock"
	}
	return m.name
}

func (m *mockFetcher) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

type storeCall struct {
	id   int64
	data []byte
}

// mockCache is an in-memory Cache.
type mockCache struct {
	mu        sync.Mutex
	files     map[int64][]byte
	existsErr error
	storeErr  error
	stores    []storeCall
}

func newMockCache() *mockCache {
	return &mockCache{files: make(map[int64][]byte)}
}

func (m *mockCache) Exists(flashcardID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.existsErr != nil {
		return false, m.existsErr
	}
	_, ok := m.files[flashcardID]
	return ok, nil
}

func (m *mockCache) PathFor(flashcardID int64) string {
	return filepath.Join("/cache", fmt.Sprintf("%d.mp3", flashcardID))
}

func (m *mockCache) Store(flashcardID int64, data []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stores = append(m.stores, storeCall{id: flashcardID, data: data})
	if m.storeErr != nil {
		return "", m.storeErr
	}
	m.files[flashcardID] = data
	return m.PathFor(flashcardID), nil
}

func (m *mockCache) Stores() []storeCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]storeCall{}, m.stores...)
}

// mockPlayer records what it was asked to play.
type mockPlayer struct {
	mu      sync.Mutex
	played  []string
	stops   int
	playErr error
}

func (m *mockPlayer) Play(ctx context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.played = append(m.played, path)
	return m.playErr
}

func (m *mockPlayer) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stops++
}

func (m *mockPlayer) Played() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string{}, m.played...)
}
