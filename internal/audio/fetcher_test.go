package audio

import (
	"context"
	"errors"
	"testing"

	"codeberg.org/snonux/flashdeck/internal/api"
)

type fakeTTSClient struct {
	data  []byte
	err   error
	calls int
}

func (f *fakeTTSClient) FetchTTS(ctx context.Context, flashcardID int64) ([]byte, error) {
	f.calls++
	return f.data, f.err
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.Format != "mp3" {
		t.Errorf("Expected format 'mp3', got '%s'", config.Format)
	}
	if config.OpenAIModel != "gpt-4o-mini-tts" {
		t.Errorf("Expected OpenAI model 'gpt-4o-mini-tts', got '%s'", config.OpenAIModel)
	}
	if config.OpenAIVoice != "alloy" {
		t.Errorf("Expected OpenAI voice 'alloy', got '%s'", config.OpenAIVoice)
	}
	if config.OpenAIKey != "" {
		t.Error("OpenAI fallback must be off by default")
	}
}

func TestServerFetcher(t *testing.T) {
	tests := []struct {
		name    string
		client  *fakeTTSClient
		wantErr error
	}{
		{
			name:   "valid clip",
			client: &fakeTTSClient{data: []byte{0xFF, 0xFB, 0x90, 0x00}},
		},
		{
			name:    "network error passes through",
			client:  &fakeTTSClient{err: api.ErrNetwork},
			wantErr: api.ErrNetwork,
		},
		{
			name:    "html body is a server error",
			client:  &fakeTTSClient{data: []byte("<html>oops</html>")},
			wantErr: api.ErrServer,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewServerFetcher(tt.client)
			_, err := f.Fetch(context.Background(), 1)
			if tt.wantErr == nil && err != nil {
				t.Fatalf("Fetch() unexpected error: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Fetch() error = %v, want %v", err, tt.wantErr)
			}
			if tt.client.calls != 1 {
				t.Errorf("expected exactly 1 request, got %d", tt.client.calls)
			}
		})
	}
}

func TestNewFetcher(t *testing.T) {
	client, err := api.NewClient(api.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}

	f, err := NewFetcher(&Config{Format: "mp3"}, client, nil)
	if err != nil {
		t.Fatalf("NewFetcher() error = %v", err)
	}
	if f.Name() != "server" {
		t.Errorf("Name() = %s, want server", f.Name())
	}

	f, err = NewFetcher(&Config{Format: "mp3", OpenAIKey: "test-key"}, client, nil)
	if err != nil {
		t.Fatalf("NewFetcher() with key error = %v", err)
	}
	if f.Name() != "server (fallback: openai)" {
		t.Errorf("Name() = %s, want server (fallback: openai)", f.Name())
	}
}

func TestFetcherWithFallback(t *testing.T) {
	primary := &mockFetcher{name: "primary"}
	fallback := &mockFetcher{name: "fallback"}
	f := NewFetcherWithFallback(primary, fallback, nil)
	ctx := context.Background()

	// Successful primary
	if _, err := f.Fetch(ctx, 1); err != nil {
		t.Errorf("Fetch() unexpected error: %v", err)
	}
	if primary.Calls() != 1 || fallback.Calls() != 0 {
		t.Errorf("calls = %d/%d, want 1/0", primary.Calls(), fallback.Calls())
	}

	// Primary failure, fallback success
	primary.err = errors.New("primary failed")
	if _, err := f.Fetch(ctx, 1); err != nil {
		t.Errorf("Fetch() unexpected error: %v", err)
	}
	if primary.Calls() != 2 || fallback.Calls() != 1 {
		t.Errorf("calls = %d/%d, want 2/1", primary.Calls(), fallback.Calls())
	}

	// Both fail
	fallback.err = api.ErrNetwork
	_, err := f.Fetch(ctx, 1)
	if err == nil {
		t.Fatal("Fetch() expected error when both fetchers fail")
	}
	if !errors.Is(err, api.ErrNetwork) {
		t.Errorf("Fetch() error = %v, want ErrNetwork attached", err)
	}
	if primary.Calls() != 3 || fallback.Calls() != 2 {
		t.Errorf("each source must be asked exactly once per Fetch, got %d/%d", primary.Calls(), fallback.Calls())
	}

	if f.Name() != "primary (fallback: fallback)" {
		t.Errorf("Name() = %v", f.Name())
	}
}
