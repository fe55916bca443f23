package audio

import (
	"context"
	"fmt"

	"codeberg.org/snonux/flashdeck/internal/api"
	"codeberg.org/snonux/flashdeck/internal/logging"
)

// Fetcher retrieves the pronunciation clip of a flashcard. Implementations
// issue a single request per call and never retry.
type Fetcher interface {
	Fetch(ctx context.Context, flashcardID int64) ([]byte, error)

	// Name returns the fetcher name
	Name() string
}

// Config holds the audio pipeline configuration
type Config struct {
	CacheDir      string // Clip cache directory
	Format        string // "mp3" or "wav"
	PlayerCommand string // Overrides the probed player, e.g. "mpv --no-video"

	// OpenAI fallback; disabled when OpenAIKey is empty
	OpenAIKey         string
	OpenAIBaseURL     string  // Optional, for proxies and tests
	OpenAIModel       string  // "tts-1", "tts-1-hd", or "gpt-4o-mini-tts"
	OpenAIVoice       string  // "alloy", "ash", "coral", "echo", "fable", "nova", ...
	OpenAISpeed       float64 // 0.25 to 4.0
	OpenAIInstruction string  // Voice instructions for gpt-4o-mini-tts
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		CacheDir:          "./.audio_cache",
		Format:            "mp3",
		OpenAIModel:       "gpt-4o-mini-tts",
		OpenAIVoice:       "alloy",
		OpenAISpeed:       1.0,
		OpenAIInstruction: "Pronounce the word clearly and slowly for a language learner.",
	}
}

// TTSClient is the part of the server client the fetcher needs.
type TTSClient interface {
	FetchTTS(ctx context.Context, flashcardID int64) ([]byte, error)
}

// ServerFetcher downloads clips from GET /api/flashcards/{id}/tts.
type ServerFetcher struct {
	client TTSClient
}

// NewServerFetcher creates a fetcher backed by the vocabulary server
func NewServerFetcher(client TTSClient) *ServerFetcher {
	return &ServerFetcher{client: client}
}

// Fetch downloads and sanity-checks one clip.
func (f *ServerFetcher) Fetch(ctx context.Context, flashcardID int64) ([]byte, error) {
	data, err := f.client.FetchTTS(ctx, flashcardID)
	if err != nil {
		return nil, err
	}
	if err := ValidateClip(data); err != nil {
		return nil, fmt.Errorf("%w: flashcard %d: %w", api.ErrServer, flashcardID, err)
	}
	return data, nil
}

// Name returns the fetcher name
func (f *ServerFetcher) Name() string {
	return "server"
}

// NewFetcher builds the fetcher chain for config: the server first, then
// OpenAI when a key is configured.
func NewFetcher(config *Config, client *api.Client, log logging.Logger) (Fetcher, error) {
	if config == nil {
		config = DefaultConfig()
	}

	server := NewServerFetcher(client)
	if config.OpenAIKey == "" {
		return server, nil
	}

	fallback, err := NewOpenAIFetcher(config, client)
	if err != nil {
		return nil, err
	}
	return NewFetcherWithFallback(server, fallback, log), nil
}

// FetcherWithFallback wraps a primary fetcher with a fallback option.
// Each source is asked once; this picks a source, it does not retry one.
type FetcherWithFallback struct {
	primary  Fetcher
	fallback Fetcher
	log      logging.Logger
}

// NewFetcherWithFallback creates a fetcher that falls back to secondary if primary fails
func NewFetcherWithFallback(primary, fallback Fetcher, log logging.Logger) *FetcherWithFallback {
	if log == nil {
		log = logging.Nop()
	}
	return &FetcherWithFallback{
		primary:  primary,
		fallback: fallback,
		log:      log,
	}
}

// Fetch tries primary first, falls back to secondary on error
func (f *FetcherWithFallback) Fetch(ctx context.Context, flashcardID int64) ([]byte, error) {
	data, err := f.primary.Fetch(ctx, flashcardID)
	if err == nil {
		return data, nil
	}

	f.log.Warn(ctx, "primary fetcher failed, falling back",
		"primary", f.primary.Name(), "fallback", f.fallback.Name(),
		"flashcard", flashcardID, "error", err)

	data, fallbackErr := f.fallback.Fetch(ctx, flashcardID)
	if fallbackErr != nil {
		return nil, fmt.Errorf("both fetchers failed: %s: %w; %s: %w",
			f.primary.Name(), err, f.fallback.Name(), fallbackErr)
	}
	return data, nil
}

// Name returns the fetcher name
func (f *FetcherWithFallback) Name() string {
	return fmt.Sprintf("%s (fallback: %s)", f.primary.Name(), f.fallback.Name())
}
