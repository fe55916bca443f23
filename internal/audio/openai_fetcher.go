package audio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sashabaranov/go-openai"

	"codeberg.org/snonux/flashdeck/internal/api"
)

// WordSource resolves the word a flashcard pronounces.
type WordSource interface {
	Word(ctx context.Context, flashcardID int64) (string, error)
}

// OpenAIFetcher requests a clip for the flashcard's word from the OpenAI
// speech endpoint.
type OpenAIFetcher struct {
	client *openai.Client
	config *Config
	words  WordSource
}

// NewOpenAIFetcher creates a new OpenAI TTS fetcher
func NewOpenAIFetcher(config *Config, words WordSource) (*OpenAIFetcher, error) {
	if config == nil || config.OpenAIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	if words == nil {
		return nil, fmt.Errorf("word source is required")
	}

	clientConfig := openai.DefaultConfig(config.OpenAIKey)
	if config.OpenAIBaseURL != "" {
		clientConfig.BaseURL = config.OpenAIBaseURL
	}

	return &OpenAIFetcher{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
		words:  words,
	}, nil
}

// Fetch generates the clip for one flashcard.
func (f *OpenAIFetcher) Fetch(ctx context.Context, flashcardID int64) ([]byte, error) {
	word, err := f.words.Word(ctx, flashcardID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve word for flashcard %d: %w", flashcardID, err)
	}

	text := preprocessWord(word)
	if text == "" {
		return nil, fmt.Errorf("flashcard %d has no pronounceable word", flashcardID)
	}

	req := openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(f.config.OpenAIModel),
		Input:          text,
		Voice:          openai.SpeechVoice(f.config.OpenAIVoice),
		Speed:          f.config.OpenAISpeed,
		ResponseFormat: responseFormat(f.config.Format),
	}
	if f.config.OpenAIInstruction != "" && supportsInstructions(f.config.OpenAIModel) {
		req.Instructions = f.config.OpenAIInstruction
	}

	response, err := f.client.CreateSpeech(ctx, req)
	if err != nil {
		return nil, classifyOpenAIError(err)
	}
	defer response.Close()

	data, err := io.ReadAll(response)
	if err != nil {
		return nil, fmt.Errorf("%w: reading OpenAI audio: %w", api.ErrNetwork, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: no audio data received from OpenAI", api.ErrServer)
	}

	return data, nil
}

// Name returns the fetcher name
func (f *OpenAIFetcher) Name() string {
	return "openai"
}

func supportsInstructions(model string) bool {
	return model == "gpt-4o-mini-tts" || model == "gpt-4o-mini-audio-preview"
}

func responseFormat(format string) openai.SpeechResponseFormat {
	switch strings.ToLower(format) {
	case "wav":
		return openai.SpeechResponseFormatWav
	case "opus":
		return openai.SpeechResponseFormatOpus
	case "aac":
		return openai.SpeechResponseFormatAac
	case "flac":
		return openai.SpeechResponseFormatFlac
	default:
		return openai.SpeechResponseFormatMp3
	}
}

// classifyOpenAIError maps go-openai errors onto the api taxonomy: an HTTP
// answer is a server error, anything else a network error.
func classifyOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%w: OpenAI TTS API error: %w", api.ErrServer, err)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode != 0 {
		return fmt.Errorf("%w: OpenAI TTS request error: %w", api.ErrServer, err)
	}
	return fmt.Errorf("%w: OpenAI TTS: %w", api.ErrNetwork, err)
}

// preprocessWord strips punctuation that should not be spoken.
func preprocessWord(word string) string {
	cleaned := strings.TrimSpace(word)

	punctuationToRemove := []string{"!", "?", ".", ",", ";", ":", "\"", "(", ")", "[", "]", "{", "}", "—", "–"}
	for _, punct := range punctuationToRemove {
		cleaned = strings.ReplaceAll(cleaned, punct, "")
	}

	return strings.Join(strings.Fields(cleaned), " ")
}
