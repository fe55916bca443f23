package audio

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// ListSpeechModels lists the OpenAI text-to-speech models available to the
// configured key, for choosing the fallback model.
func ListSpeechModels(ctx context.Context, config *Config) ([]string, error) {
	if config == nil || config.OpenAIKey == "" {
		return nil, fmt.Errorf("OpenAI API key not found. Set OPENAI_API_KEY environment variable or configure in .flashdeck.yaml")
	}

	clientConfig := openai.DefaultConfig(config.OpenAIKey)
	if config.OpenAIBaseURL != "" {
		clientConfig.BaseURL = config.OpenAIBaseURL
	}
	client := openai.NewClientWithConfig(clientConfig)

	models, err := client.ListModels(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}

	ttsModels := []string{}
	for _, model := range models.Models {
		if strings.Contains(model.ID, "tts") || strings.Contains(model.ID, "audio") {
			ttsModels = append(ttsModels, model.ID)
		}
	}
	sort.Strings(ttsModels)

	return ttsModels, nil
}
