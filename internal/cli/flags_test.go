package cli

import (
	"reflect"
	"testing"
	"time"
)

func TestNewFlags(t *testing.T) {
	flags := NewFlags()

	// Test default values
	tests := []struct {
		name     string
		got      interface{}
		expected interface{}
	}{
		{"LogLevel", flags.LogLevel, "warn"},
		{"BaseURL", flags.BaseURL, "http://localhost:8080"},
		{"Timeout", flags.Timeout, 15 * time.Second},
		{"AudioFormat", flags.AudioFormat, "mp3"},
		{"OpenAIModel", flags.OpenAIModel, "gpt-4o-mini-tts"},
		{"OpenAIVoice", flags.OpenAIVoice, "alloy"},
		{"OpenAISpeed", flags.OpenAISpeed, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !reflect.DeepEqual(tt.got, tt.expected) {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.expected)
			}
		})
	}

	// Test boolean defaults (should be false)
	boolTests := []struct {
		name  string
		value bool
	}{
		{"Wallet", flags.Wallet},
		{"NoAutoPlay", flags.NoAutoPlay},
	}

	for _, tt := range boolTests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != false {
				t.Errorf("%s = %v, want false", tt.name, tt.value)
			}
		})
	}

	// Test string defaults (should be empty)
	stringTests := []struct {
		name  string
		value string
	}{
		{"CfgFile", flags.CfgFile},
		{"Token", flags.Token},
		{"CacheDir", flags.CacheDir},
		{"PlayerCommand", flags.PlayerCommand},
		{"OpenAIInstruction", flags.OpenAIInstruction},
		{"Status", flags.Status},
		{"Query", flags.Query},
	}

	for _, tt := range stringTests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				t.Errorf("%s = %v, want empty string", tt.name, tt.value)
			}
		})
	}

	if flags.UserID != 0 || flags.TopicID != 0 || flags.StartID != 0 {
		t.Error("id flags should default to 0")
	}
}
