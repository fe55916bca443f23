package cli

import "time"

// Flags holds all command-line flag values
type Flags struct {
	// General flags
	CfgFile  string
	LogLevel string

	// Server flags
	BaseURL string
	Token   string
	Timeout time.Duration
	UserID  int64

	// Audio flags
	CacheDir      string
	AudioFormat   string
	PlayerCommand string

	// OpenAI fallback flags
	OpenAIModel       string
	OpenAIVoice       string
	OpenAISpeed       float64
	OpenAIInstruction string

	// Deck flags
	TopicID    int64
	StartID    int64
	Wallet     bool
	Status     string
	Query      string
	NoAutoPlay bool
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		LogLevel:    "warn",
		BaseURL:     "http://localhost:8080",
		Timeout:     15 * time.Second,
		AudioFormat: "mp3",
		OpenAIModel: "gpt-4o-mini-tts",
		OpenAIVoice: "alloy",
		OpenAISpeed: 1.0,
	}
}
