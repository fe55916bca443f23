package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"codeberg.org/snonux/flashdeck/internal/api"
	"codeberg.org/snonux/flashdeck/internal/audio"
)

// Config is the resolved configuration of one run.
type Config struct {
	API      *api.Config
	Audio    *audio.Config
	UserID   int64
	AutoPlay bool
	LogLevel string
}

// DefaultCacheDir returns ~/.local/state/flashdeck/audio
func DefaultCacheDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".flashdeck", "audio")
	}
	return filepath.Join(home, ".local", "state", "flashdeck", "audio")
}

func setDefaults() {
	apiDefaults := api.DefaultConfig()
	audioDefaults := audio.DefaultConfig()

	viper.SetDefault("api.base_url", apiDefaults.BaseURL)
	viper.SetDefault("api.timeout", apiDefaults.Timeout)
	viper.SetDefault("api.breaker.max_failures", apiDefaults.MaxFailures)
	viper.SetDefault("api.breaker.open_timeout", apiDefaults.OpenTimeout)
	viper.SetDefault("cache.dir", DefaultCacheDir())
	viper.SetDefault("audio.format", audioDefaults.Format)
	viper.SetDefault("audio.openai_model", audioDefaults.OpenAIModel)
	viper.SetDefault("audio.openai_voice", audioDefaults.OpenAIVoice)
	viper.SetDefault("audio.openai_speed", audioDefaults.OpenAISpeed)
	viper.SetDefault("audio.openai_instruction", audioDefaults.OpenAIInstruction)
	viper.SetDefault("study.auto_play", true)
	viper.SetDefault("log.level", "warn")
}

// InitConfig initializes viper configuration
func InitConfig(cfgFile string) {
	// A missing .env is fine; anything else is worth a note
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Warning: failed to load .env: %v\n", err)
	}

	setDefaults()

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			return
		}

		// Search config in home directory with name ".flashdeck" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".flashdeck")
	}

	// Environment variables
	viper.SetEnvPrefix("FLASHDECK")
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// GetOpenAIKey retrieves the OpenAI API key from environment or config
func GetOpenAIKey() string {
	// First check environment variable
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key
	}

	// Then check config file
	return viper.GetString("audio.openai_key")
}

// LoadConfig resolves the configuration from viper.
func LoadConfig() (*Config, error) {
	timeout := viper.GetDuration("api.timeout")
	if timeout <= 0 {
		timeout = api.DefaultConfig().Timeout
	}

	maxFailures := viper.GetInt("api.breaker.max_failures")
	if maxFailures < 0 {
		return nil, fmt.Errorf("api.breaker.max_failures must not be negative")
	}

	config := &Config{
		API: &api.Config{
			BaseURL:     viper.GetString("api.base_url"),
			Token:       viper.GetString("api.token"),
			Timeout:     timeout,
			MaxFailures: uint32(maxFailures),
			OpenTimeout: viper.GetDuration("api.breaker.open_timeout"),
		},
		Audio: &audio.Config{
			CacheDir:          viper.GetString("cache.dir"),
			Format:            viper.GetString("audio.format"),
			PlayerCommand:     viper.GetString("player.command"),
			OpenAIKey:         GetOpenAIKey(),
			OpenAIModel:       viper.GetString("audio.openai_model"),
			OpenAIVoice:       viper.GetString("audio.openai_voice"),
			OpenAISpeed:       viper.GetFloat64("audio.openai_speed"),
			OpenAIInstruction: viper.GetString("audio.openai_instruction"),
		},
		UserID:   viper.GetInt64("user.id"),
		AutoPlay: viper.GetBool("study.auto_play"),
		LogLevel: viper.GetString("log.level"),
	}

	if config.Audio.CacheDir == "" {
		config.Audio.CacheDir = DefaultCacheDir()
	}
	if config.API.OpenTimeout <= 0 {
		config.API.OpenTimeout = 30 * time.Second
	}
	switch config.Audio.Format {
	case "mp3", "wav":
	default:
		return nil, fmt.Errorf("unsupported audio format %q (use mp3 or wav)", config.Audio.Format)
	}

	return config, nil
}

// RequireUser returns the configured user id or an error asking for one.
func (c *Config) RequireUser() (int64, error) {
	if c.UserID <= 0 {
		return 0, fmt.Errorf("no user configured: pass --user or set user.id")
	}
	return c.UserID, nil
}
