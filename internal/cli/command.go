package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"codeberg.org/snonux/flashdeck/internal"
)

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "flashdeck",
		Short: "Flashcard study client with cached pronunciation audio",
		Long: `flashdeck studies vocabulary flashcards from a flashcard server.

Pronunciation clips are downloaded once and cached on disk, so replaying
a card never hits the network again. Study progress is kept in the
server-side wallet.

Examples:
  flashdeck study --topic 3           # Study topic 3, starting at a random card
  flashdeck play 42                   # Play the pronunciation of flashcard 42
  flashdeck status 42 learned         # Mark flashcard 42 as learned
  flashdeck search --topic 3 apple    # Search visible cards of topic 3`,
		Version:       internal.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Set up flags
	setupFlags(rootCmd, flags)

	r := &runner{flags: flags}
	rootCmd.AddCommand(
		r.playCommand(),
		r.prefetchCommand(),
		r.statusCommand(),
		r.walletCommand(),
		r.searchCommand(),
		r.studyCommand(),
		r.cacheCommand(),
		r.modelsCommand(),
	)

	return rootCmd
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	// Global flags
	pf := cmd.PersistentFlags()
	pf.StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.flashdeck.yaml)")
	pf.StringVar(&flags.LogLevel, "log-level", flags.LogLevel, "Log level: debug, info, warn, error")
	pf.StringVar(&flags.BaseURL, "base-url", flags.BaseURL, "Flashcard server base URL")
	pf.StringVar(&flags.Token, "token", "", "Bearer token for the flashcard server")
	pf.DurationVar(&flags.Timeout, "timeout", flags.Timeout, "Per-request timeout")
	pf.Int64VarP(&flags.UserID, "user", "u", 0, "User id to act as")
	pf.StringVar(&flags.CacheDir, "cache-dir", DefaultCacheDir(), "Pronunciation cache directory")
	pf.StringVarP(&flags.AudioFormat, "format", "f", flags.AudioFormat, "Audio format (wav or mp3)")
	pf.StringVar(&flags.PlayerCommand, "player", "", "Audio player command, e.g. 'mpv --no-video' (default: probe)")

	// OpenAI fallback flags
	pf.StringVar(&flags.OpenAIModel, "openai-model", flags.OpenAIModel, "OpenAI TTS fallback model: tts-1, tts-1-hd, gpt-4o-mini-tts")
	pf.StringVar(&flags.OpenAIVoice, "openai-voice", flags.OpenAIVoice, "OpenAI voice: alloy, ash, ballad, coral, echo, fable, onyx, nova, sage, shimmer, verse")
	pf.Float64Var(&flags.OpenAISpeed, "openai-speed", flags.OpenAISpeed, "OpenAI speech speed (0.25 to 4.0, may be ignored by gpt-4o-mini-tts)")
	pf.StringVar(&flags.OpenAIInstruction, "openai-instruction", "", "Voice instructions for gpt-4o-mini-tts model")

	// Bind flags to viper
	bindFlagsToViper(pf)
}

func bindFlagsToViper(pf *pflag.FlagSet) {
	viper.BindPFlag("log.level", pf.Lookup("log-level"))
	viper.BindPFlag("api.base_url", pf.Lookup("base-url"))
	viper.BindPFlag("api.token", pf.Lookup("token"))
	viper.BindPFlag("api.timeout", pf.Lookup("timeout"))
	viper.BindPFlag("user.id", pf.Lookup("user"))
	viper.BindPFlag("cache.dir", pf.Lookup("cache-dir"))
	viper.BindPFlag("audio.format", pf.Lookup("format"))
	viper.BindPFlag("player.command", pf.Lookup("player"))
	viper.BindPFlag("audio.openai_model", pf.Lookup("openai-model"))
	viper.BindPFlag("audio.openai_voice", pf.Lookup("openai-voice"))
	viper.BindPFlag("audio.openai_speed", pf.Lookup("openai-speed"))
	viper.BindPFlag("audio.openai_instruction", pf.Lookup("openai-instruction"))
}

// runner builds the App on first use and shares it between subcommands.
type runner struct {
	flags *Flags
	app   *App
}

func (r *runner) application(cmd *cobra.Command) (*App, error) {
	if r.app != nil {
		return r.app, nil
	}

	config, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	app, err := NewApp(config, cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}
	r.app = app
	return app, nil
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid flashcard id %q", arg)
	}
	return id, nil
}

func parseIDs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		id, err := parseID(arg)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func formatSize(bytes int64) string {
	switch {
	case bytes >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(bytes)/(1<<20))
	case bytes >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(bytes)/(1<<10))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

func elapsed(start time.Time) string {
	return time.Since(start).Round(time.Millisecond).String()
}
