package cli

import (
	"context"
	"fmt"
	"io"

	"codeberg.org/snonux/flashdeck/internal/api"
	"codeberg.org/snonux/flashdeck/internal/audio"
	"codeberg.org/snonux/flashdeck/internal/logging"
	"codeberg.org/snonux/flashdeck/internal/wallet"
)

// App holds the process-wide collaborators. It is built once per run so the
// cache root and the pending-fetch registry are shared by every command.
type App struct {
	Config      *Config
	Log         logging.Logger
	Client      *api.Client
	Cache       *audio.CacheStore
	Player      *audio.Player
	Coordinator *audio.Coordinator
	Wallet      *wallet.StatusMachine
}

// NewApp wires the application from config. Log output goes to logOut.
func NewApp(config *Config, logOut io.Writer) (*App, error) {
	log := logging.New(logOut, config.LogLevel)

	client, err := api.NewClient(config.API)
	if err != nil {
		return nil, err
	}

	fetcher, err := audio.NewFetcher(config.Audio, client, log)
	if err != nil {
		return nil, fmt.Errorf("failed to set up audio fetcher: %w", err)
	}

	cache := audio.NewCacheStore(config.Audio.CacheDir, config.Audio.Format)
	player := audio.NewPlayer(config.Audio.PlayerCommand, log)

	log.Debug(context.Background(), "application ready",
		"server", config.API.BaseURL, "cache", cache.Root(), "fetcher", fetcher.Name())

	return &App{
		Config:      config,
		Log:         log,
		Client:      client,
		Cache:       cache,
		Player:      player,
		Coordinator: audio.NewCoordinator(cache, fetcher, player, log),
		Wallet:      wallet.NewStatusMachine(client, log),
	}, nil
}
