package audio

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"codeberg.org/snonux/flashdeck/internal/logging"
)

// Cache is the clip storage the coordinator needs.
type Cache interface {
	Exists(flashcardID int64) (bool, error)
	PathFor(flashcardID int64) string
	Store(flashcardID int64, data []byte) (string, error)
}

// ClipPlayer plays one clip at a time.
type ClipPlayer interface {
	Play(ctx context.Context, path string) error
	Stop()
}

// Coordinator guarantees a clip is cached before it is played and keeps at
// most one fetch in flight per flashcard. One Coordinator is meant to live
// for the whole process so repeated views of a card reuse its registry.
type Coordinator struct {
	cache   Cache
	fetcher Fetcher
	player  ClipPlayer
	log     logging.Logger

	pending singleflight.Group

	// generation counts play requests; only the newest may start a session.
	generation atomic.Uint64
	playMu     sync.Mutex
}

// NewCoordinator wires the cache, fetcher and player together
func NewCoordinator(cache Cache, fetcher Fetcher, player ClipPlayer, log logging.Logger) *Coordinator {
	if log == nil {
		log = logging.Nop()
	}
	return &Coordinator{
		cache:   cache,
		fetcher: fetcher,
		player:  player,
		log:     log,
	}
}

// PlayPronunciation stops whatever is playing, makes sure the clip for id is
// cached and plays it. A request overtaken by a newer one while its clip was
// being fetched still caches the clip but does not play it. Every failure
// comes back as a *PlaybackError.
func (c *Coordinator) PlayPronunciation(ctx context.Context, flashcardID int64) error {
	gen := c.generation.Add(1)
	c.player.Stop()

	if err := c.ensureCached(ctx, flashcardID); err != nil {
		return &PlaybackError{FlashcardID: flashcardID, Op: "cache", Err: err}
	}

	c.playMu.Lock()
	defer c.playMu.Unlock()
	if c.generation.Load() != gen {
		c.log.Debug(ctx, "playback superseded", "flashcard", flashcardID)
		return nil
	}
	if err := c.player.Play(ctx, c.cache.PathFor(flashcardID)); err != nil {
		return &PlaybackError{FlashcardID: flashcardID, Op: "play", Err: err}
	}
	return nil
}

// Prefetch warms the cache for id without playing anything.
func (c *Coordinator) Prefetch(ctx context.Context, flashcardID int64) error {
	return c.ensureCached(ctx, flashcardID)
}

// ensureCached joins the in-flight fetch for id or starts one. The fetch
// itself is detached from ctx: a caller that gives up stops waiting, but the
// clip still lands in the cache.
func (c *Coordinator) ensureCached(ctx context.Context, flashcardID int64) error {
	cached, err := c.cache.Exists(flashcardID)
	switch {
	case err != nil:
		c.log.Warn(ctx, "audio cache unavailable, treating as miss", "flashcard", flashcardID, "error", err)
	case cached:
		c.log.Debug(ctx, "audio cache hit", "flashcard", flashcardID)
		return nil
	}

	fillCtx := context.WithoutCancel(ctx)
	ch := c.pending.DoChan(strconv.FormatInt(flashcardID, 10), func() (interface{}, error) {
		return nil, c.fill(fillCtx, flashcardID)
	})

	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// fill runs at most once at a time per id.
func (c *Coordinator) fill(ctx context.Context, flashcardID int64) error {
	// A fetch that finished between our Exists and joining the group has
	// already populated the cache.
	if cached, err := c.cache.Exists(flashcardID); err == nil && cached {
		return nil
	}

	c.log.Info(ctx, "fetching pronunciation", "flashcard", flashcardID, "fetcher", c.fetcher.Name())
	data, err := c.fetcher.Fetch(ctx, flashcardID)
	if err != nil {
		return fmt.Errorf("fetch: %w", err)
	}

	path, err := c.cache.Store(flashcardID, data)
	if err != nil {
		if errors.Is(err, ErrWriteFailed) {
			return err
		}
		return fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}

	c.log.Debug(ctx, "pronunciation cached", "flashcard", flashcardID, "path", path, "bytes", len(data))
	return nil
}
