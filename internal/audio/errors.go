package audio

import (
	"errors"
	"fmt"
)

var (
	// ErrStorageUnavailable means the cache directory cannot be accessed.
	ErrStorageUnavailable = errors.New("audio cache unavailable")

	// ErrWriteFailed means a clip could not be written to the cache.
	ErrWriteFailed = errors.New("audio cache write failed")

	// ErrPlaybackFailed is the single failure signal of PlayPronunciation.
	ErrPlaybackFailed = errors.New("playback failed")
)

// PlaybackError reports which step of PlayPronunciation failed. It matches
// both ErrPlaybackFailed and the underlying cause with errors.Is.
type PlaybackError struct {
	FlashcardID int64
	Op          string // "cache", "play"
	Err         error
}

func (e *PlaybackError) Error() string {
	return fmt.Sprintf("playback failed for flashcard %d (%s): %v", e.FlashcardID, e.Op, e.Err)
}

func (e *PlaybackError) Unwrap() []error {
	return []error{ErrPlaybackFailed, e.Err}
}
