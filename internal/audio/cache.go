package audio

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const tempSuffix = ".tmp"

// CacheStore maps flashcard ids to clip files under a root directory. File
// names are derived from the id alone; there is no manifest.
type CacheStore struct {
	root   string
	format string
}

// NewCacheStore creates a cache rooted at dir. The directory is created
// lazily on the first Store.
func NewCacheStore(dir, format string) *CacheStore {
	if format == "" {
		format = "mp3"
	}
	return &CacheStore{
		root:   dir,
		format: strings.TrimPrefix(strings.ToLower(format), "."),
	}
}

// Root returns the cache directory.
func (s *CacheStore) Root() string {
	return s.root
}

// PathFor returns where the clip for id lives. It does no I/O.
func (s *CacheStore) PathFor(flashcardID int64) string {
	return filepath.Join(s.root, strconv.FormatInt(flashcardID, 10)+"."+s.format)
}

// EnsureRoot creates the cache directory if it is missing. Safe to call
// repeatedly; a root removed while the process runs is created again.
func (s *CacheStore) EnsureRoot() error {
	if err := os.MkdirAll(s.root, 0755); err != nil {
		return fmt.Errorf("%w: create %s: %w", ErrStorageUnavailable, s.root, err)
	}
	return nil
}

// Exists reports whether the clip for id is cached. A missing root is a
// plain miss; any other access problem is ErrStorageUnavailable.
func (s *CacheStore) Exists(flashcardID int64) (bool, error) {
	info, err := os.Stat(s.root)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	if !info.IsDir() {
		return false, fmt.Errorf("%w: %s is not a directory", ErrStorageUnavailable, s.root)
	}

	info, err = os.Stat(s.PathFor(flashcardID))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	return info.Mode().IsRegular(), nil
}

// Store writes data as the clip for id. The bytes go to a temp file in the
// cache directory which is then renamed into place, so readers never see a
// partial clip.
func (s *CacheStore) Store(flashcardID int64, data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%w: no audio data for flashcard %d", ErrWriteFailed, flashcardID)
	}
	if err := s.EnsureRoot(); err != nil {
		return "", fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}

	target := s.PathFor(flashcardID)
	tmp, err := os.CreateTemp(s.root, "."+strconv.FormatInt(flashcardID, 10)+"-*"+tempSuffix)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}
	tmpName := tmp.Name()

	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return "", fmt.Errorf("%w: write %s: %w", ErrWriteFailed, tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		return "", fmt.Errorf("%w: sync %s: %w", ErrWriteFailed, tmpName, err)
	}
	if err := tmp.Chmod(0644); err != nil {
		return "", fmt.Errorf("%w: chmod %s: %w", ErrWriteFailed, tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("%w: close %s: %w", ErrWriteFailed, tmpName, err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		committed = true
		return "", fmt.Errorf("%w: rename into %s: %w", ErrWriteFailed, target, err)
	}
	committed = true

	return target, nil
}

// Stats returns the number of cached clips and their total size.
func (s *CacheStore) Stats() (fileCount int, totalSize int64, err error) {
	err = filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == s.root && errors.Is(err, fs.ErrNotExist) {
				return fs.SkipAll
			}
			return err
		}
		if d.IsDir() || strings.HasSuffix(d.Name(), tempSuffix) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		fileCount++
		totalSize += info.Size()
		return nil
	})
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	return fileCount, totalSize, nil
}
