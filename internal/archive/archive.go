// Package archive moves a pronunciation cache aside so the next playback
// starts from an empty cache.
package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ArchiveDir moves dir into an "archive" directory next to it, named after
// dir with a timestamp, and returns the new location
func ArchiveDir(dir string) (string, error) {
	// Check if the directory exists
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return "", fmt.Errorf("directory does not exist: %s", dir)
	}
	if err != nil {
		return "", fmt.Errorf("failed to inspect %s: %w", dir, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("not a directory: %s", dir)
	}

	dir = filepath.Clean(dir)
	archiveDir := filepath.Join(filepath.Dir(dir), "archive")

	// Create archive directory if it doesn't exist
	if err := os.MkdirAll(archiveDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	archivePath := uniquePath(archiveDir, filepath.Base(dir), time.Now())

	if err := os.Rename(dir, archivePath); err != nil {
		return "", fmt.Errorf("failed to archive %s: %w", dir, err)
	}
	return archivePath, nil
}

// uniquePath returns archiveDir/name-<timestamp>, adding microseconds and
// then a counter until the path is free
func uniquePath(archiveDir, name string, now time.Time) string {
	path := filepath.Join(archiveDir, fmt.Sprintf("%s-%s", name, now.Format("20060102-150405")))
	if !exists(path) {
		return path
	}

	path = filepath.Join(archiveDir, fmt.Sprintf("%s-%s", name, now.Format("20060102-150405.000000")))
	for i := 1; exists(path); i++ {
		path = filepath.Join(archiveDir, fmt.Sprintf("%s-%s-%d", name, now.Format("20060102-150405.000000"), i))
	}
	return path
}

func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}
