package files

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gosimple/unidecode"
	"github.com/kalouantonis/chorus/src/features/config"
	"github.com/kalouantonis/chorus/src/features/songs"
)

// DiskStore is the infrastructure implementation of the songs.FileStore
// interface. It lays songs out flat under the configured library root.
type DiskStore struct {
	config *config.Manager
}

// NewDiskStore creates a new disk store implementation.
func NewDiskStore(cfg *config.Manager) *DiskStore {
	return &DiskStore{config: cfg}
}

// Store copies the staged upload into the library root and returns the
// stored path relative to that root. An existing file with the same name is
// overwritten, the newest upload wins.
func (s *DiskStore) Store(ctx context.Context, upload *songs.Upload) (string, error) {
	root := s.config.Get().LibraryPath
	if err := os.MkdirAll(root, 0755); err != nil {
		return "", fmt.Errorf("failed to create library directory: %w", err)
	}

	fileName := sanitizeFileName(upload.Filename)
	destPath := filepath.Join(root, fileName)
	if err := copyFile(upload.TempPath, destPath); err != nil {
		return "", fmt.Errorf("failed to copy file: %w", err)
	}

	relPath, err := filepath.Rel(root, destPath)
	if err != nil {
		return "", fmt.Errorf("failed to relativize path: %w", err)
	}
	return relPath, nil
}

// Remove deletes a stored file from the library. A file that is already gone
// is not an error.
func (s *DiskStore) Remove(ctx context.Context, relPath string) error {
	fullPath, err := s.Resolve(relPath)
	if err != nil {
		return err
	}

	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete song file: %w", err)
	}

	// Check if parent directory is now empty and remove it if so
	if err := s.removeEmptyDirectories(filepath.Dir(fullPath)); err != nil {
		// File deletion succeeded, the empty directory is cosmetic
		slog.Warn("failed to clean up empty directories", "error", err)
	}

	return nil
}

// Resolve returns the absolute path of a stored file, rejecting paths that
// escape the library root.
func (s *DiskStore) Resolve(relPath string) (string, error) {
	rootAbs, err := filepath.Abs(s.config.Get().LibraryPath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve library root: %w", err)
	}

	fullPath, err := filepath.Abs(filepath.Join(rootAbs, relPath))
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}
	if fullPath != rootAbs && !strings.HasPrefix(fullPath, rootAbs+string(filepath.Separator)) {
		return "", fmt.Errorf("path %q escapes the library root", relPath)
	}
	return fullPath, nil
}

// sanitizeFileName flattens a client-supplied file name into a single safe
// library entry: ascii-folded with separators replaced.
func sanitizeFileName(name string) string {
	name = unidecode.Unidecode(strings.TrimSpace(name))
	name = strings.ReplaceAll(name, "/", "-")
	name = strings.ReplaceAll(name, "\\", "-")
	name = strings.Trim(name, ". ")
	if name == "" {
		name = "untitled"
	}
	return name
}

// removeEmptyDirectories recursively removes empty directories up the path,
// stopping at the library root.
func (s *DiskStore) removeEmptyDirectories(dir string) error {
	rootAbs, err := filepath.Abs(s.config.Get().LibraryPath)
	if err != nil {
		return err
	}

	for {
		if dir == rootAbs {
			return nil
		}
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			return nil // Directory doesn't exist, nothing to do
		}

		entries, err := os.ReadDir(dir)
		if err != nil {
			return fmt.Errorf("failed to read directory %s: %w", dir, err)
		}
		if len(entries) > 0 {
			break
		}

		if err := os.Remove(dir); err != nil {
			return fmt.Errorf("failed to remove empty directory %s: %w", dir, err)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return nil
}

func copyFile(src, dst string) error {
	sourceFileStat, err := os.Stat(src)
	if err != nil {
		return err
	}

	if !sourceFileStat.Mode().IsRegular() {
		return fmt.Errorf("%s is not a regular file", src)
	}

	source, err := os.Open(src)
	if err != nil {
		return err
	}
	defer source.Close()

	destination, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer destination.Close()
	_, err = io.Copy(destination, source)
	return err
}
