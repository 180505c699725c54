package songs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/kalouantonis/chorus/src/features/config"
	"github.com/kalouantonis/chorus/src/music"
)

// ErrInvalidSong marks payloads that fail domain validation.
var ErrInvalidSong = errors.New("invalid song")

// Service is the domain service for the songs feature.
type Service struct {
	library  music.Library
	tags     TagReader
	files    FileStore
	artwork  ArtworkStore
	recorder Recorder
	config   *config.Manager

	watcher       Watcher
	watcherEvents <-chan FileEvent
	watcherMu     sync.Mutex
	watcherOn     bool
}

// NewService creates a new songs service. The watcher pair may be nil when
// inbox watching is not wired.
func NewService(lib music.Library, tagReader TagReader, fileStore FileStore, artworkStore ArtworkStore, recorder Recorder, watcher Watcher, watcherEvents <-chan FileEvent, cfg *config.Manager) *Service {
	s := &Service{
		library:       lib,
		tags:          tagReader,
		files:         fileStore,
		artwork:       artworkStore,
		recorder:      recorder,
		config:        cfg,
		watcher:       watcher,
		watcherEvents: watcherEvents,
	}
	if watcher != nil && watcherEvents != nil {
		go s.consumeWatcherEvents()
	}
	return s
}

// Create ingests a staged upload: tags are read first, then the payload is
// stored, then the song row is written. A malformed tag aborts the operation
// before anything lands in the library. A persistence failure after storage
// leaves the stored file in place, a retried upload of the same name
// overwrites it.
func (s *Service) Create(ctx context.Context, upload *Upload) (*music.Song, error) {
	slog.Debug("Create service called", "filename", upload.Filename)

	data, err := s.tags.ReadTags(ctx, upload.TempPath)
	if err != nil {
		slog.Error("Create: tag extraction failed", "filename", upload.Filename, "error", err)
		s.recorder.IngestFailed("tag")
		return nil, fmt.Errorf("failed to extract tags: %w", err)
	}

	relPath, err := s.files.Store(ctx, upload)
	if err != nil {
		slog.Error("Create: file storage failed", "filename", upload.Filename, "error", err)
		s.recorder.IngestFailed("storage")
		return nil, fmt.Errorf("failed to store file: %w", err)
	}

	song := &music.Song{File: relPath}
	if data != nil {
		song.Title = data.Title
		song.Artist = data.Artist
		song.Album = data.Album
		song.Genre = data.Genre
		song.Track = data.Track
	}

	if err := song.Validate(); err != nil {
		slog.Error("Create: song validation failed", "filename", upload.Filename, "error", err)
		s.recorder.IngestFailed("validation")
		return nil, fmt.Errorf("%w: %s", ErrInvalidSong, err)
	}

	if err := s.library.CreateSong(ctx, song); err != nil {
		// The stored file stays behind: a record without a file is worse
		// than a file without a record, and a retried upload of the same
		// name overwrites it.
		slog.Error("Create: failed to add song to library", "file", relPath, "error", err)
		s.recorder.IngestFailed("database")
		return nil, fmt.Errorf("failed to add song to library: %w", err)
	}

	if cover, err := s.artwork.SaveCover(ctx, upload.TempPath, song.File); err != nil {
		slog.Warn("Create: cover extraction failed", "songID", song.ID, "error", err)
	} else if cover != "" {
		slog.Debug("Create: cover extracted", "songID", song.ID, "cover", cover)
	}

	s.recorder.SongIngested()
	slog.Debug("Create completed", "songID", song.ID, "file", song.File)
	return song, nil
}

// Get returns a single song by id.
func (s *Service) Get(ctx context.Context, id string) (*music.Song, error) {
	slog.Debug("Get service called", "songID", id)
	song, err := s.library.GetSong(ctx, id)
	if err != nil {
		slog.Error("Get failed", "songID", id, "error", err)
		return nil, err
	}
	return song, nil
}

// List returns all songs in the library.
func (s *Service) List(ctx context.Context) ([]*music.Song, error) {
	slog.Debug("List service called")
	songs, err := s.library.GetSongs(ctx)
	if err != nil {
		slog.Error("List failed", "error", err)
		return nil, err
	}
	slog.Debug("List completed", "count", len(songs))
	return songs, nil
}

// SongChanges carries optional field updates for a song. Nil fields are left
// unchanged. The id and file path are not updatable.
type SongChanges struct {
	Title  *string `json:"title"`
	Artist *string `json:"artist"`
	Album  *string `json:"album"`
	Genre  *string `json:"genre"`
	Track  *int    `json:"track"`
}

// Update merges the non-nil changes into the stored song and persists it.
func (s *Service) Update(ctx context.Context, id string, changes *SongChanges) (*music.Song, error) {
	slog.Debug("Update service called", "songID", id)

	song, err := s.library.GetSong(ctx, id)
	if err != nil {
		slog.Error("Update: failed to load song", "songID", id, "error", err)
		return nil, err
	}

	if changes.Title != nil {
		song.Title = *changes.Title
	}
	if changes.Artist != nil {
		song.Artist = *changes.Artist
	}
	if changes.Album != nil {
		song.Album = *changes.Album
	}
	if changes.Genre != nil {
		song.Genre = *changes.Genre
	}
	if changes.Track != nil {
		song.Track = *changes.Track
	}

	if err := song.Validate(); err != nil {
		slog.Error("Update: song validation failed", "songID", id, "error", err)
		return nil, fmt.Errorf("%w: %s", ErrInvalidSong, err)
	}

	if err := s.library.UpdateSong(ctx, song); err != nil {
		slog.Error("Update: failed to update song", "songID", id, "error", err)
		return nil, err
	}

	slog.Debug("Update completed", "songID", id)
	return song, nil
}

// Delete removes a song. The database row goes first, the file removal is
// best effort afterwards: a record without a file is worse than a file
// without a record.
func (s *Service) Delete(ctx context.Context, id string) (*music.Song, error) {
	slog.Debug("Delete service called", "songID", id)

	song, err := s.library.GetSong(ctx, id)
	if err != nil {
		slog.Error("Delete: failed to load song", "songID", id, "error", err)
		return nil, err
	}

	if err := s.library.DeleteSong(ctx, id); err != nil {
		slog.Error("Delete: failed to delete song record", "songID", id, "error", err)
		return nil, err
	}

	if err := s.files.Remove(ctx, song.File); err != nil {
		slog.Warn("Delete: failed to remove song file", "songID", id, "file", song.File, "error", err)
	}
	if err := s.files.Remove(ctx, CoverFile(song.File)); err != nil {
		slog.Warn("Delete: failed to remove cover file", "songID", id, "error", err)
	}

	s.recorder.SongDeleted()
	slog.Debug("Delete completed", "songID", id)
	return song, nil
}

// FilePath resolves the absolute on-disk location of a song's audio file.
func (s *Service) FilePath(song *music.Song) (string, error) {
	return s.files.Resolve(song.File)
}

// CoverPath resolves the absolute on-disk location of a song's cover art.
func (s *Service) CoverPath(song *music.Song) (string, error) {
	return s.files.Resolve(CoverFile(song.File))
}

// ScanInbox ingests every audio file currently sitting in the inbox
// directory. Files that fail ingestion are left in place for manual fixing.
// Returns the number of songs ingested.
func (s *Service) ScanInbox(ctx context.Context) (int, error) {
	inbox := s.config.Get().InboxPath
	slog.Debug("ScanInbox service called", "path", inbox)

	entries, err := os.ReadDir(inbox)
	if err != nil {
		slog.Error("ScanInbox: failed to read inbox", "path", inbox, "error", err)
		return 0, fmt.Errorf("failed to read inbox: %w", err)
	}

	imported := 0
	for _, entry := range entries {
		if entry.IsDir() || strings.ToLower(filepath.Ext(entry.Name())) != ".mp3" {
			continue
		}
		if ctx.Err() != nil {
			return imported, ctx.Err()
		}

		path := filepath.Join(inbox, entry.Name())
		song, err := s.Create(ctx, &Upload{TempPath: path, Filename: entry.Name()})
		if err != nil {
			slog.Error("ScanInbox: failed to ingest file", "file", path, "error", err)
			continue
		}

		if s.config.Get().Import.Move {
			if err := os.Remove(path); err != nil {
				slog.Warn("ScanInbox: failed to remove ingested file", "file", path, "error", err)
			}
		}
		imported++
		slog.Info("Ingested file from inbox", "file", path, "songID", song.ID)
	}

	slog.Debug("ScanInbox completed", "imported", imported)
	return imported, nil
}

// StartWatcher begins watching the inbox directory. Starting a watcher that
// is already running is a no-op.
func (s *Service) StartWatcher() error {
	s.watcherMu.Lock()
	defer s.watcherMu.Unlock()

	if s.watcher == nil {
		return fmt.Errorf("no file watcher configured")
	}
	if s.watcherOn {
		return nil
	}

	if err := s.watcher.Start(context.Background(), s.config.Get().InboxPath); err != nil {
		return fmt.Errorf("failed to start file watcher: %w", err)
	}
	s.watcherOn = true
	return nil
}

// StopWatcher stops the inbox watcher.
func (s *Service) StopWatcher() error {
	s.watcherMu.Lock()
	defer s.watcherMu.Unlock()

	if !s.watcherOn {
		return nil
	}
	s.watcher.Stop()
	s.watcherOn = false
	return nil
}

// WatcherRunning reports whether the inbox watcher is active.
func (s *Service) WatcherRunning() bool {
	s.watcherMu.Lock()
	defer s.watcherMu.Unlock()
	return s.watcherOn
}

// consumeWatcherEvents turns debounced inbox events into scans.
func (s *Service) consumeWatcherEvents() {
	for event := range s.watcherEvents {
		slog.Info("Inbox activity detected", "path", event.Path)
		if _, err := s.ScanInbox(context.Background()); err != nil {
			slog.Error("Inbox scan failed", "error", err)
		}
	}
}
