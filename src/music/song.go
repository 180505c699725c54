package music

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Song represents a single audio file in the library.
type Song struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Artist string `json:"artist"`
	Album  string `json:"album"`
	Genre  string `json:"genre"`
	Track  int    `json:"track"`
	File   string `json:"file"`
}

// Validate validates the song fields. The text fields stay optional so that
// untagged files remain first-class library members.
func (s *Song) Validate() error {
	if len(s.Title) > 500 {
		err := fmt.Errorf("title cannot exceed 500 characters, got %d: title -> %s", len(s.Title), s.Title)
		return err
	}
	if len(s.Artist) > 500 {
		err := fmt.Errorf("artist cannot exceed 500 characters, got %d: artist -> %s", len(s.Artist), s.Artist)
		return err
	}
	if len(s.Album) > 500 {
		err := fmt.Errorf("album cannot exceed 500 characters, got %d: album -> %s", len(s.Album), s.Album)
		return err
	}
	if s.Genre != "" && len(s.Genre) > 100 {
		s.Genre = s.Genre[:100]
	}
	if s.Track < 0 {
		err := fmt.Errorf("track number cannot be negative, got %d", s.Track)
		return err
	}
	if strings.TrimSpace(s.File) == "" {
		err := fmt.Errorf("song file path cannot be empty")
		return err
	}
	if len(s.File) > 1000 {
		err := fmt.Errorf("song file path cannot exceed 1000 characters, got %d: file -> %s", len(s.File), s.File)
		return err
	}
	if filepath.IsAbs(s.File) {
		err := fmt.Errorf("song file path must be relative to the library root: file -> %s", s.File)
		return err
	}
	return nil
}

// DisplayTitle returns the title, falling back to the file name for songs
// that were ingested without a readable tag.
func (s *Song) DisplayTitle() string {
	if strings.TrimSpace(s.Title) != "" {
		return s.Title
	}
	base := filepath.Base(s.File)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// DisplayArtist returns the artist name or a placeholder for untagged songs.
func (s *Song) DisplayArtist() string {
	if strings.TrimSpace(s.Artist) != "" {
		return s.Artist
	}
	return "Unknown Artist"
}
