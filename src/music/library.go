package music

import (
	"context"
	"errors"
)

// ErrSongNotFound is returned when a song id has no matching library entry.
var ErrSongNotFound = errors.New("song not found")

// Library is the interface for managing the music library.
// It's our primary repository interface for the library domain.
type Library interface {
	// CreateSong persists a new song and assigns its ID. The passed struct is
	// mutated with the generated id.
	CreateSong(ctx context.Context, song *Song) error
	// GetSong returns the song with the given id, or ErrSongNotFound.
	GetSong(ctx context.Context, id string) (*Song, error)
	// GetSongs returns every song in the library in a stable order.
	GetSongs(ctx context.Context) ([]*Song, error)
	// UpdateSong replaces the stored row for song.ID, or returns
	// ErrSongNotFound when the id is unknown.
	UpdateSong(ctx context.Context, song *Song) error
	// DeleteSong removes the song with the given id, or returns
	// ErrSongNotFound when the id is unknown.
	DeleteSong(ctx context.Context, id string) error
}
