package metrics

import (
	"context"
	"log/slog"

	"github.com/kalouantonis/chorus/src/music"
)

// Service provides statistics about the music library.
type Service struct {
	stats StatsProvider
}

// NewService creates a new metrics service.
func NewService(stats StatsProvider) *Service {
	return &Service{stats: stats}
}

// GetStats aggregates the library counts. Individual count failures are
// tolerated and logged, the corresponding field stays zero.
func (s *Service) GetStats(ctx context.Context) *Stats {
	data := &Stats{Genres: make(map[string]int)}

	if songs, err := s.stats.CountSongs(ctx); err != nil {
		slog.Warn("Failed to get song count", "error", err)
	} else {
		data.Songs = songs
	}
	if artists, err := s.stats.DistinctArtists(ctx); err != nil {
		slog.Warn("Failed to get artist count", "error", err)
	} else {
		data.Artists = artists
	}
	if albums, err := s.stats.DistinctAlbums(ctx); err != nil {
		slog.Warn("Failed to get album count", "error", err)
	} else {
		data.Albums = albums
	}
	if untagged, err := s.stats.UntaggedCount(ctx); err != nil {
		slog.Warn("Failed to get untagged count", "error", err)
	} else {
		data.Untagged = untagged
	}
	if genres, err := s.stats.GenreCounts(ctx); err != nil {
		slog.Warn("Failed to get genre counts", "error", err)
	} else {
		data.Genres = genres
	}

	return data
}

// Recent returns the most recently added songs, newest first.
func (s *Service) Recent(ctx context.Context, limit int) ([]*music.Song, error) {
	if limit <= 0 {
		limit = 10
	}
	songs, err := s.stats.RecentSongs(ctx, limit)
	if err != nil {
		slog.Error("Failed to get recent songs", "error", err)
		return nil, err
	}
	return songs, nil
}
