package metrics

import (
	"context"

	"github.com/kalouantonis/chorus/src/music"
)

// StatsProvider provides the library counts behind the stats endpoints.
type StatsProvider interface {
	// Total number of songs in the library.
	CountSongs(ctx context.Context) (int, error)

	// Distribution of songs by genre. Songs without a genre are grouped
	// under "Unknown".
	GenreCounts(ctx context.Context) (map[string]int, error)

	// Distinct non-empty artist and album names.
	DistinctArtists(ctx context.Context) (int, error)
	DistinctAlbums(ctx context.Context) (int, error)

	// Songs that were ingested without any usable metadata.
	UntaggedCount(ctx context.Context) (int, error)

	// The most recently added songs, newest first.
	RecentSongs(ctx context.Context, limit int) ([]*music.Song, error)
}

// Stats summarizes the library contents.
type Stats struct {
	Songs    int            `json:"songs"`
	Artists  int            `json:"artists"`
	Albums   int            `json:"albums"`
	Untagged int            `json:"untagged"`
	Genres   map[string]int `json:"genres"`
}
