package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/kalouantonis/chorus/src/music"
	_ "github.com/mattn/go-sqlite3"
)

// SqliteLibrary is a SQLite implementation of the Library interface.
type SqliteLibrary struct {
	db *sql.DB
}

// NewSqliteLibrary creates a new SqliteLibrary.
func NewSqliteLibrary(path string) (*SqliteLibrary, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if err := createTables(db); err != nil {
		return nil, err
	}

	return &SqliteLibrary{db: db}, nil
}

// Close closes the underlying database handle.
func (d *SqliteLibrary) Close() error {
	return d.db.Close()
}

func createTables(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS songs (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL DEFAULT '',
			artist TEXT NOT NULL DEFAULT '',
			album TEXT NOT NULL DEFAULT '',
			genre TEXT NOT NULL DEFAULT '',
			track_number INTEGER NOT NULL DEFAULT 0,
			file TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_songs_artist ON songs(artist);
		CREATE INDEX IF NOT EXISTS idx_songs_album ON songs(album);
	`)
	if err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	return nil
}

// CreateSong inserts a new song. The id is assigned here, the passed struct
// is mutated with the generated value.
func (d *SqliteLibrary) CreateSong(ctx context.Context, song *music.Song) error {
	// Validate song using domain validation
	if err := song.Validate(); err != nil {
		slog.Error("CreateSong: validation failed", "error", err, "file", song.File)
		return err
	}

	song.ID = uuid.New().String()

	_, err := d.db.ExecContext(ctx, `
		INSERT INTO songs (id, title, artist, album, genre, track_number, file)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, song.ID, song.Title, song.Artist, song.Album, song.Genre, song.Track, song.File)
	if err != nil {
		return fmt.Errorf("failed to insert song: %w", err)
	}

	return nil
}

// GetSong returns the song with the given id.
func (d *SqliteLibrary) GetSong(ctx context.Context, id string) (*music.Song, error) {
	row := d.db.QueryRowContext(ctx, `
		SELECT id, title, artist, album, genre, track_number, file
		FROM songs
		WHERE id = ?
	`, id)

	song := &music.Song{}
	err := row.Scan(&song.ID, &song.Title, &song.Artist, &song.Album, &song.Genre, &song.Track, &song.File)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, music.ErrSongNotFound
		}
		return nil, err
	}

	return song, nil
}

// GetSongs returns every song in the library ordered by artist, album,
// track number and title.
func (d *SqliteLibrary) GetSongs(ctx context.Context) ([]*music.Song, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT id, title, artist, album, genre, track_number, file
		FROM songs
		ORDER BY artist, album, track_number, title
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSongs(rows)
}

// UpdateSong replaces the stored row for song.ID.
func (d *SqliteLibrary) UpdateSong(ctx context.Context, song *music.Song) error {
	// Validate song using domain validation
	if err := song.Validate(); err != nil {
		slog.Error("UpdateSong: validation failed", "error", err, "songID", song.ID)
		return err
	}

	result, err := d.db.ExecContext(ctx, `
		UPDATE songs
		SET title = ?, artist = ?, album = ?, genre = ?, track_number = ?, file = ?
		WHERE id = ?
	`, song.Title, song.Artist, song.Album, song.Genre, song.Track, song.File, song.ID)
	if err != nil {
		return fmt.Errorf("failed to update song: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return music.ErrSongNotFound
	}
	return nil
}

// DeleteSong removes the song with the given id.
func (d *SqliteLibrary) DeleteSong(ctx context.Context, id string) error {
	result, err := d.db.ExecContext(ctx, `DELETE FROM songs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete song: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return music.ErrSongNotFound
	}
	return nil
}

// CountSongs returns the total number of songs in the library.
func (d *SqliteLibrary) CountSongs(ctx context.Context) (int, error) {
	var count int
	err := d.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM songs`).Scan(&count)
	return count, err
}

// GenreCounts returns the distribution of songs by genre.
func (d *SqliteLibrary) GenreCounts(ctx context.Context) (map[string]int, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT COALESCE(NULLIF(genre, ''), 'Unknown') AS genre, COUNT(*) AS count
		FROM songs
		GROUP BY genre
		ORDER BY count DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var genre string
		var count int
		if err := rows.Scan(&genre, &count); err != nil {
			return nil, err
		}
		// Songs tagged "Unknown" share a bucket with the untagged ones
		counts[genre] += count
	}
	return counts, rows.Err()
}

// DistinctArtists returns the number of distinct non-empty artist names.
func (d *SqliteLibrary) DistinctArtists(ctx context.Context) (int, error) {
	var count int
	err := d.db.QueryRowContext(ctx, `SELECT COUNT(DISTINCT artist) FROM songs WHERE artist != ''`).Scan(&count)
	return count, err
}

// DistinctAlbums returns the number of distinct non-empty album titles.
func (d *SqliteLibrary) DistinctAlbums(ctx context.Context) (int, error) {
	var count int
	err := d.db.QueryRowContext(ctx, `SELECT COUNT(DISTINCT album) FROM songs WHERE album != ''`).Scan(&count)
	return count, err
}

// UntaggedCount returns the number of songs ingested without any metadata.
func (d *SqliteLibrary) UntaggedCount(ctx context.Context) (int, error) {
	var count int
	err := d.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM songs
		WHERE title = '' AND artist = '' AND album = ''
	`).Scan(&count)
	return count, err
}

// RecentSongs returns the most recently added songs, newest first. The
// insertion order rides on the sqlite rowid.
func (d *SqliteLibrary) RecentSongs(ctx context.Context, limit int) ([]*music.Song, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT id, title, artist, album, genre, track_number, file
		FROM songs
		ORDER BY rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSongs(rows)
}

func scanSongs(rows *sql.Rows) ([]*music.Song, error) {
	var songs []*music.Song
	for rows.Next() {
		song := &music.Song{}
		err := rows.Scan(&song.ID, &song.Title, &song.Artist, &song.Album, &song.Genre, &song.Track, &song.File)
		if err != nil {
			return nil, err
		}
		songs = append(songs, song)
	}
	return songs, rows.Err()
}
