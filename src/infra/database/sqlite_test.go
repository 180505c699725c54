package database

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/kalouantonis/chorus/src/music"
)

func newTestLibrary(t *testing.T) *SqliteLibrary {
	t.Helper()
	lib, err := NewSqliteLibrary(filepath.Join(t.TempDir(), "library.db"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	t.Cleanup(func() { lib.Close() })
	return lib
}

func mustCreate(t *testing.T, lib *SqliteLibrary, song *music.Song) *music.Song {
	t.Helper()
	if err := lib.CreateSong(context.Background(), song); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	return song
}

func TestCreateAndGetSong(t *testing.T) {
	lib := newTestLibrary(t)

	song := mustCreate(t, lib, &music.Song{
		Title:  "Paranoid",
		Artist: "Black Sabbath",
		Album:  "Paranoid",
		Genre:  "Metal",
		Track:  2,
		File:   "paranoid.mp3",
	})
	if song.ID == "" {
		t.Fatal("expected an id to be assigned on create")
	}

	got, err := lib.GetSong(context.Background(), song.ID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if *got != *song {
		t.Errorf("stored song differs: got %+v, want %+v", got, song)
	}
}

func TestCreateSong_RejectsInvalid(t *testing.T) {
	lib := newTestLibrary(t)

	err := lib.CreateSong(context.Background(), &music.Song{Title: "No File"})
	if err == nil {
		t.Fatal("expected validation error for song without a file")
	}

	count, err := lib.CountSongs(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if count != 0 {
		t.Errorf("expected invalid song not to be stored, count is %d", count)
	}
}

func TestGetSong_NotFound(t *testing.T) {
	lib := newTestLibrary(t)

	_, err := lib.GetSong(context.Background(), "no-such-id")
	if !errors.Is(err, music.ErrSongNotFound) {
		t.Errorf("expected ErrSongNotFound, got %v", err)
	}
}

func TestGetSongs_OrderedByArtistAlbumTrack(t *testing.T) {
	lib := newTestLibrary(t)

	// Inserted deliberately out of order
	mustCreate(t, lib, &music.Song{Title: "b-side", Artist: "Burial", Album: "Untrue", Track: 1, File: "d.mp3"})
	mustCreate(t, lib, &music.Song{Title: "later album", Artist: "Autechre", Album: "Tri Repetae", Track: 1, File: "c.mp3"})
	mustCreate(t, lib, &music.Song{Title: "second track", Artist: "Autechre", Album: "Amber", Track: 2, File: "b.mp3"})
	mustCreate(t, lib, &music.Song{Title: "first track", Artist: "Autechre", Album: "Amber", Track: 1, File: "a.mp3"})

	songs, err := lib.GetSongs(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(songs) != 4 {
		t.Fatalf("expected 4 songs, got %d", len(songs))
	}

	want := []string{"first track", "second track", "later album", "b-side"}
	for i, title := range want {
		if songs[i].Title != title {
			t.Errorf("position %d: expected %q, got %q", i, title, songs[i].Title)
		}
	}
}

func TestUpdateSong(t *testing.T) {
	lib := newTestLibrary(t)

	song := mustCreate(t, lib, &music.Song{Title: "Draft", Artist: "Nobody", File: "draft.mp3"})

	song.Title = "Final"
	song.Track = 4
	if err := lib.UpdateSong(context.Background(), song); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	got, err := lib.GetSong(context.Background(), song.ID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got.Title != "Final" || got.Track != 4 {
		t.Errorf("update not persisted: %+v", got)
	}
}

func TestUpdateSong_NotFound(t *testing.T) {
	lib := newTestLibrary(t)

	err := lib.UpdateSong(context.Background(), &music.Song{ID: "missing", File: "x.mp3"})
	if !errors.Is(err, music.ErrSongNotFound) {
		t.Errorf("expected ErrSongNotFound, got %v", err)
	}
}

func TestDeleteSong(t *testing.T) {
	lib := newTestLibrary(t)

	song := mustCreate(t, lib, &music.Song{Title: "Ephemeral", File: "e.mp3"})

	if err := lib.DeleteSong(context.Background(), song.ID); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, err := lib.GetSong(context.Background(), song.ID); !errors.Is(err, music.ErrSongNotFound) {
		t.Errorf("expected song to be gone, got %v", err)
	}
	if err := lib.DeleteSong(context.Background(), song.ID); !errors.Is(err, music.ErrSongNotFound) {
		t.Errorf("expected ErrSongNotFound on second delete, got %v", err)
	}
}

func TestLibraryCounts(t *testing.T) {
	lib := newTestLibrary(t)

	mustCreate(t, lib, &music.Song{Title: "One", Artist: "A", Album: "X", Genre: "Rock", File: "1.mp3"})
	mustCreate(t, lib, &music.Song{Title: "Two", Artist: "A", Album: "X", Genre: "Rock", File: "2.mp3"})
	mustCreate(t, lib, &music.Song{Title: "Three", Artist: "B", Album: "Y", File: "3.mp3"})
	// Untagged, straight out of the inbox
	mustCreate(t, lib, &music.Song{File: "4.mp3"})

	ctx := context.Background()

	if count, err := lib.CountSongs(ctx); err != nil || count != 4 {
		t.Errorf("CountSongs: expected 4, got %d (err %v)", count, err)
	}
	if count, err := lib.DistinctArtists(ctx); err != nil || count != 2 {
		t.Errorf("DistinctArtists: expected 2, got %d (err %v)", count, err)
	}
	if count, err := lib.DistinctAlbums(ctx); err != nil || count != 2 {
		t.Errorf("DistinctAlbums: expected 2, got %d (err %v)", count, err)
	}
	if count, err := lib.UntaggedCount(ctx); err != nil || count != 1 {
		t.Errorf("UntaggedCount: expected 1, got %d (err %v)", count, err)
	}

	genres, err := lib.GenreCounts(ctx)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if genres["Rock"] != 2 {
		t.Errorf("expected 2 Rock songs, got %d", genres["Rock"])
	}
	if genres["Unknown"] != 2 {
		t.Errorf("expected songs without a genre under Unknown, got %d", genres["Unknown"])
	}
}

func TestRecentSongs(t *testing.T) {
	lib := newTestLibrary(t)

	titles := []string{"first", "second", "third", "fourth", "fifth"}
	for i, title := range titles {
		mustCreate(t, lib, &music.Song{Title: title, File: title + ".mp3", Track: i + 1})
	}

	recent, err := lib.RecentSongs(context.Background(), 3)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(recent) != 3 {
		t.Fatalf("expected 3 songs, got %d", len(recent))
	}

	want := []string{"fifth", "fourth", "third"}
	for i, title := range want {
		if recent[i].Title != title {
			t.Errorf("position %d: expected %q, got %q", i, title, recent[i].Title)
		}
	}
}
