package songs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/kalouantonis/chorus/src/features/config"
	"github.com/kalouantonis/chorus/src/music"
)

// MockLibrary is a mock implementation of music.Library
type MockLibrary struct {
	music.Library // Embed interface to avoid implementing all methods for now, will panic if unused methods called
	songs         map[string]*music.Song
	createErr     error
}

func NewMockLibrary() *MockLibrary {
	return &MockLibrary{
		songs: make(map[string]*music.Song),
	}
}

func (m *MockLibrary) CreateSong(ctx context.Context, song *music.Song) error {
	if m.createErr != nil {
		return m.createErr
	}
	song.ID = uuid.New().String()
	stored := *song
	m.songs[song.ID] = &stored
	return nil
}

func (m *MockLibrary) GetSong(ctx context.Context, id string) (*music.Song, error) {
	if song, ok := m.songs[id]; ok {
		found := *song
		return &found, nil
	}
	return nil, music.ErrSongNotFound
}

func (m *MockLibrary) GetSongs(ctx context.Context) ([]*music.Song, error) {
	songs := make([]*music.Song, 0, len(m.songs))
	for _, song := range m.songs {
		found := *song
		songs = append(songs, &found)
	}
	return songs, nil
}

func (m *MockLibrary) UpdateSong(ctx context.Context, song *music.Song) error {
	if _, ok := m.songs[song.ID]; !ok {
		return music.ErrSongNotFound
	}
	stored := *song
	m.songs[song.ID] = &stored
	return nil
}

func (m *MockLibrary) DeleteSong(ctx context.Context, id string) error {
	if _, ok := m.songs[id]; !ok {
		return music.ErrSongNotFound
	}
	delete(m.songs, id)
	return nil
}

type fakeTagReader struct {
	data *TagData
	err  error
}

func (f *fakeTagReader) ReadTags(ctx context.Context, path string) (*TagData, error) {
	return f.data, f.err
}

type fakeFileStore struct {
	stored    []string
	removed   []string
	removeErr error
}

func (f *fakeFileStore) Store(ctx context.Context, upload *Upload) (string, error) {
	f.stored = append(f.stored, upload.Filename)
	return filepath.Join("Unknown Artist", upload.Filename), nil
}

func (f *fakeFileStore) Remove(ctx context.Context, relPath string) error {
	f.removed = append(f.removed, relPath)
	return f.removeErr
}

func (f *fakeFileStore) Resolve(relPath string) (string, error) {
	return filepath.Join("/srv/music", relPath), nil
}

type fakeArtworkStore struct{}

func (f *fakeArtworkStore) SaveCover(ctx context.Context, audioPath string, songFile string) (string, error) {
	return "", nil
}

type fakeRecorder struct {
	ingested int
	deleted  int
	failures map[string]int
}

func newFakeRecorder() *fakeRecorder {
	return &fakeRecorder{failures: make(map[string]int)}
}

func (f *fakeRecorder) SongIngested()              { f.ingested++ }
func (f *fakeRecorder) SongDeleted()               { f.deleted++ }
func (f *fakeRecorder) IngestFailed(reason string) { f.failures[reason]++ }

func newTestService(lib music.Library, tags TagReader, files FileStore, recorder Recorder, cfg *config.Manager) *Service {
	if cfg == nil {
		cfg = config.NewManager(&config.Config{})
	}
	return NewService(lib, tags, files, &fakeArtworkStore{}, recorder, nil, nil, cfg)
}

func TestCreate_PopulatesSongFromTags(t *testing.T) {
	mockLib := NewMockLibrary()
	store := &fakeFileStore{}
	recorder := newFakeRecorder()
	reader := &fakeTagReader{data: &TagData{
		Title:  "Paranoid Android",
		Artist: "Radiohead",
		Album:  "OK Computer",
		Genre:  "Rock",
		Track:  2,
	}}
	service := newTestService(mockLib, reader, store, recorder, nil)

	song, err := service.Create(context.Background(), &Upload{TempPath: "/tmp/upload", Filename: "paranoid.mp3"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if song.ID == "" {
		t.Error("expected song to be assigned an id")
	}
	if song.Title != "Paranoid Android" || song.Artist != "Radiohead" {
		t.Errorf("expected tag fields on song, got %+v", song)
	}
	if song.Track != 2 {
		t.Errorf("expected track 2, got %d", song.Track)
	}
	if song.File != filepath.Join("Unknown Artist", "paranoid.mp3") {
		t.Errorf("expected stored path on song, got %s", song.File)
	}
	if _, ok := mockLib.songs[song.ID]; !ok {
		t.Error("song was not added to library")
	}
	if recorder.ingested != 1 {
		t.Errorf("expected 1 ingested, got %d", recorder.ingested)
	}
}

func TestCreate_UntaggedFileGetsZeroValues(t *testing.T) {
	mockLib := NewMockLibrary()
	store := &fakeFileStore{}
	// A file without any tag block is still ingested
	reader := &fakeTagReader{data: nil}
	service := newTestService(mockLib, reader, store, newFakeRecorder(), nil)

	song, err := service.Create(context.Background(), &Upload{TempPath: "/tmp/upload", Filename: "mystery.mp3"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if song.Title != "" || song.Artist != "" || song.Album != "" || song.Genre != "" {
		t.Errorf("expected empty tag fields, got %+v", song)
	}
	if song.Track != 0 {
		t.Errorf("expected track 0, got %d", song.Track)
	}
	if song.File == "" {
		t.Error("expected file path to be set")
	}
}

func TestCreate_BadTrackAbortsBeforeStorage(t *testing.T) {
	mockLib := NewMockLibrary()
	store := &fakeFileStore{}
	recorder := newFakeRecorder()
	reader := &fakeTagReader{err: fmt.Errorf("%w: %q is not a number", ErrBadTrackNumber, "abc")}
	service := newTestService(mockLib, reader, store, recorder, nil)

	_, err := service.Create(context.Background(), &Upload{TempPath: "/tmp/upload", Filename: "broken.mp3"})
	if !errors.Is(err, ErrBadTrackNumber) {
		t.Fatalf("expected ErrBadTrackNumber, got %v", err)
	}

	if len(store.stored) != 0 {
		t.Errorf("expected no file stored, got %v", store.stored)
	}
	if len(mockLib.songs) != 0 {
		t.Error("expected no song in library")
	}
	if recorder.failures["tag"] != 1 {
		t.Errorf("expected 1 tag failure, got %v", recorder.failures)
	}
}

func TestCreate_LibraryFailureKeepsStoredFile(t *testing.T) {
	mockLib := NewMockLibrary()
	mockLib.createErr = errors.New("disk full")
	store := &fakeFileStore{}
	recorder := newFakeRecorder()
	reader := &fakeTagReader{data: &TagData{Title: "Song"}}
	service := newTestService(mockLib, reader, store, recorder, nil)

	_, err := service.Create(context.Background(), &Upload{TempPath: "/tmp/upload", Filename: "song.mp3"})
	if err == nil {
		t.Fatal("expected error")
	}

	if len(store.stored) != 1 {
		t.Errorf("expected file to be stored, got %v", store.stored)
	}
	if len(store.removed) != 0 {
		t.Errorf("expected no rollback of stored file, got %v", store.removed)
	}
	if recorder.failures["database"] != 1 {
		t.Errorf("expected 1 database failure, got %v", recorder.failures)
	}
}

func TestUpdate_MergesOnlyProvidedFields(t *testing.T) {
	mockLib := NewMockLibrary()
	seed := &music.Song{Title: "Old Title", Artist: "Old Artist", Album: "Old Album", Track: 1, File: "a/b.mp3"}
	mockLib.CreateSong(context.Background(), seed)
	service := newTestService(mockLib, &fakeTagReader{}, &fakeFileStore{}, newFakeRecorder(), nil)

	newTitle := "New Title"
	newTrack := 7
	song, err := service.Update(context.Background(), seed.ID, &SongChanges{Title: &newTitle, Track: &newTrack})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if song.Title != "New Title" {
		t.Errorf("expected updated title, got %s", song.Title)
	}
	if song.Track != 7 {
		t.Errorf("expected updated track, got %d", song.Track)
	}
	if song.Artist != "Old Artist" || song.Album != "Old Album" {
		t.Errorf("expected untouched fields to survive, got %+v", song)
	}
	if song.File != "a/b.mp3" {
		t.Errorf("expected file path to be immutable, got %s", song.File)
	}
	if song.ID != seed.ID {
		t.Errorf("expected id to be immutable, got %s", song.ID)
	}
}

func TestUpdate_UnknownSongReturnsNotFound(t *testing.T) {
	service := newTestService(NewMockLibrary(), &fakeTagReader{}, &fakeFileStore{}, newFakeRecorder(), nil)

	title := "Anything"
	_, err := service.Update(context.Background(), "no-such-id", &SongChanges{Title: &title})
	if !errors.Is(err, music.ErrSongNotFound) {
		t.Fatalf("expected ErrSongNotFound, got %v", err)
	}
}

func TestUpdate_InvalidChangesRejected(t *testing.T) {
	mockLib := NewMockLibrary()
	seed := &music.Song{Title: "Fine", Track: 1, File: "a/b.mp3"}
	mockLib.CreateSong(context.Background(), seed)
	service := newTestService(mockLib, &fakeTagReader{}, &fakeFileStore{}, newFakeRecorder(), nil)

	badTrack := -3
	_, err := service.Update(context.Background(), seed.ID, &SongChanges{Track: &badTrack})
	if !errors.Is(err, ErrInvalidSong) {
		t.Fatalf("expected ErrInvalidSong, got %v", err)
	}

	stored, _ := mockLib.GetSong(context.Background(), seed.ID)
	if stored.Track != 1 {
		t.Errorf("expected stored song untouched, got track %d", stored.Track)
	}
}

func TestDelete_RemovesRecordThenFiles(t *testing.T) {
	mockLib := NewMockLibrary()
	seed := &music.Song{Title: "Doomed", File: "artist/doomed.mp3"}
	mockLib.CreateSong(context.Background(), seed)
	store := &fakeFileStore{}
	recorder := newFakeRecorder()
	service := newTestService(mockLib, &fakeTagReader{}, store, recorder, nil)

	song, err := service.Delete(context.Background(), seed.ID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if song.Title != "Doomed" {
		t.Errorf("expected deleted song returned, got %+v", song)
	}

	if _, ok := mockLib.songs[seed.ID]; ok {
		t.Error("expected song record to be gone")
	}
	if len(store.removed) != 2 {
		t.Fatalf("expected audio and cover removal, got %v", store.removed)
	}
	if store.removed[0] != "artist/doomed.mp3" {
		t.Errorf("expected audio file removed first, got %v", store.removed)
	}
	if store.removed[1] != CoverFile("artist/doomed.mp3") {
		t.Errorf("expected cover removal, got %v", store.removed)
	}
	if recorder.deleted != 1 {
		t.Errorf("expected 1 deletion recorded, got %d", recorder.deleted)
	}
}

func TestDelete_FileRemovalFailureStillSucceeds(t *testing.T) {
	mockLib := NewMockLibrary()
	seed := &music.Song{Title: "Sticky", File: "artist/sticky.mp3"}
	mockLib.CreateSong(context.Background(), seed)
	store := &fakeFileStore{removeErr: errors.New("permission denied")}
	service := newTestService(mockLib, &fakeTagReader{}, store, newFakeRecorder(), nil)

	_, err := service.Delete(context.Background(), seed.ID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, ok := mockLib.songs[seed.ID]; ok {
		t.Error("expected song record to be gone despite file error")
	}
}

func TestDelete_UnknownSongReturnsNotFound(t *testing.T) {
	service := newTestService(NewMockLibrary(), &fakeTagReader{}, &fakeFileStore{}, newFakeRecorder(), nil)

	_, err := service.Delete(context.Background(), "no-such-id")
	if !errors.Is(err, music.ErrSongNotFound) {
		t.Fatalf("expected ErrSongNotFound, got %v", err)
	}
}

func TestScanInbox_IngestsOnlyAudioFiles(t *testing.T) {
	inbox := t.TempDir()
	for _, name := range []string{"one.mp3", "two.MP3", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(inbox, name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(inbox, "nested"), 0755); err != nil {
		t.Fatal(err)
	}

	mockLib := NewMockLibrary()
	cfg := config.NewManager(&config.Config{InboxPath: inbox, Import: config.Import{Move: true}})
	reader := &fakeTagReader{data: &TagData{Title: "Inbox Song"}}
	service := newTestService(mockLib, reader, &fakeFileStore{}, newFakeRecorder(), cfg)

	imported, err := service.ScanInbox(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if imported != 2 {
		t.Errorf("expected 2 imports, got %d", imported)
	}
	if len(mockLib.songs) != 2 {
		t.Errorf("expected 2 songs in library, got %d", len(mockLib.songs))
	}

	if _, err := os.Stat(filepath.Join(inbox, "one.mp3")); !os.IsNotExist(err) {
		t.Error("expected ingested file to be moved out of the inbox")
	}
	if _, err := os.Stat(filepath.Join(inbox, "notes.txt")); err != nil {
		t.Error("expected non-audio file to be left alone")
	}
}

func TestScanInbox_FailedFileLeftInPlace(t *testing.T) {
	inbox := t.TempDir()
	if err := os.WriteFile(filepath.Join(inbox, "broken.mp3"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := config.NewManager(&config.Config{InboxPath: inbox, Import: config.Import{Move: true}})
	reader := &fakeTagReader{err: fmt.Errorf("%w: empty track field", ErrBadTrackNumber)}
	service := newTestService(NewMockLibrary(), reader, &fakeFileStore{}, newFakeRecorder(), cfg)

	imported, err := service.ScanInbox(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if imported != 0 {
		t.Errorf("expected 0 imports, got %d", imported)
	}
	if _, err := os.Stat(filepath.Join(inbox, "broken.mp3")); err != nil {
		t.Error("expected failing file to stay in the inbox for manual fixing")
	}
}

func TestStartWatcher_WithoutWatcherFails(t *testing.T) {
	service := newTestService(NewMockLibrary(), &fakeTagReader{}, &fakeFileStore{}, newFakeRecorder(), nil)

	if err := service.StartWatcher(); err == nil {
		t.Fatal("expected error when no watcher is configured")
	}
	if service.WatcherRunning() {
		t.Error("expected watcher to be reported as not running")
	}
}
