package files

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/kalouantonis/chorus/src/features/config"
	"github.com/kalouantonis/chorus/src/features/songs"
)

func newTestStore(t *testing.T) (*DiskStore, string) {
	t.Helper()
	root := t.TempDir()
	cfg := config.NewManager(&config.Config{LibraryPath: root})
	return NewDiskStore(cfg), root
}

func stageUpload(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "staged")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestStore_CopiesUploadIntoLibrary(t *testing.T) {
	store, root := newTestStore(t)
	src := stageUpload(t, "audio-bytes")

	relPath, err := store.Store(context.Background(), &songs.Upload{TempPath: src, Filename: "song.mp3"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if relPath != "song.mp3" {
		t.Errorf("expected relative path song.mp3, got %s", relPath)
	}

	stored, err := os.ReadFile(filepath.Join(root, relPath))
	if err != nil {
		t.Fatalf("stored file missing: %v", err)
	}
	if string(stored) != "audio-bytes" {
		t.Errorf("stored content differs from upload: %q", stored)
	}
}

func TestStore_OverwritesSameName(t *testing.T) {
	store, root := newTestStore(t)

	first := stageUpload(t, "first version")
	if _, err := store.Store(context.Background(), &songs.Upload{TempPath: first, Filename: "dup.mp3"}); err != nil {
		t.Fatal(err)
	}

	second := stageUpload(t, "second version")
	relPath, err := store.Store(context.Background(), &songs.Upload{TempPath: second, Filename: "dup.mp3"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	stored, err := os.ReadFile(filepath.Join(root, relPath))
	if err != nil {
		t.Fatal(err)
	}
	if string(stored) != "second version" {
		t.Errorf("expected newest upload to win, got %q", stored)
	}
}

func TestStore_SanitizesFilename(t *testing.T) {
	store, _ := newTestStore(t)
	src := stageUpload(t, "x")

	relPath, err := store.Store(context.Background(), &songs.Upload{TempPath: src, Filename: "  Motörhead/Overkill.mp3  "})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if relPath != "Motorhead-Overkill.mp3" {
		t.Errorf("expected folded and flattened name, got %s", relPath)
	}
}

func TestStore_EmptyFilenameFallsBack(t *testing.T) {
	store, _ := newTestStore(t)
	src := stageUpload(t, "x")

	relPath, err := store.Store(context.Background(), &songs.Upload{TempPath: src, Filename: "   "})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if relPath != "untitled" {
		t.Errorf("expected fallback name, got %s", relPath)
	}
}

func TestRemove_DeletesStoredFile(t *testing.T) {
	store, root := newTestStore(t)
	src := stageUpload(t, "x")

	relPath, err := store.Store(context.Background(), &songs.Upload{TempPath: src, Filename: "gone.mp3"})
	if err != nil {
		t.Fatal(err)
	}

	if err := store.Remove(context.Background(), relPath); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, relPath)); !os.IsNotExist(err) {
		t.Error("expected file to be removed")
	}

	// Removing a file that is already gone is fine
	if err := store.Remove(context.Background(), relPath); err != nil {
		t.Errorf("expected no error for missing file, got %v", err)
	}
}

func TestRemove_CleansEmptyParentDirectory(t *testing.T) {
	store, root := newTestStore(t)

	coverDir := filepath.Join(root, "covers")
	if err := os.MkdirAll(coverDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(coverDir, "song.mp3.jpg"), []byte("jpg"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := store.Remove(context.Background(), filepath.Join("covers", "song.mp3.jpg")); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, err := os.Stat(coverDir); !os.IsNotExist(err) {
		t.Error("expected empty covers directory to be cleaned up")
	}
	if _, err := os.Stat(root); err != nil {
		t.Error("library root must survive the cleanup")
	}
}

func TestResolve_RejectsEscapingPaths(t *testing.T) {
	store, root := newTestStore(t)

	if _, err := store.Resolve(filepath.Join("..", "outside.mp3")); err == nil {
		t.Error("expected error for path escaping the library root")
	}

	path, err := store.Resolve("song.mp3")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	rootAbs, _ := filepath.Abs(root)
	if path != filepath.Join(rootAbs, "song.mp3") {
		t.Errorf("unexpected resolved path: %s", path)
	}
}
