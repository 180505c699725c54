package songs

import (
	"context"
	"path/filepath"
)

// Upload is a staged payload waiting to be ingested.
type Upload struct {
	// TempPath is where the payload currently sits on local disk.
	TempPath string
	// Filename is the client-supplied original name, it decides the stored
	// name after sanitization.
	Filename string
}

// FileStore stores song payloads under the configured library root.
type FileStore interface {
	// Store copies the staged upload into the library and returns the stored
	// path relative to the library root. Same-name uploads overwrite.
	Store(ctx context.Context, upload *Upload) (string, error)
	// Remove deletes a stored file. A file that is already gone is not an
	// error.
	Remove(ctx context.Context, relPath string) error
	// Resolve returns the absolute path of a stored file, rejecting paths
	// that escape the library root.
	Resolve(relPath string) (string, error)
}

// ArtworkStore extracts and stores cover art for ingested songs.
type ArtworkStore interface {
	// SaveCover extracts embedded art from the staged audio file and writes a
	// thumbnail for the stored song file. Returns the cover's library
	// relative path, or "" when the file carries none.
	SaveCover(ctx context.Context, audioPath string, songFile string) (string, error)
}

// CoverFile returns the library-relative cover location for a stored song
// file.
func CoverFile(songFile string) string {
	return filepath.Join("covers", songFile+".jpg")
}
