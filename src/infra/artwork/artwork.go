package artwork

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dhowden/tag"
	"github.com/kalouantonis/chorus/src/features/config"
	"github.com/kalouantonis/chorus/src/features/songs"
	"github.com/nfnt/resize"
	_ "golang.org/x/image/webp"
)

// Extractor pulls embedded cover art out of ingested audio files and stores
// resized JPEG thumbnails under the library root.
type Extractor struct {
	config *config.Manager
}

// NewExtractor creates a new artwork extractor.
func NewExtractor(cfg *config.Manager) *Extractor {
	return &Extractor{config: cfg}
}

// SaveCover extracts the embedded picture from the audio file at audioPath
// and writes a thumbnail for the stored song file. Returns the cover path
// relative to the library root, or "" when the file carries no picture or
// extraction is disabled.
func (e *Extractor) SaveCover(ctx context.Context, audioPath string, songFile string) (string, error) {
	cfg := e.config.Get()
	if !cfg.Artwork.Embedded.Enabled {
		return "", nil
	}

	file, err := os.Open(audioPath)
	if err != nil {
		return "", fmt.Errorf("failed to open audio file: %w", err)
	}
	defer file.Close()

	meta, err := tag.ReadFrom(file)
	if err != nil {
		if errors.Is(err, tag.ErrNoTagsFound) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read tags for artwork: %w", err)
	}

	pic := meta.Picture()
	if pic == nil || len(pic.Data) == 0 {
		return "", nil
	}

	thumb, err := thumbnail(pic.Data, cfg.Artwork.Embedded.Size, cfg.Artwork.Embedded.Quality)
	if err != nil {
		return "", fmt.Errorf("failed to process cover image: %w", err)
	}

	coverRel := songs.CoverFile(songFile)
	coverPath := filepath.Join(cfg.LibraryPath, coverRel)
	if err := os.MkdirAll(filepath.Dir(coverPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create covers directory: %w", err)
	}
	if err := os.WriteFile(coverPath, thumb, 0644); err != nil {
		return "", fmt.Errorf("failed to write cover file: %w", err)
	}

	slog.Debug("Saved cover art", "path", coverPath, "bytes", len(thumb))
	return coverRel, nil
}

// thumbnail decodes, shrinks and re-encodes image data as JPEG.
func thumbnail(imgData []byte, maxSize, quality int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(imgData))
	if err != nil {
		return nil, err
	}

	if maxSize > 0 {
		img = resize.Thumbnail(uint(maxSize), uint(maxSize), img, resize.Lanczos3)
	}

	if quality <= 0 {
		quality = 85
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
