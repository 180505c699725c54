package songs

import (
	"context"
	"errors"
)

// ErrBadTrackNumber is returned when a tag carries a track field that is not
// a non-negative integer. Ingestion aborts before the file is stored.
var ErrBadTrackNumber = errors.New("bad track number")

// TagData holds the metadata extracted from an audio file's tag.
type TagData struct {
	Title  string
	Artist string
	Album  string
	Genre  string
	Track  int
}

// TagReader defines the interface for reading metadata from audio files.
type TagReader interface {
	// ReadTags reads the tag of the file at path. A file without any
	// parseable tag yields (nil, nil): missing metadata is not an error. A
	// malformed track field is.
	ReadTags(ctx context.Context, path string) (*TagData, error)
}
