package tag

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/dhowden/tag"
	"github.com/kalouantonis/chorus/src/features/songs"
)

// Reader is an implementation of the songs.TagReader interface that uses the dhowden/tag library.
type Reader struct{}

// NewReader creates a new Reader
func NewReader() songs.TagReader {
	return &Reader{}
}

// Source is the narrow slice of a file's tag that the reader consumes. The
// track number is exposed as the raw frame TEXT so that malformed values can
// be rejected instead of silently coerced.
type Source interface {
	Title() string
	Artist() string
	Album() string
	Genre() string
	TrackText() string
}

// ReadTags reads metadata from a music file. A file with no parseable tag is
// not an error: both return values are nil and the caller proceeds without
// metadata. A tag with a malformed track field is an error.
func (r *Reader) ReadTags(ctx context.Context, filePath string) (*songs.TagData, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	tags, err := tag.ReadFrom(file)
	if err != nil {
		if errors.Is(err, tag.ErrNoTagsFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read tags: %w", err)
	}

	return DataFromSource(metadataSource{tags})
}

// DataFromSource builds TagData from a tag source.
func DataFromSource(src Source) (*songs.TagData, error) {
	trackNumber, err := parseTrackNumber(src.TrackText())
	if err != nil {
		return nil, err
	}

	return &songs.TagData{
		Title:  strings.TrimSpace(src.Title()),
		Artist: strings.TrimSpace(src.Artist()),
		Album:  strings.TrimSpace(src.Album()),
		Genre:  strings.TrimSpace(src.Genre()),
		Track:  trackNumber,
	}, nil
}

// parseTrackNumber parses the textual track field of a tag. The "n/total"
// form is common in ID3v2 TRCK frames, the part before the slash is the
// number.
func parseTrackNumber(text string) (int, error) {
	text = strings.TrimSpace(text)
	if i := strings.IndexByte(text, '/'); i >= 0 {
		text = strings.TrimSpace(text[:i])
	}
	if text == "" {
		return 0, fmt.Errorf("%w: empty track field", songs.ErrBadTrackNumber)
	}
	n, err := strconv.Atoi(text)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", songs.ErrBadTrackNumber, text)
	}
	if n < 0 {
		return 0, fmt.Errorf("%w: track %d is negative", songs.ErrBadTrackNumber, n)
	}
	return n, nil
}

// metadataSource adapts a dhowden tag.Metadata to the Source interface.
type metadataSource struct {
	meta tag.Metadata
}

func (s metadataSource) Title() string  { return s.meta.Title() }
func (s metadataSource) Artist() string { return s.meta.Artist() }
func (s metadataSource) Album() string  { return s.meta.Album() }
func (s metadataSource) Genre() string  { return s.meta.Genre() }

// TrackText returns the raw textual track field. ID3v2 keeps it in the TRCK
// frame (TRK for v2.2), ID3v1 stores a plain int.
func (s metadataSource) TrackText() string {
	if rawTags := s.meta.Raw(); rawTags != nil {
		for _, field := range []string{"TRCK", "TRK", "track"} {
			value, ok := rawTags[field]
			if !ok {
				continue
			}
			switch v := value.(type) {
			case string:
				return v
			case int:
				return strconv.Itoa(v)
			}
		}
	}

	// Formats without raw frame access still expose the parsed number.
	if n, _ := s.meta.Track(); n > 0 {
		return strconv.Itoa(n)
	}
	return ""
}
