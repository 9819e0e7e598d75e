package analyze

import (
	"errors"
	"fmt"
	"os"

	"github.com/dhowden/tag"
)

// FileTagReader reads embedded tags (ID3, Vorbis comments, MP4 atoms)
// straight from the container.
type FileTagReader struct{}

// ReadTags opens path and extracts title and artist. Untagged files are
// not an error; both fields come back empty.
func (FileTagReader) ReadTags(path string) (Tags, error) {
	f, err := os.Open(path)
	if err != nil {
		return Tags{}, fmt.Errorf("tags: open %s: %w", path, err)
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if errors.Is(err, tag.ErrNoTagsFound) {
		return Tags{}, nil
	}
	if err != nil {
		return Tags{}, fmt.Errorf("tags: read %s: %w", path, err)
	}
	return Tags{Title: m.Title(), Artist: m.Artist()}, nil
}
