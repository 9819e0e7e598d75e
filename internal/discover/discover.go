// Package discover enumerates a directory tree and classifies entries
// into audio samples and DAW project files.
package discover

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/soundforge/beatscan/internal/apperr"
	"github.com/soundforge/beatscan/internal/models"
)

// audioExtensions is the case-insensitive allow-list of sample formats.
var audioExtensions = map[string]struct{}{
	".mp3":  {},
	".wav":  {},
	".flac": {},
	".ogg":  {},
	".aiff": {},
}

// dawExtensions maps a project-file extension to the editor that owns it.
var dawExtensions = map[string]string{
	".als":    "Ableton",
	".flp":    "FL Studio",
	".logicx": "Logic Pro",
	".ptx":    "Pro Tools",
}

// IsAudio reports whether path carries a supported audio extension.
func IsAudio(path string) bool {
	_, ok := audioExtensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Scan walks root recursively and returns audio sample paths and DAW
// project references, both in lexical walk order.
//
// A missing or unreadable root is fatal and returns *apperr.DiscoveryError.
// Unreadable subdirectories encountered mid-walk are logged and skipped
// so one protected folder cannot abort a whole library scan. WalkDir
// does not follow symlinked directories, so symlink loops cannot recurse.
func Scan(root string, logger *slog.Logger) ([]string, []models.ProjectFileReference, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, nil, &apperr.DiscoveryError{Root: root, Err: err}
	}
	if !info.IsDir() {
		return nil, nil, &apperr.DiscoveryError{Root: root, Err: fs.ErrInvalid}
	}

	var audio []string
	var projects []models.ProjectFileReference

	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if p == root {
				return walkErr
			}
			logger.Warn("discover: skipping unreadable entry",
				slog.String("path", p),
				slog.String("error", walkErr.Error()))
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}

		ext := strings.ToLower(filepath.Ext(d.Name()))
		if _, ok := audioExtensions[ext]; ok {
			audio = append(audio, p)
			return nil
		}
		if editor, ok := dawExtensions[ext]; ok {
			projects = append(projects, models.ProjectFileReference{
				Editor: editor,
				Path:   p,
			})
		}
		return nil
	})
	if err != nil {
		return nil, nil, &apperr.DiscoveryError{Root: root, Err: err}
	}

	return audio, projects, nil
}
