package transcription

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"asreval/internal/metadata"
)

// audioExtensions lists the clip extensions the driver picks up.
var audioExtensions = map[string]struct{}{
	".wav":  {},
	".mp3":  {},
	".m4a":  {},
	".flac": {},
	".ogg":  {},
}

// IsAudioFile reports whether name carries a known audio extension.
func IsAudioFile(name string) bool {
	_, ok := audioExtensions[strings.ToLower(filepath.Ext(name))]
	return ok
}

// Scan lists the clips under root in lexical path order. The flat layout only
// looks at root itself; the nested layout walks every subdirectory.
func Scan(root, layout string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("audio root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("audio root %s is not a directory", root)
	}

	var files []string
	switch layout {
	case metadata.Flat:
		entries, err := os.ReadDir(root)
		if err != nil {
			return nil, fmt.Errorf("list audio root: %w", err)
		}
		for _, entry := range entries {
			if entry.Type().IsRegular() && IsAudioFile(entry.Name()) {
				files = append(files, filepath.Join(root, entry.Name()))
			}
		}
	case metadata.Nested:
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.Type().IsRegular() && IsAudioFile(d.Name()) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk audio root: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown audio layout %q", layout)
	}

	sort.Strings(files)
	return files, nil
}
