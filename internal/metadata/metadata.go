package metadata

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// Unknown is the sentinel substituted for any token a path does not carry.
const Unknown = "unknown"

// Strategy names accepted by ForLayout.
const (
	Flat   = "flat"
	Nested = "nested"
)

// Fields is the metadata parsed from one clip path.
type Fields struct {
	Environment string
	// Condition is the noise type (nested) or speaking rate (flat).
	Condition string
	Speaker   string
	// Index is the speaker number (nested) or clip index (flat).
	Index string
	// SNR is the signal-to-noise token of nested names; empty for flat names.
	SNR string
}

// Columns names the CSV columns a strategy uses for the layout-specific fields.
type Columns struct {
	Condition string
	Index     string
}

// Extractor parses metadata from a clip path.
type Extractor interface {
	Name() string
	Columns() Columns
	Extract(path string) Fields
}

// ForLayout returns the extractor registered under name.
func ForLayout(name string) (Extractor, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case Flat:
		return FlatExtractor{}, nil
	case Nested:
		return NestedExtractor{}, nil
	default:
		return nil, fmt.Errorf("unknown metadata layout %q (want %q or %q)", name, Flat, Nested)
	}
}

// FlatExtractor parses <env>_<rate>_<speaker>_<index>.<ext>. Tokens past the
// fourth are ignored.
type FlatExtractor struct{}

func (FlatExtractor) Name() string { return Flat }

func (FlatExtractor) Columns() Columns {
	return Columns{Condition: "rate", Index: "index"}
}

func (FlatExtractor) Extract(path string) Fields {
	parts := strings.Split(stem(path), "_")
	return Fields{
		Environment: token(parts, 0),
		Condition:   token(parts, 1),
		Speaker:     token(parts, 2),
		Index:       token(parts, 3),
	}
}

// NestedExtractor parses <env>/<speaker>_<noise>_<snr>.<ext>. The environment
// is the parent directory name verbatim; the noise type is that name without
// its _<N>dB marker, falling back to the second filename token when the clip
// has no parent directory.
type NestedExtractor struct{}

func (NestedExtractor) Name() string { return Nested }

func (NestedExtractor) Columns() Columns {
	return Columns{Condition: "noise_type", Index: "speaker_num"}
}

var snrSuffix = regexp.MustCompile(`(?i)_-?\d+(\.\d+)?db$`)

func (NestedExtractor) Extract(path string) Fields {
	parts := strings.Split(stem(path), "_")
	speaker := token(parts, 0)

	fields := Fields{
		Environment: Unknown,
		Condition:   token(parts, 1),
		Speaker:     speaker,
		Index:       speakerNumber(speaker),
		SNR:         token(parts, 2),
	}

	dir := filepath.Base(filepath.Dir(filepath.Clean(path)))
	if dir != "." && dir != string(filepath.Separator) && dir != "" {
		fields.Environment = dir
		if noise := snrSuffix.ReplaceAllString(dir, ""); noise != "" {
			fields.Condition = noise
		}
	}
	return fields
}

// speakerNumber strips a leading "sp" from a speaker code: sp01 -> 01.
func speakerNumber(speaker string) string {
	if speaker == Unknown {
		return Unknown
	}
	if len(speaker) > 2 && strings.EqualFold(speaker[:2], "sp") {
		return speaker[2:]
	}
	return speaker
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func token(parts []string, i int) string {
	if i >= len(parts) {
		return Unknown
	}
	if t := strings.TrimSpace(parts[i]); t != "" {
		return t
	}
	return Unknown
}
