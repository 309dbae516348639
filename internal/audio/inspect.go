package audio

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-audio/wav"
)

var (
	// ErrUnsupported reports a clip whose container is not inspected.
	ErrUnsupported = errors.New("unsupported audio container")
	// ErrInvalidWAV reports a .wav file with a malformed header.
	ErrInvalidWAV = errors.New("invalid WAV file")
)

// Info describes a clip's format.
type Info struct {
	Duration   time.Duration
	SampleRate int
	Channels   int
	BitDepth   int
}

// Inspect reads the header of the clip at path.
func Inspect(path string) (Info, error) {
	if !strings.EqualFold(filepath.Ext(path), ".wav") {
		return Info{}, fmt.Errorf("%w: %s", ErrUnsupported, filepath.Ext(path))
	}
	file, err := os.Open(path)
	if err != nil {
		return Info{}, err
	}
	defer file.Close()

	decoder := wav.NewDecoder(file)
	if !decoder.IsValidFile() {
		return Info{}, fmt.Errorf("%w: %s", ErrInvalidWAV, path)
	}
	if err := decoder.FwdToPCM(); err != nil {
		return Info{}, fmt.Errorf("%w: %s: %v", ErrInvalidWAV, path, err)
	}
	format := decoder.Format()
	if format == nil {
		return Info{}, fmt.Errorf("%w: %s", ErrInvalidWAV, path)
	}
	// Decoder.Duration counts the whole data chunk including its header, so
	// the duration is derived from the PCM payload size instead.
	bytesPerSecond := int64(decoder.SampleRate) * int64(decoder.NumChans) * int64(decoder.BitDepth/8)
	if bytesPerSecond == 0 {
		return Info{}, fmt.Errorf("%w: %s: zero byte rate", ErrInvalidWAV, path)
	}
	return Info{
		Duration:   time.Duration(int64(decoder.PCMSize) * int64(time.Second) / bytesPerSecond),
		SampleRate: format.SampleRate,
		Channels:   format.NumChannels,
		BitDepth:   int(decoder.BitDepth),
	}, nil
}
