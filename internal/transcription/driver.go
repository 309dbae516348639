package transcription

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"asreval/internal/audio"
	"asreval/internal/fileutil"
	"asreval/internal/logging"
	"asreval/internal/metadata"
	"asreval/internal/transcriptcache"
)

// ErrLocked reports an output table already being written by another run.
var ErrLocked = errors.New("output is locked by another transcription run")

// Transcriber turns one audio file into text.
type Transcriber interface {
	Transcribe(ctx context.Context, path, language string) (string, error)
}

// Cache stores transcripts between runs.
type Cache interface {
	Get(ctx context.Context, key transcriptcache.Key) (string, bool, error)
	Put(ctx context.Context, key transcriptcache.Key, source, transcript string) error
}

// Options configures a Driver.
type Options struct {
	AudioRoot string
	OutputCSV string
	Layout    string
	Language  string
	// Backend and Model only feed cache keys and log lines.
	Backend string
	Model   string
}

// Summary describes a finished run.
type Summary struct {
	OutputCSV string
	Files     int
	CacheHits int
	// AudioDuration sums the durations of clips whose header could be read.
	AudioDuration time.Duration
	Elapsed       time.Duration
}

// Driver runs a Transcriber over every clip under an audio root.
type Driver struct {
	transcriber Transcriber
	extractor   metadata.Extractor
	cache       Cache
	logger      *slog.Logger
	opts        Options
}

// Option customizes a Driver.
type Option func(*Driver)

// WithCache enables transcript caching.
func WithCache(cache Cache) Option {
	return func(d *Driver) {
		d.cache = cache
	}
}

// NewDriver validates opts and builds a driver.
func NewDriver(transcriber Transcriber, opts Options, logger *slog.Logger, options ...Option) (*Driver, error) {
	if transcriber == nil {
		return nil, errors.New("transcription driver: transcriber required")
	}
	if strings.TrimSpace(opts.AudioRoot) == "" {
		return nil, errors.New("transcription driver: audio root required")
	}
	if strings.TrimSpace(opts.OutputCSV) == "" {
		return nil, errors.New("transcription driver: output csv required")
	}
	extractor, err := metadata.ForLayout(opts.Layout)
	if err != nil {
		return nil, fmt.Errorf("transcription driver: %w", err)
	}
	d := &Driver{
		transcriber: transcriber,
		extractor:   extractor,
		logger:      logging.NewComponentLogger(logger, "transcribe"),
		opts:        opts,
	}
	for _, opt := range options {
		if opt != nil {
			opt(d)
		}
	}
	return d, nil
}

// Header returns the CSV header for the driver's layout.
func (d *Driver) Header() []string {
	cols := d.extractor.Columns()
	return []string{"file_name", "env", cols.Condition, "speaker", cols.Index, "predicted_transcript"}
}

// Run transcribes every clip and writes the predictions table. It stops at
// the first failing clip or when ctx is cancelled between clips.
func (d *Driver) Run(ctx context.Context) (Summary, error) {
	start := time.Now()
	summary := Summary{OutputCSV: d.opts.OutputCSV}

	files, err := Scan(d.opts.AudioRoot, d.extractor.Name())
	if err != nil {
		return summary, err
	}
	d.logger.Info("scanned audio root",
		logging.String("audio_root", d.opts.AudioRoot),
		logging.String("layout", d.extractor.Name()),
		logging.Int("clips", len(files)),
	)
	if len(files) == 0 {
		d.logger.Warn("no audio clips found", logging.String("audio_root", d.opts.AudioRoot), logging.Alert("empty_audio_root"))
	}

	if err := fileutil.EnsureParentDir(d.opts.OutputCSV); err != nil {
		return summary, err
	}
	lock := flock.New(d.opts.OutputCSV + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return summary, fmt.Errorf("acquire output lock: %w", err)
	}
	if !locked {
		return summary, fmt.Errorf("%w: %s", ErrLocked, d.opts.OutputCSV)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			d.logger.Warn("failed to release output lock", logging.Error(err))
		}
	}()

	out, err := os.Create(d.opts.OutputCSV)
	if err != nil {
		return summary, fmt.Errorf("create output csv: %w", err)
	}
	defer out.Close()

	writer := csv.NewWriter(out)
	if err := writer.Write(d.Header()); err != nil {
		return summary, fmt.Errorf("write header: %w", err)
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return summary, fmt.Errorf("write header: %w", err)
	}

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			writer.Flush()
			return summary, fmt.Errorf("transcription cancelled after %d clips: %w", summary.Files, err)
		}
		row, hit, dur, err := d.transcribeOne(ctx, path)
		if err != nil {
			writer.Flush()
			return summary, fmt.Errorf("transcribe %s: %w", path, err)
		}
		if err := writer.Write(row); err != nil {
			return summary, fmt.Errorf("write row for %s: %w", path, err)
		}
		// Flush per row so a crash keeps the finished clips.
		writer.Flush()
		if err := writer.Error(); err != nil {
			return summary, fmt.Errorf("write row for %s: %w", path, err)
		}
		summary.Files++
		summary.AudioDuration += dur
		if hit {
			summary.CacheHits++
		}
	}

	if err := out.Close(); err != nil {
		return summary, fmt.Errorf("close output csv: %w", err)
	}
	summary.Elapsed = time.Since(start)
	d.logger.Info("transcription complete",
		logging.String(logging.FieldFile, d.opts.OutputCSV),
		logging.Int("clips", summary.Files),
		logging.Int("cache_hits", summary.CacheHits),
		logging.Duration("audio", summary.AudioDuration),
		logging.Duration("elapsed", summary.Elapsed),
	)
	return summary, nil
}

func (d *Driver) transcribeOne(ctx context.Context, path string) ([]string, bool, time.Duration, error) {
	name := d.fileName(path)
	fields := d.extractor.Extract(name)

	attrs := []logging.Attr{
		logging.String(logging.FieldFile, name),
		logging.String("env", fields.Environment),
		logging.String(d.extractor.Columns().Condition, fields.Condition),
		logging.String("speaker", fields.Speaker),
	}
	var dur time.Duration
	if info, err := audio.Inspect(path); err == nil {
		dur = info.Duration
		attrs = append(attrs, logging.Duration("duration", info.Duration), logging.Int("sample_rate", info.SampleRate))
	} else if !errors.Is(err, audio.ErrUnsupported) {
		d.logger.Debug("could not read clip header", logging.String(logging.FieldFile, name), logging.Error(err))
	}
	d.logger.Info("transcribing clip", logging.Args(attrs...)...)

	text, hit, err := d.transcript(ctx, path)
	if err != nil {
		return nil, false, 0, err
	}
	return []string{name, fields.Environment, fields.Condition, fields.Speaker, fields.Index, text}, hit, dur, nil
}

// transcript consults the cache before the transcriber. Cache failures are
// logged and never fail the clip.
func (d *Driver) transcript(ctx context.Context, path string) (string, bool, error) {
	var (
		key    transcriptcache.Key
		keyErr error
	)
	if d.cache != nil {
		key, keyErr = transcriptcache.KeyFor(path, d.opts.Backend, d.opts.Model, d.opts.Language)
		if keyErr != nil {
			d.logger.Warn("transcript cache key failed", logging.String(logging.FieldFile, path), logging.Error(keyErr))
		} else if text, ok, err := d.cache.Get(ctx, key); err != nil {
			d.logger.Warn("transcript cache read failed", logging.String(logging.FieldFile, path), logging.Error(err))
		} else if ok {
			d.logger.Debug("transcript cache hit", logging.String(logging.FieldFile, path))
			return text, true, nil
		}
	}

	text, err := d.transcriber.Transcribe(ctx, path, d.opts.Language)
	if err != nil {
		return "", false, err
	}
	text = strings.TrimSpace(text)

	if d.cache != nil && keyErr == nil {
		if err := d.cache.Put(ctx, key, path, text); err != nil {
			d.logger.Warn("transcript cache write failed", logging.String(logging.FieldFile, path), logging.Error(err))
		}
	}
	return text, false, nil
}

// fileName is the basename for flat layouts and the root-relative path for
// nested ones, always with forward slashes.
func (d *Driver) fileName(path string) string {
	if d.extractor.Name() == metadata.Flat {
		return filepath.Base(path)
	}
	rel, err := filepath.Rel(d.opts.AudioRoot, path)
	if err != nil {
		return filepath.Base(path)
	}
	return filepath.ToSlash(rel)
}
