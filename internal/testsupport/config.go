package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"asreval/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	results := filepath.Join(base, "results")
	cfgVal.Paths.ResultsDir = results
	cfgVal.Paths.GroundTruthCSV = filepath.Join(results, "correct_transcript.csv")
	cfgVal.Paths.PredictionsCSV = filepath.Join(results, "predictions_raw.csv")
	cfgVal.Paths.CombinedCSV = filepath.Join(results, "predictions_with_ref.csv")
	cfgVal.Transcription.AudioRoot = filepath.Join(base, "audio")
	cfgVal.Transcription.OutputCSV = filepath.Join(results, "predictions_raw.csv")
	cfgVal.Cache.Path = filepath.Join(base, "cache", "transcripts.db")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithSchema sets the evaluation input schema.
func WithSchema(schema string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Evaluation.Schema = schema
	}
}

// WithLayout sets the transcription audio layout.
func WithLayout(layout string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Transcription.Layout = layout
	}
}

// WithCache enables the transcript cache inside the temp directory.
func WithCache() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Cache.Enabled = true
	}
}

// WithStubbedBinaries writes stub executables for the provided names and
// prepends them to PATH. If names is empty, the configured ASR command is
// stubbed.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = []string{b.cfg.Transcription.Command}
		}
		binDir := filepath.Join(b.baseDir, "bin")
		if err := os.MkdirAll(binDir, 0o755); err != nil {
			b.t.Fatalf("mkdir bin dir: %v", err)
		}
		script := []byte("#!/bin/sh\nexit 0\n")
		for _, name := range names {
			target := filepath.Join(binDir, name)
			if err := os.WriteFile(target, script, 0o755); err != nil {
				b.t.Fatalf("write stub %s: %v", name, err)
			}
		}
		oldPath := os.Getenv("PATH")
		if err := os.Setenv("PATH", binDir+string(os.PathListSeparator)+oldPath); err != nil {
			b.t.Fatalf("set PATH: %v", err)
		}
		b.t.Cleanup(func() {
			_ = os.Setenv("PATH", oldPath)
		})
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.ResultsDir)
}
