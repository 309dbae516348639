package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeEvaluation()
	if err := c.normalizeTranscription(); err != nil {
		return err
	}
	if err := c.normalizeCache(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.ResultsDir, err = expandPath(c.Paths.ResultsDir); err != nil {
		return fmt.Errorf("paths.results_dir: %w", err)
	}
	if c.Paths.GroundTruthCSV, err = expandPath(c.Paths.GroundTruthCSV); err != nil {
		return fmt.Errorf("paths.ground_truth_csv: %w", err)
	}
	if c.Paths.PredictionsCSV, err = expandPath(c.Paths.PredictionsCSV); err != nil {
		return fmt.Errorf("paths.predictions_csv: %w", err)
	}
	if c.Paths.CombinedCSV, err = expandPath(c.Paths.CombinedCSV); err != nil {
		return fmt.Errorf("paths.combined_csv: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) != "" {
		if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
			return fmt.Errorf("paths.log_dir: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeEvaluation() {
	c.Evaluation.Schema = strings.ToLower(strings.TrimSpace(c.Evaluation.Schema))
	if c.Evaluation.Schema == "" {
		c.Evaluation.Schema = defaultSchema
	}
}

func (c *Config) normalizeTranscription() error {
	t := &c.Transcription
	t.Backend = strings.ToLower(strings.TrimSpace(t.Backend))
	if t.Backend == "" {
		t.Backend = defaultBackend
	}
	t.Layout = strings.ToLower(strings.TrimSpace(t.Layout))
	if t.Layout == "" {
		t.Layout = defaultLayout
	}
	t.ModelSize = strings.TrimSpace(t.ModelSize)
	if t.ModelSize == "" {
		t.ModelSize = defaultModelSize
	}
	t.Language = strings.TrimSpace(t.Language)
	if t.Language == "" {
		t.Language = defaultLanguage
	}
	t.Command = strings.TrimSpace(t.Command)
	if t.Command == "" {
		t.Command = defaultCommand
	}
	return c.expandTranscriptionPaths()
}

// expandTranscriptionPaths resolves the driver paths. It is exported through
// ApplyTranscriptionOverrides so flag values get the same treatment.
func (c *Config) expandTranscriptionPaths() error {
	var err error
	if strings.TrimSpace(c.Transcription.AudioRoot) == "" {
		c.Transcription.AudioRoot = defaultAudioRoot
	}
	if c.Transcription.AudioRoot, err = expandPath(c.Transcription.AudioRoot); err != nil {
		return fmt.Errorf("transcription.audio_root: %w", err)
	}
	if strings.TrimSpace(c.Transcription.OutputCSV) == "" {
		c.Transcription.OutputCSV = defaultPredictionsCSV
	}
	if c.Transcription.OutputCSV, err = expandPath(c.Transcription.OutputCSV); err != nil {
		return fmt.Errorf("transcription.output_csv: %w", err)
	}
	return nil
}

func (c *Config) normalizeCache() error {
	if strings.TrimSpace(c.Cache.Path) == "" {
		c.Cache.Path = defaultCachePath()
	}
	var err error
	if c.Cache.Path, err = expandPath(c.Cache.Path); err != nil {
		return fmt.Errorf("cache.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

// TranscriptionOverrides carries command-line values that replace configured
// driver settings. Empty fields leave the configuration untouched.
type TranscriptionOverrides struct {
	AudioRoot string
	ModelSize string
	OutputCSV string
	Layout    string
}

// ApplyTranscriptionOverrides merges flag values into the configuration and
// re-validates the result.
func (c *Config) ApplyTranscriptionOverrides(o TranscriptionOverrides) error {
	if v := strings.TrimSpace(o.AudioRoot); v != "" {
		c.Transcription.AudioRoot = v
	}
	if v := strings.TrimSpace(o.ModelSize); v != "" {
		c.Transcription.ModelSize = v
	}
	if v := strings.TrimSpace(o.OutputCSV); v != "" {
		c.Transcription.OutputCSV = v
	}
	if v := strings.TrimSpace(o.Layout); v != "" {
		c.Transcription.Layout = strings.ToLower(v)
	}
	if err := c.expandTranscriptionPaths(); err != nil {
		return err
	}
	return c.validateTranscription()
}
