package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateEvaluation(); err != nil {
		return err
	}
	if err := c.validateTranscription(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateEvaluation() error {
	switch c.Evaluation.Schema {
	case SchemaSplit, SchemaCombined:
	default:
		return fmt.Errorf("evaluation.schema must be %q or %q, got %q", SchemaSplit, SchemaCombined, c.Evaluation.Schema)
	}
	if c.Evaluation.WorstClips <= 0 {
		return errors.New("evaluation.worst_clips must be positive")
	}
	if c.Evaluation.SpeakerLimit <= 0 {
		return errors.New("evaluation.speaker_limit must be positive")
	}
	return nil
}

func (c *Config) validateTranscription() error {
	switch c.Transcription.Layout {
	case LayoutFlat, LayoutNested:
	default:
		return fmt.Errorf("transcription.layout must be %q or %q, got %q", LayoutFlat, LayoutNested, c.Transcription.Layout)
	}
	switch c.Transcription.Backend {
	case BackendWhisper, BackendWhisperX:
	default:
		return fmt.Errorf("transcription.backend must be %q or %q, got %q", BackendWhisper, BackendWhisperX, c.Transcription.Backend)
	}
	if c.Transcription.ModelSize == "" {
		return errors.New("transcription.model_size must be set")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be \"console\" or \"json\", got %q", c.Logging.Format)
	}
	return nil
}
