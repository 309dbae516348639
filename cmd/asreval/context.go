package main

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"asreval/internal/config"
	"asreval/internal/logging"
	"asreval/internal/services/whisper"
	"asreval/internal/transcription"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error

	// newTranscriber builds the ASR backend; tests replace it with a stub.
	newTranscriber func(cfg *config.Config) transcription.Transcriber
}

func newCommandContext(configFlag, logLevelFlag *string) *commandContext {
	return &commandContext{
		configFlag:     configFlag,
		logLevelFlag:   logLevelFlag,
		newTranscriber: whisperTranscriber,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) configValue() *config.Config {
	cfg, _ := c.ensureConfig()
	return cfg
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		var level string
		if c.logLevelFlag != nil {
			level = *c.logLevelFlag
		}
		c.logger, c.loggerErr = logging.NewFromConfig(c.configValue(), level)
	})
	return c.logger, c.loggerErr
}

// runContext derives a context tagged with a fresh run identifier and a
// logger carrying it.
func (c *commandContext) runContext(cmd *cobra.Command) (context.Context, *slog.Logger, error) {
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, nil, err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, _ = logging.WithRunID(ctx)
	return ctx, logging.WithContext(ctx, logger), nil
}

func whisperTranscriber(cfg *config.Config) transcription.Transcriber {
	return whisper.NewService(whisper.Config{
		Backend:     cfg.Transcription.Backend,
		Model:       cfg.Transcription.ModelSize,
		Command:     cfg.Transcription.Command,
		CUDAEnabled: cfg.Transcription.CUDAEnabled,
	})
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
