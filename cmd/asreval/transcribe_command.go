package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"asreval/internal/config"
	"asreval/internal/logging"
	"asreval/internal/preflight"
	"asreval/internal/transcriptcache"
	"asreval/internal/transcription"
)

func newTranscribeCommand(ctx *commandContext) *cobra.Command {
	var overrides config.TranscriptionOverrides

	cmd := &cobra.Command{
		Use:   "transcribe",
		Short: "Transcribe every clip under the audio root into a predictions CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := cfg.ApplyTranscriptionOverrides(overrides); err != nil {
				return err
			}
			runCtx, logger, err := ctx.runContext(cmd)
			if err != nil {
				return err
			}
			logger = logging.NewComponentLogger(logger, "transcribe")

			if err := requireTranscriptionReady(runCtx, cfg, logger); err != nil {
				return err
			}

			var options []transcription.Option
			if cfg.Cache.Enabled {
				cache, err := transcriptcache.Open(cfg.Cache.Path)
				if err != nil {
					return err
				}
				defer cache.Close()
				logger.Info("transcript cache enabled", logging.String("path", cache.Path()))
				options = append(options, transcription.WithCache(cache))
			}

			logger.Info("loading whisper model",
				logging.String("backend", cfg.Transcription.Backend),
				logging.String("model", cfg.Transcription.ModelSize),
				logging.Bool("cuda", cfg.Transcription.CUDAEnabled),
			)
			driver, err := transcription.NewDriver(ctx.newTranscriber(cfg), transcription.Options{
				AudioRoot: cfg.Transcription.AudioRoot,
				OutputCSV: cfg.Transcription.OutputCSV,
				Layout:    cfg.Transcription.Layout,
				Language:  cfg.Transcription.Language,
				Backend:   cfg.Transcription.Backend,
				Model:     cfg.Transcription.ModelSize,
			}, logger, options...)
			if err != nil {
				return err
			}

			summary, err := driver.Run(runCtx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Transcribed %d clips", summary.Files)
			if summary.CacheHits > 0 {
				fmt.Fprintf(out, " (%d from cache)", summary.CacheHits)
			}
			fmt.Fprintln(out)
			fmt.Fprintf(out, "Done. Predictions saved to: %s\n", summary.OutputCSV)
			return nil
		},
	}

	cmd.Flags().StringVar(&overrides.AudioRoot, "audio_root", "", "Folder containing audio clips (default from config: audio)")
	cmd.Flags().StringVar(&overrides.ModelSize, "model_size", "", "Whisper model size: tiny, base, small, medium, large (default from config: small)")
	cmd.Flags().StringVar(&overrides.OutputCSV, "output_csv", "", "Where to save the raw predictions CSV (default from config: results/predictions_raw.csv)")
	cmd.Flags().StringVar(&overrides.Layout, "layout", "", "Audio naming layout: flat or nested (default from config: nested)")
	return cmd
}

// requireTranscriptionReady fails when a required binary or the audio root is
// unusable. Missing optional binaries only warn.
func requireTranscriptionReady(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	var problems []string
	for _, status := range preflight.CheckSystemDeps(ctx, cfg) {
		if status.Available {
			logger.Debug("dependency resolved",
				logging.String("dependency", status.Name),
				logging.String("path", status.Path),
				logging.String("version", status.Version),
			)
			continue
		}
		if !status.Optional {
			problems = append(problems, fmt.Sprintf("%s: %s", status.Name, status.Detail))
			continue
		}
		logger.Warn("optional dependency missing",
			logging.String("dependency", status.Name),
			logging.String("detail", status.Detail),
			logging.Alert("missing_dependency"),
		)
	}
	for _, result := range preflight.Failed(preflight.Transcription(cfg)) {
		problems = append(problems, fmt.Sprintf("%s: %s", result.Name, result.Detail))
	}
	if len(problems) > 0 {
		return errors.New("transcription preflight failed:\n  " + strings.Join(problems, "\n  "))
	}
	return nil
}
