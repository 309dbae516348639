package preflight

import (
	"context"
	"path/filepath"

	"asreval/internal/config"
	"asreval/internal/deps"
	"asreval/internal/services/whisper"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

// Transcription checks the paths the transcription driver reads and writes.
func Transcription(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}
	return []Result{
		CheckDirectoryAccess("Audio root", cfg.Transcription.AudioRoot, AccessRead),
		CheckOutputLocation("Predictions output", cfg.Transcription.OutputCSV),
	}
}

// Evaluation checks the input tables selected by the evaluation schema.
func Evaluation(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}
	if cfg.Evaluation.Schema == config.SchemaCombined {
		return []Result{CheckFileReadable("Combined table", cfg.Paths.CombinedCSV)}
	}
	return []Result{
		CheckFileReadable("Ground truth table", cfg.Paths.GroundTruthCSV),
		CheckFileReadable("Predictions table", cfg.Paths.PredictionsCSV),
	}
}

// RunAll executes every path check for the given config.
func RunAll(cfg *config.Config) []Result {
	results := Transcription(cfg)
	results = append(results, Evaluation(cfg)...)
	if cfg != nil && cfg.Cache.Enabled {
		results = append(results, CheckOutputLocation("Transcript cache", cfg.Cache.Path))
	}
	if cfg != nil && cfg.Paths.LogDir != "" {
		results = append(results, CheckOutputLocation("Log directory", filepath.Join(cfg.Paths.LogDir, "asreval.log")))
	}
	return results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}

// CheckSystemDeps evaluates the external binaries transcription needs. The
// launcher is the configured command. FFmpeg is optional because uvx-managed
// environments may bring their own decoder.
func CheckSystemDeps(ctx context.Context, cfg *config.Config) []deps.Status {
	command := whisper.UVXCommand
	if cfg != nil && cfg.Transcription.Command != "" {
		command = cfg.Transcription.Command
	}
	requirements := []deps.Requirement{
		{
			Name:        "ASR launcher",
			Command:     command,
			Description: "Required to run Whisper transcription",
			VersionArgs: []string{"--version"},
		},
		{
			Name:        "FFmpeg",
			Command:     "ffmpeg",
			Description: "Used by Whisper to decode audio clips",
			Optional:    true,
			VersionArgs: []string{"-version"},
		},
	}
	return deps.Check(ctx, requirements)
}
