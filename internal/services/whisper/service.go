package whisper

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	langpkg "asreval/internal/language"
	"asreval/internal/services"
)

// Service transcribes audio files with an external Whisper CLI.
type Service struct {
	cfg           Config
	commandRunner func(ctx context.Context, name string, args ...string) error
}

// NewService creates a Whisper service with the given configuration.
func NewService(cfg Config) *Service {
	if strings.TrimSpace(cfg.Backend) == "" {
		cfg.Backend = BackendWhisper
	}
	if strings.TrimSpace(cfg.Model) == "" {
		cfg.Model = DefaultModel
	}
	if strings.TrimSpace(cfg.Command) == "" {
		cfg.Command = UVXCommand
	}
	return &Service{cfg: cfg}
}

// WithCommandRunner sets a custom command runner (for testing).
func (s *Service) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) error) {
	s.commandRunner = runner
}

// Transcribe runs the backend over source and returns the trimmed transcript.
// language may be a code, tag or English name; it is passed as ISO 639-1.
func (s *Service) Transcribe(ctx context.Context, source, language string) (string, error) {
	if strings.TrimSpace(source) == "" {
		return "", services.Wrap(services.ErrValidation, s.cfg.Backend, "transcribe", "source path required", nil)
	}
	if _, err := os.Stat(source); err != nil {
		return "", services.Wrap(services.ErrNotFound, s.cfg.Backend, "transcribe", source, err)
	}

	outputDir, err := os.MkdirTemp(s.cfg.WorkDir, "asreval-"+s.cfg.Backend+"-")
	if err != nil {
		return "", fmt.Errorf("transcribe: create output dir: %w", err)
	}
	defer os.RemoveAll(outputDir)

	var args []string
	switch s.cfg.Backend {
	case BackendWhisper:
		args = s.buildWhisperArgs(source, outputDir, language)
	case BackendWhisperX:
		args = s.buildWhisperXArgs(source, outputDir, language)
	default:
		return "", services.Wrap(services.ErrConfiguration, s.cfg.Backend, "transcribe", "unsupported backend", nil)
	}

	if err := s.run(ctx, s.cfg.Command, args...); err != nil {
		return "", services.Wrap(services.ErrExternalTool, s.cfg.Backend, "transcribe", source, err)
	}

	baseName := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	text, err := loadTranscriptText(filepath.Join(outputDir, baseName+".json"))
	if err != nil {
		return "", services.Wrap(services.ErrExternalTool, s.cfg.Backend, "read output", source, err)
	}
	return text, nil
}

// run executes a command, using the custom runner if set.
func (s *Service) run(ctx context.Context, name string, args ...string) error {
	if s.commandRunner != nil {
		return s.commandRunner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec

	// Torch 2.6 changed torch.load default to weights_only=true, breaking WhisperX/pyannote.
	if os.Getenv("TORCH_FORCE_NO_WEIGHTS_ONLY_LOAD") == "" {
		cmd.Env = append(os.Environ(), "TORCH_FORCE_NO_WEIGHTS_ONLY_LOAD=1")
	}

	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return nil
}

func (s *Service) indexArgs() []string {
	if s.cfg.CUDAEnabled {
		return []string{"--index-url", CUDAIndexURL, "--extra-index-url", PypiIndexURL}
	}
	return []string{"--index-url", PypiIndexURL}
}

// buildWhisperArgs constructs the uvx arguments for the openai-whisper CLI.
func (s *Service) buildWhisperArgs(source, outputDir, language string) []string {
	args := make([]string, 0, 24)
	args = append(args, s.indexArgs()...)
	args = append(args,
		"--from", WhisperPackage,
		"whisper",
		source,
		"--model", s.cfg.Model,
		"--output_dir", outputDir,
		"--output_format", OutputFormat,
		"--temperature", Temperature,
		"--verbose", "False",
	)
	if lang := langpkg.ToISO2(language); lang != "" {
		args = append(args, "--language", lang)
	}
	if s.cfg.CUDAEnabled {
		args = append(args, "--device", CUDADevice)
	} else {
		args = append(args, "--device", CPUDevice, "--fp16", "False")
	}
	return args
}

// buildWhisperXArgs constructs the uvx arguments for WhisperX.
func (s *Service) buildWhisperXArgs(source, outputDir, language string) []string {
	args := make([]string, 0, 28)
	args = append(args, s.indexArgs()...)
	args = append(args,
		"whisperx",
		source,
		"--model", s.cfg.Model,
		"--batch_size", BatchSize,
		"--output_dir", outputDir,
		"--output_format", OutputFormat,
		"--beam_size", BeamSize,
		"--temperature", Temperature,
		"--vad_method", VADMethod,
	)
	if lang := langpkg.ToISO2(language); lang != "" {
		args = append(args, "--language", lang)
	}
	if s.cfg.CUDAEnabled {
		args = append(args, "--device", CUDADevice)
	} else {
		args = append(args, "--device", CPUDevice, "--compute_type", CPUComputeType)
	}
	return args
}

type segment struct {
	Text string `json:"text"`
}

// payload covers both CLIs: openai-whisper writes text and segments,
// WhisperX writes segments only.
type payload struct {
	Text     string    `json:"text"`
	Segments []segment `json:"segments"`
}

func loadPayload(jsonPath string) (payload, error) {
	var p payload
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return p, err
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("parse whisper json: %w", err)
	}
	return p, nil
}

// loadTranscriptText prefers the top-level text and falls back to joining
// segment texts.
func loadTranscriptText(jsonPath string) (string, error) {
	p, err := loadPayload(jsonPath)
	if err != nil {
		return "", err
	}
	if text := strings.TrimSpace(p.Text); text != "" {
		return text, nil
	}
	var parts []string
	for _, seg := range p.Segments {
		if text := strings.TrimSpace(seg.Text); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " "), nil
}
