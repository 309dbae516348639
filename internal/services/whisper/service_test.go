package whisper_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"asreval/internal/services"
	"asreval/internal/services/whisper"
	"asreval/internal/testsupport"
)

type recordedCall struct {
	name string
	args []string
}

// fakeRunner writes payload as <stem>.json into the --output_dir argument.
func fakeRunner(t *testing.T, payload string, calls *[]recordedCall) func(context.Context, string, ...string) error {
	t.Helper()
	return func(_ context.Context, name string, args ...string) error {
		*calls = append(*calls, recordedCall{name: name, args: append([]string(nil), args...)})
		outputDir := flagValue(args, "--output_dir")
		if outputDir == "" {
			t.Fatalf("missing --output_dir in %v", args)
		}
		var source string
		for i, arg := range args {
			if arg == "whisper" || arg == "whisperx" {
				source = args[i+1]
				break
			}
		}
		stem := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
		return os.WriteFile(filepath.Join(outputDir, stem+".json"), []byte(payload), 0o644)
	}
}

func flagValue(args []string, flag string) string {
	for i := 0; i < len(args)-1; i++ {
		if args[i] == flag {
			return args[i+1]
		}
	}
	return ""
}

func writeClip(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clean_normal_me_01.wav")
	testsupport.WriteFile(t, path, 64)
	return path
}

func TestTranscribeWhisperBackend(t *testing.T) {
	clip := writeClip(t)
	var calls []recordedCall
	svc := whisper.NewService(whisper.Config{WorkDir: t.TempDir()})
	svc.WithCommandRunner(fakeRunner(t, `{"text": "  Hello world. ", "segments": [{"text": "ignored"}]}`, &calls))

	text, err := svc.Transcribe(context.Background(), clip, "English")
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if text != "Hello world." {
		t.Fatalf("text = %q", text)
	}
	if len(calls) != 1 {
		t.Fatalf("expected one command, got %d", len(calls))
	}
	call := calls[0]
	if call.name != whisper.UVXCommand {
		t.Fatalf("command = %q", call.name)
	}
	if flagValue(call.args, "--from") != whisper.WhisperPackage {
		t.Fatalf("expected --from %s in %v", whisper.WhisperPackage, call.args)
	}
	if flagValue(call.args, "--model") != whisper.DefaultModel {
		t.Fatalf("expected default model in %v", call.args)
	}
	if flagValue(call.args, "--language") != "en" {
		t.Fatalf("expected iso language in %v", call.args)
	}
	if flagValue(call.args, "--fp16") != "False" || flagValue(call.args, "--device") != whisper.CPUDevice {
		t.Fatalf("expected cpu flags in %v", call.args)
	}
	if _, err := os.Stat(flagValue(call.args, "--output_dir")); !os.IsNotExist(err) {
		t.Fatalf("expected scratch dir to be removed, stat err = %v", err)
	}
}

func TestTranscribeWhisperXBackendJoinsSegments(t *testing.T) {
	clip := writeClip(t)
	var calls []recordedCall
	svc := whisper.NewService(whisper.Config{Backend: whisper.BackendWhisperX, Model: "large-v3", CUDAEnabled: true, WorkDir: t.TempDir()})
	svc.WithCommandRunner(fakeRunner(t, `{"segments": [{"text": " the cat "}, {"text": ""}, {"text": "sat down"}]}`, &calls))

	text, err := svc.Transcribe(context.Background(), clip, "en")
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if text != "the cat sat down" {
		t.Fatalf("text = %q", text)
	}
	args := calls[0].args
	if !slices.Contains(args, "whisperx") || slices.Contains(args, "--from") {
		t.Fatalf("unexpected whisperx args %v", args)
	}
	if flagValue(args, "--device") != whisper.CUDADevice || flagValue(args, "--index-url") != whisper.CUDAIndexURL {
		t.Fatalf("expected cuda flags in %v", args)
	}
	if flagValue(args, "--model") != "large-v3" {
		t.Fatalf("expected model flag in %v", args)
	}
}

func TestTranscribeOmitsUnknownLanguage(t *testing.T) {
	clip := writeClip(t)
	var calls []recordedCall
	svc := whisper.NewService(whisper.Config{WorkDir: t.TempDir()})
	svc.WithCommandRunner(fakeRunner(t, `{"text": "x"}`, &calls))

	if _, err := svc.Transcribe(context.Background(), clip, "not a language!"); err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if slices.Contains(calls[0].args, "--language") {
		t.Fatalf("expected no language flag, got %v", calls[0].args)
	}
}

func TestTranscribeCommandFailure(t *testing.T) {
	clip := writeClip(t)
	svc := whisper.NewService(whisper.Config{WorkDir: t.TempDir()})
	svc.WithCommandRunner(func(context.Context, string, ...string) error {
		return errors.New("exit status 1")
	})

	_, err := svc.Transcribe(context.Background(), clip, "en")
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
	if !strings.Contains(err.Error(), clip) {
		t.Fatalf("expected clip path in error, got %v", err)
	}
}

func TestTranscribeMissingOutput(t *testing.T) {
	clip := writeClip(t)
	svc := whisper.NewService(whisper.Config{WorkDir: t.TempDir()})
	svc.WithCommandRunner(func(context.Context, string, ...string) error { return nil })

	if _, err := svc.Transcribe(context.Background(), clip, "en"); !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected error when no JSON is written, got %v", err)
	}
}

func TestTranscribeValidatesSource(t *testing.T) {
	svc := whisper.NewService(whisper.Config{})
	if _, err := svc.Transcribe(context.Background(), "", "en"); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	missing := filepath.Join(t.TempDir(), "absent.wav")
	if _, err := svc.Transcribe(context.Background(), missing, "en"); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestTranscribeRejectsUnknownBackend(t *testing.T) {
	clip := writeClip(t)
	svc := whisper.NewService(whisper.Config{Backend: "vosk", WorkDir: t.TempDir()})
	if _, err := svc.Transcribe(context.Background(), clip, "en"); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestTranscribeMalformedOutput(t *testing.T) {
	clip := writeClip(t)
	var calls []recordedCall
	svc := whisper.NewService(whisper.Config{WorkDir: t.TempDir()})
	svc.WithCommandRunner(fakeRunner(t, `{"text": `, &calls))

	_, err := svc.Transcribe(context.Background(), clip, "en")
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error for malformed JSON, got %v", err)
	}
	if !strings.Contains(err.Error(), "parse whisper json") {
		t.Fatalf("expected parse failure in error, got %v", err)
	}
}
