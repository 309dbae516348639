package preflight

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"asreval/internal/config"
	"asreval/internal/testsupport"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir, AccessReadWrite)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"), AccessRead)
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f, AccessRead)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckFileReadable(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, "table.csv")
	if err := os.WriteFile(f, []byte("a,b\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if result := CheckFileReadable("table", f); !result.Passed {
		t.Fatalf("expected pass, got %s", result.Detail)
	}
	if result := CheckFileReadable("table", dir); result.Passed {
		t.Fatal("expected failure for directory")
	}
	if result := CheckFileReadable("table", filepath.Join(dir, "absent.csv")); result.Passed {
		t.Fatal("expected failure for missing file")
	}
}

func TestCheckOutputLocation(t *testing.T) {
	dir := t.TempDir()
	if result := CheckOutputLocation("out", filepath.Join(dir, "a", "b", "out.csv")); !result.Passed {
		t.Fatalf("expected creatable path to pass, got %s", result.Detail)
	}

	existing := filepath.Join(dir, "out.csv")
	if err := os.WriteFile(existing, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if result := CheckOutputLocation("out", existing); !result.Passed {
		t.Fatalf("expected existing file to pass, got %s", result.Detail)
	}

	if result := CheckOutputLocation("out", filepath.Join(existing, "child.csv")); result.Passed {
		t.Fatal("expected failure when a parent is a file")
	}
}

func TestEvaluationChecksFollowSchema(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if got := len(Evaluation(cfg)); got != 2 {
		t.Fatalf("expected two split-schema checks, got %d", got)
	}
	cfg.Evaluation.Schema = config.SchemaCombined
	results := Evaluation(cfg)
	if len(results) != 1 || results[0].Name != "Combined table" {
		t.Fatalf("unexpected combined-schema checks: %+v", results)
	}
}

func TestTranscriptionChecks(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	results := Transcription(cfg)
	if failed := Failed(results); len(failed) != 1 || failed[0].Name != "Audio root" {
		t.Fatalf("expected only the missing audio root to fail, got %+v", failed)
	}

	if err := os.MkdirAll(cfg.Transcription.AudioRoot, 0o755); err != nil {
		t.Fatal(err)
	}
	if failed := Failed(Transcription(cfg)); len(failed) != 0 {
		t.Fatalf("expected all checks to pass, got %+v", failed)
	}
}

func TestRunAllIncludesCacheWhenEnabled(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithCache())
	found := false
	for _, r := range RunAll(cfg) {
		if r.Name == "Transcript cache" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected cache check when cache is enabled")
	}
	if RunAll(nil) != nil {
		t.Fatal("expected nil results for nil config")
	}
}

func TestCheckSystemDepsUsesConfiguredCommand(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries())
	statuses := CheckSystemDeps(context.Background(), cfg)
	if len(statuses) != 2 {
		t.Fatalf("expected two requirements, got %d", len(statuses))
	}
	if statuses[0].Command != cfg.Transcription.Command || !statuses[0].Available {
		t.Fatalf("expected stubbed launcher to be available, got %#v", statuses[0])
	}
	if filepath.Base(statuses[0].Path) != cfg.Transcription.Command {
		t.Fatalf("expected resolved launcher path, got %q", statuses[0].Path)
	}
	if !statuses[1].Optional {
		t.Fatalf("expected ffmpeg to be optional, got %#v", statuses[1])
	}
}
