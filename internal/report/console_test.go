package report_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"asreval/internal/config"
	"asreval/internal/dataset"
	"asreval/internal/evaluation"
	"asreval/internal/report"
)

func buildEvaluation(t *testing.T, schema string, records []dataset.Record, unmatched []string) *evaluation.Evaluation {
	t.Helper()
	result, err := evaluation.Evaluate(records, evaluation.Options{SpeakerLimit: 1})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	return &evaluation.Evaluation{
		Input: evaluation.Input{
			Schema:      schema,
			GroundTruth: len(records),
			JoinResult:  dataset.JoinResult{Records: records, Unmatched: unmatched},
		},
		Result: result,
	}
}

func TestWriteSplitReport(t *testing.T) {
	records := []dataset.Record{
		{FileName: "airport_10dB/sp01_airport_sn10.wav", Environment: "airport_10dB", Condition: "airport", Speaker: "sp01", Reference: "hello world", Hypothesis: "hello word"},
		{FileName: "clean/sp02_none_0.wav", Environment: "clean", Condition: "none", Speaker: "sp02", Reference: "good morning", Hypothesis: "good morning"},
	}
	eval := buildEvaluation(t, config.SchemaSplit, records, []string{"lost.wav"})

	var buf bytes.Buffer
	if err := report.Write(&buf, eval, report.Options{}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"Loaded 2 ground truth transcripts",
		"Matched 2 predictions with ground truth",
		"Warning: 1 predictions could not be matched",
		"Overall WER: 0.250",
		"WER by environment:",
		"WER by noise type:",
		"WER by speaker (top 1 worst):",
		"Top 2 clips with largest errors:",
		strings.Repeat("=", 70),
		"File: airport_10dB/sp01_airport_sn10.wav",
		"Environment: airport_10dB | Noise: airport | Speaker: sp01",
		"WER: 0.500",
		"REF: hello world",
		"HYP: hello word",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("report missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("expected no ANSI escapes without color:\n%s", out)
	}
	if strings.Index(out, "sp01_airport") > strings.Index(out, "sp02_none") {
		t.Fatalf("expected worst clip first:\n%s", out)
	}
}

func TestWriteCombinedReportUsesRateLabel(t *testing.T) {
	records := []dataset.Record{
		{FileName: "clean_fast_me_01.wav", Environment: "clean", Condition: "fast", Speaker: "me", Reference: "a b", Hypothesis: "a"},
	}
	eval := buildEvaluation(t, config.SchemaCombined, records, nil)

	var buf bytes.Buffer
	if err := report.Write(&buf, eval, report.Options{}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "WER by speaking rate:") || !strings.Contains(out, "| Rate: fast |") {
		t.Fatalf("expected rate labels:\n%s", out)
	}
	if strings.Contains(out, "ground truth transcripts") || strings.Contains(out, "Warning:") {
		t.Fatalf("unexpected split-schema lines:\n%s", out)
	}
	if !strings.Contains(out, "WER by speaker:") {
		t.Fatalf("expected untruncated speaker title:\n%s", out)
	}
}

func TestWriteColorAddsEscapes(t *testing.T) {
	records := []dataset.Record{{FileName: "x.wav", Reference: "a b", Hypothesis: "c d"}}
	eval := buildEvaluation(t, config.SchemaSplit, records, nil)

	var buf bytes.Buffer
	if err := report.Write(&buf, eval, report.Options{Color: true}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !strings.Contains(buf.String(), "\x1b[") {
		t.Fatalf("expected ANSI escapes with color enabled:\n%s", buf.String())
	}
}

func TestNoMatches(t *testing.T) {
	var buf bytes.Buffer
	if err := report.NoMatches(&buf, config.SchemaSplit, nil, report.Options{}); err != nil {
		t.Fatalf("NoMatches: %v", err)
	}
	if got := buf.String(); got != "No matching rows found between correct_transcript.csv and predictions_raw.csv\n" {
		t.Fatalf("unexpected notice %q", got)
	}
}

func TestNoMatchesPrintsLoadSummary(t *testing.T) {
	eval := &evaluation.Evaluation{
		Input: evaluation.Input{
			Schema:      config.SchemaSplit,
			GroundTruth: 3,
			JoinResult:  dataset.JoinResult{Unmatched: []string{"a.wav"}, Skipped: 2},
		},
	}
	var buf bytes.Buffer
	if err := report.NoMatches(&buf, config.SchemaSplit, eval, report.Options{}); err != nil {
		t.Fatalf("NoMatches: %v", err)
	}
	want := "Loaded 3 ground truth transcripts\n" +
		"Matched 0 predictions with ground truth\n" +
		"Warning: 1 predictions could not be matched\n" +
		"Skipped 2 blank or malformed rows\n" +
		"No matching rows found between correct_transcript.csv and predictions_raw.csv\n"
	if got := buf.String(); got != want {
		t.Fatalf("unexpected output:\n%s\nwant:\n%s", got, want)
	}
}

func TestColorEnabledFalseForRegularFile(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "out.txt"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()
	if report.ColorEnabled(f) {
		t.Fatal("expected regular file to disable color")
	}
	if report.ColorEnabled(nil) {
		t.Fatal("expected nil file to disable color")
	}
}

func TestTablePadsShortRows(t *testing.T) {
	out := report.Table([]report.Column{report.Left("Name"), report.Right("Value")}, [][]string{{"only", "1", "dropped"}, {"short"}}, false)
	// go-pretty upper-cases header cells.
	if !strings.Contains(out, "NAME") || !strings.Contains(out, "VALUE") || !strings.Contains(out, "only") {
		t.Fatalf("unexpected table:\n%s", out)
	}
	if strings.Contains(out, "dropped") {
		t.Fatalf("expected extra cells to be dropped:\n%s", out)
	}
	if lines := strings.Split(strings.TrimSpace(out), "\n"); len(lines) != 6 {
		t.Fatalf("expected header, two rows and three rules, got %d lines:\n%s", len(lines), out)
	}
	if report.Table(nil, nil, false) != "" {
		t.Fatal("expected empty output without headers")
	}
}

func TestTableColorStyle(t *testing.T) {
	cols := []report.Column{report.Left("Speaker"), report.Right("WER")}
	plain := report.Table(cols, [][]string{{"sp01", "0.500"}}, false)
	colored := report.Table(cols, [][]string{{"sp01", "0.500"}}, true)
	if strings.Contains(plain, "\x1b[") {
		t.Fatalf("expected no ANSI escapes without color:\n%s", plain)
	}
	if !strings.Contains(colored, "\x1b[") || !strings.Contains(colored, "sp01") {
		t.Fatalf("expected ANSI-styled table with color:\n%s", colored)
	}
	if strings.Contains(colored, "╭") {
		t.Fatalf("expected colored style instead of rounded borders:\n%s", colored)
	}
}
