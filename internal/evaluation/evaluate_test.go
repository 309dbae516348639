package evaluation_test

import (
	"errors"
	"math"
	"path/filepath"
	"reflect"
	"testing"

	"asreval/internal/config"
	"asreval/internal/dataset"
	"asreval/internal/evaluation"
	"asreval/internal/logging"
	"asreval/internal/testsupport"
	"asreval/internal/wer"
)

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func sampleRecords() []dataset.Record {
	return []dataset.Record{
		{FileName: "a", Environment: "clean", Condition: "none", Speaker: "sp01", Reference: "the quick brown fox", Hypothesis: "the quick brown fox"},
		{FileName: "b", Environment: "noisy", Condition: "airport", Speaker: "sp02", Reference: "jumps over the lazy dog", Hypothesis: "jumps over a dog"},
		{FileName: "c", Environment: "noisy", Condition: "babble", Speaker: "sp01", Reference: "Hello World", Hypothesis: "hello word"},
		{FileName: "d", Environment: "clean", Condition: "none", Speaker: "sp03", Reference: "one two", Hypothesis: "three four five"},
	}
}

func TestEvaluateOverallMatchesCorpus(t *testing.T) {
	records := sampleRecords()
	result, err := evaluation.Evaluate(records, evaluation.Options{})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}

	// Scoring is case-insensitive, so the corpus reference is given lower-cased.
	want, err := wer.Corpus([]string{"the quick brown fox", "jumps over the lazy dog", "hello world", "one two"},
		[]string{"the quick brown fox", "jumps over a dog", "hello word", "three four five"})
	if err != nil {
		t.Fatalf("Corpus: %v", err)
	}
	if !almostEqual(result.Overall, want) {
		t.Fatalf("Overall = %v, want %v", result.Overall, want)
	}
	// 0 + 2 + 1 + 3 edits over 4 + 5 + 2 + 2 words.
	if !almostEqual(result.Overall, 6.0/13.0) {
		t.Fatalf("Overall = %v, want 6/13", result.Overall)
	}
	if result.Matched != len(records) {
		t.Fatalf("Matched = %d", result.Matched)
	}
	if records[2].Reference != "Hello World" {
		t.Fatal("Evaluate must not rewrite input records")
	}
}

func TestEvaluateGroupCountsPartitionRecords(t *testing.T) {
	records := sampleRecords()
	result, err := evaluation.Evaluate(records, evaluation.Options{SpeakerLimit: 100})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	for name, groups := range map[string][]evaluation.GroupStat{
		"environment": result.Environments,
		"condition":   result.Conditions,
		"speaker":     result.Speakers,
	} {
		sum := 0
		for _, g := range groups {
			sum += g.Count
		}
		if sum != len(records) {
			t.Fatalf("%s counts sum to %d, want %d", name, sum, len(records))
		}
	}
}

func TestEvaluateGroupOrdering(t *testing.T) {
	result, err := evaluation.Evaluate(sampleRecords(), evaluation.Options{})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}

	envKeys := keys(result.Environments)
	if want := []string{"clean", "noisy"}; !reflect.DeepEqual(envKeys, want) {
		t.Fatalf("environment keys = %v, want %v", envKeys, want)
	}
	condKeys := keys(result.Conditions)
	if want := []string{"airport", "babble", "none"}; !reflect.DeepEqual(condKeys, want) {
		t.Fatalf("condition keys = %v, want %v", condKeys, want)
	}
	// sp03: 3/2 -> 1.5, sp02: 2/5 = 0.4, sp01: 1/6.
	spkKeys := keys(result.Speakers)
	if want := []string{"sp03", "sp02", "sp01"}; !reflect.DeepEqual(spkKeys, want) {
		t.Fatalf("speaker keys = %v, want %v", spkKeys, want)
	}
	clean := result.Environments[0]
	if clean.Count != 2 || !almostEqual(clean.WER, 3.0/6.0) {
		t.Fatalf("clean group = %+v", clean)
	}
}

func TestEvaluateSpeakerLimit(t *testing.T) {
	result, err := evaluation.Evaluate(sampleRecords(), evaluation.Options{SpeakerLimit: 2})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if len(result.Speakers) != 2 || result.SpeakerGroups != 3 {
		t.Fatalf("expected 2 of 3 speakers, got %d of %d", len(result.Speakers), result.SpeakerGroups)
	}
}

func TestEvaluateBlankGroupKeysBecomeUnknown(t *testing.T) {
	records := []dataset.Record{{Reference: "a b", Hypothesis: "a b"}}
	result, err := evaluation.Evaluate(records, evaluation.Options{})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if result.Environments[0].Key != "unknown" || result.Speakers[0].Key != "unknown" {
		t.Fatalf("expected unknown keys, got %+v %+v", result.Environments, result.Speakers)
	}
}

func TestWorstOrdersDescendingAndStable(t *testing.T) {
	clips := []evaluation.ClipResult{
		{Record: dataset.Record{FileName: "low"}, WER: 0.1},
		{Record: dataset.Record{FileName: "high"}, WER: 0.9},
		{Record: dataset.Record{FileName: "mid-first"}, WER: 0.5},
		{Record: dataset.Record{FileName: "mid-second"}, WER: 0.5},
	}
	got := evaluation.Worst(clips, 10)
	var names []string
	for _, c := range got {
		names = append(names, c.FileName)
	}
	if want := []string{"high", "mid-first", "mid-second", "low"}; !reflect.DeepEqual(names, want) {
		t.Fatalf("Worst order = %v, want %v", names, want)
	}
	if top := evaluation.Worst(clips, 1); len(top) != 1 || top[0].FileName != "high" {
		t.Fatalf("Worst k=1 = %+v", top)
	}
	if clips[0].FileName != "low" {
		t.Fatal("Worst must not reorder its input")
	}
}

func TestEvaluateWorstClipsTopK(t *testing.T) {
	records := []dataset.Record{
		{FileName: "a", Reference: "one two three four five six seven eight nine ten", Hypothesis: "one two three four five six seven eight nine"},
		{FileName: "b", Reference: "one two three four five six seven eight nine ten", Hypothesis: "x x x x x x x x x ten"},
		{FileName: "c", Reference: "one two", Hypothesis: "one"},
	}
	result, err := evaluation.Evaluate(records, evaluation.Options{WorstClips: 2})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if len(result.WorstClips) != 2 {
		t.Fatalf("expected 2 worst clips, got %d", len(result.WorstClips))
	}
	if result.WorstClips[0].FileName != "b" || !almostEqual(result.WorstClips[0].WER, 0.9) {
		t.Fatalf("first worst = %+v", result.WorstClips[0])
	}
	if result.WorstClips[1].FileName != "c" || !almostEqual(result.WorstClips[1].WER, 0.5) {
		t.Fatalf("second worst = %+v", result.WorstClips[1])
	}
}

func TestEvaluateEmpty(t *testing.T) {
	if _, err := evaluation.Evaluate(nil, evaluation.Options{}); !errors.Is(err, evaluation.ErrNoMatches) {
		t.Fatalf("expected ErrNoMatches, got %v", err)
	}
}

func TestRunSplitSchema(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.WriteCSV(t, cfg.Paths.GroundTruthCSV,
		[]string{"speaker_num", "actual_transcript", "speaker", "file_name"},
		[]string{"1", "hello world", "sp1", "sp1.wav"},
	)
	testsupport.WriteCSV(t, cfg.Paths.PredictionsCSV,
		[]string{"file_name", "env", "noise_type", "speaker", "speaker_num", "predicted_transcript"},
		[]string{"clean/sp1_none_0.wav", "clean", "none", "sp1", "1", "hello word"},
		[]string{"clean/sp2_none_0.wav", "clean", "none", "sp2", "2", "lost"},
	)

	eval, err := evaluation.Run(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if eval.GroundTruth != 1 || eval.Matched != 1 || len(eval.Unmatched) != 1 {
		t.Fatalf("unexpected counts: gt=%d matched=%d unmatched=%v", eval.GroundTruth, eval.Matched, eval.Unmatched)
	}
	if !almostEqual(eval.Overall, 0.5) {
		t.Fatalf("Overall = %v, want 0.5", eval.Overall)
	}
}

func TestRunCombinedSchema(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithSchema(config.SchemaCombined))
	testsupport.WriteCSV(t, cfg.Paths.CombinedCSV,
		[]string{"reference_transcript", "predicted_transcript", "env", "rate", "speaker", "file_name"},
		[]string{"a b c d", "a b c d", "clean", "normal", "me", "clean_normal_me_01.wav"},
		[]string{"a b c d", "a b", "noisy", "fast", "me", "noisy_fast_me_02.wav"},
	)

	eval, err := evaluation.Run(cfg, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if eval.Schema != config.SchemaCombined || eval.Matched != 2 {
		t.Fatalf("unexpected evaluation: %+v", eval.Input)
	}
	if !almostEqual(eval.Overall, 2.0/8.0) {
		t.Fatalf("Overall = %v, want 0.25", eval.Overall)
	}
	if keys(eval.Conditions)[0] != "fast" {
		t.Fatalf("expected rate groups, got %+v", eval.Conditions)
	}
}

func TestRunNoMatches(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.WriteCSV(t, cfg.Paths.GroundTruthCSV, []string{"speaker_num", "actual_transcript"})
	testsupport.WriteCSV(t, cfg.Paths.PredictionsCSV, []string{"speaker_num", "predicted_transcript"},
		[]string{"4", "something"})

	eval, err := evaluation.Run(cfg, logging.NewNop())
	if !errors.Is(err, evaluation.ErrNoMatches) {
		t.Fatalf("expected ErrNoMatches, got %v", err)
	}
	if eval == nil || len(eval.Unmatched) != 1 {
		t.Fatalf("expected load counts on empty evaluation, got %+v", eval)
	}
}

func TestRunMissingInput(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Paths.GroundTruthCSV = filepath.Join(testsupport.BaseDir(cfg), "absent.csv")
	if _, err := evaluation.Run(cfg, logging.NewNop()); err == nil {
		t.Fatal("expected error for missing ground truth")
	}
}

func keys(groups []evaluation.GroupStat) []string {
	out := make([]string, 0, len(groups))
	for _, g := range groups {
		out = append(out, g.Key)
	}
	return out
}
