package dataset

import (
	"strings"

	"asreval/internal/metadata"
)

const unknown = metadata.Unknown

// Column names of the supported tables.
const (
	ColSpeakerNum          = "speaker_num"
	ColActualTranscript    = "actual_transcript"
	ColSpeaker             = "speaker"
	ColFileName            = "file_name"
	ColPredictedTranscript = "predicted_transcript"
	ColReferenceTranscript = "reference_transcript"
	ColEnv                 = "env"
	ColNoiseType           = "noise_type"
	ColRate                = "rate"
	ColIndex               = "index"
)

// Record is one clip with its reference and predicted transcripts.
type Record struct {
	FileName    string
	Environment string
	// Condition is the noise type (split schema) or speaking rate (combined schema).
	Condition  string
	Speaker    string
	SpeakerNum string
	Reference  string
	Hypothesis string
}

// Truth is one ground-truth row.
type Truth struct {
	Reference string
	Speaker   string
	FileName  string
}

// GroundTruth maps speaker_num to its reference transcript.
type GroundTruth map[string]Truth

// Prediction is one row of the predictions table.
type Prediction struct {
	SpeakerNum  string
	Transcript  string
	FileName    string
	Environment string
	NoiseType   string
	Speaker     string
}

// JoinResult is the outcome of pairing predictions with references.
type JoinResult struct {
	Records []Record
	// Unmatched lists the file names of predictions with no ground truth.
	Unmatched []string
	// Skipped counts rows dropped for blank required fields or because they
	// could not be parsed.
	Skipped int
}

// LoadGroundTruth reads a correct_transcript.csv table. Rows without a
// speaker_num or transcript, and rows that cannot be parsed, are skipped; a
// later row replaces an earlier one with the same speaker_num.
func LoadGroundTruth(path string) (GroundTruth, error) {
	t, err := readTable(path, ColSpeakerNum, ColActualTranscript)
	if err != nil {
		return nil, err
	}
	truth := make(GroundTruth, len(t.rows))
	for _, row := range t.rows {
		key := strings.TrimSpace(t.get(row, ColSpeakerNum))
		reference := t.get(row, ColActualTranscript)
		if key == "" || strings.TrimSpace(reference) == "" {
			continue
		}
		truth[key] = Truth{
			Reference: reference,
			Speaker:   t.get(row, ColSpeaker),
			FileName:  t.get(row, ColFileName),
		}
	}
	return truth, nil
}

// LoadPredictions reads a predictions_raw.csv table in file order. It also
// returns the number of rows dropped because they could not be parsed.
func LoadPredictions(path string) ([]Prediction, int, error) {
	t, err := readTable(path, ColSpeakerNum, ColPredictedTranscript)
	if err != nil {
		return nil, 0, err
	}
	preds := make([]Prediction, 0, len(t.rows))
	for _, row := range t.rows {
		preds = append(preds, Prediction{
			SpeakerNum:  strings.TrimSpace(t.get(row, ColSpeakerNum)),
			Transcript:  strings.TrimSpace(t.get(row, ColPredictedTranscript)),
			FileName:    t.get(row, ColFileName),
			Environment: t.label(row, ColEnv),
			NoiseType:   t.label(row, ColNoiseType),
			Speaker:     t.label(row, ColSpeaker),
		})
	}
	return preds, t.malformed, nil
}

// Join pairs predictions with ground truth on speaker_num, keeping prediction
// order. Predictions with a blank key or transcript are skipped; predictions
// whose key is absent from truth are listed in Unmatched.
func Join(truth GroundTruth, predictions []Prediction) JoinResult {
	var result JoinResult
	for _, p := range predictions {
		key := strings.TrimSpace(p.SpeakerNum)
		hyp := strings.TrimSpace(p.Transcript)
		if key == "" || hyp == "" {
			result.Skipped++
			continue
		}
		ref, ok := truth[key]
		if !ok {
			result.Unmatched = append(result.Unmatched, p.FileName)
			continue
		}
		result.Records = append(result.Records, Record{
			FileName:    p.FileName,
			Environment: orUnknown(p.Environment),
			Condition:   orUnknown(p.NoiseType),
			Speaker:     orUnknown(p.Speaker),
			SpeakerNum:  key,
			Reference:   ref.Reference,
			Hypothesis:  hyp,
		})
	}
	return result
}

// LoadCombined reads a predictions_with_ref.csv table. Rows with a blank
// reference are skipped and counted; a blank prediction is kept and scores
// as all deletions.
func LoadCombined(path string) (JoinResult, error) {
	t, err := readTable(path, ColReferenceTranscript, ColPredictedTranscript)
	if err != nil {
		return JoinResult{}, err
	}
	result := JoinResult{Skipped: t.malformed}
	for _, row := range t.rows {
		reference := t.get(row, ColReferenceTranscript)
		if strings.TrimSpace(reference) == "" {
			result.Skipped++
			continue
		}
		result.Records = append(result.Records, Record{
			FileName:    t.get(row, ColFileName),
			Environment: t.label(row, ColEnv),
			Condition:   t.label(row, ColRate),
			Speaker:     t.label(row, ColSpeaker),
			SpeakerNum:  t.label(row, ColIndex),
			Reference:   reference,
			Hypothesis:  strings.TrimSpace(t.get(row, ColPredictedTranscript)),
		})
	}
	return result, nil
}

func orUnknown(v string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return unknown
}
