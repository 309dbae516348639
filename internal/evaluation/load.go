package evaluation

import (
	"fmt"
	"log/slog"

	"asreval/internal/config"
	"asreval/internal/dataset"
	"asreval/internal/logging"
)

// Input is a loaded dataset ready for Evaluate.
type Input struct {
	Schema string
	// GroundTruth counts usable ground-truth rows; always zero for the
	// combined schema, which carries references inline.
	GroundTruth int
	dataset.JoinResult
}

// Evaluation is an Input together with the statistics computed from it.
type Evaluation struct {
	Input
	Result
}

// Load reads the tables named by cfg according to its evaluation schema.
func Load(cfg *config.Config) (Input, error) {
	switch cfg.Evaluation.Schema {
	case config.SchemaCombined:
		joined, err := dataset.LoadCombined(cfg.Paths.CombinedCSV)
		if err != nil {
			return Input{}, fmt.Errorf("load combined predictions: %w", err)
		}
		return Input{Schema: config.SchemaCombined, JoinResult: joined}, nil
	case config.SchemaSplit, "":
		truth, err := dataset.LoadGroundTruth(cfg.Paths.GroundTruthCSV)
		if err != nil {
			return Input{}, fmt.Errorf("load ground truth: %w", err)
		}
		preds, malformed, err := dataset.LoadPredictions(cfg.Paths.PredictionsCSV)
		if err != nil {
			return Input{}, fmt.Errorf("load predictions: %w", err)
		}
		joined := dataset.Join(truth, preds)
		joined.Skipped += malformed
		return Input{
			Schema:      config.SchemaSplit,
			GroundTruth: len(truth),
			JoinResult:  joined,
		}, nil
	default:
		return Input{}, fmt.Errorf("unsupported evaluation schema %q", cfg.Evaluation.Schema)
	}
}

// Run loads the configured inputs and evaluates them. When nothing matches,
// the returned Evaluation still carries the load counts and the error wraps
// ErrNoMatches.
func Run(cfg *config.Config, logger *slog.Logger) (*Evaluation, error) {
	logger = logging.NewComponentLogger(logger, "evaluate")

	input, err := Load(cfg)
	if err != nil {
		return nil, err
	}
	logger.Info("loaded evaluation input",
		logging.String("schema", input.Schema),
		logging.Int("ground_truth", input.GroundTruth),
		logging.Int("matched", len(input.Records)),
		logging.Int("unmatched", len(input.Unmatched)),
		logging.Int("skipped", input.Skipped),
	)
	for _, name := range input.Unmatched {
		logger.Debug("prediction has no ground truth", logging.String(logging.FieldFile, name))
	}
	if len(input.Unmatched) > 0 {
		logger.Warn("predictions could not be matched",
			logging.Int("count", len(input.Unmatched)),
			logging.Alert("unmatched_predictions"),
		)
	}

	result, err := Evaluate(input.Records, Options{
		WorstClips:   cfg.Evaluation.WorstClips,
		SpeakerLimit: cfg.Evaluation.SpeakerLimit,
	})
	eval := &Evaluation{Input: input, Result: result}
	if err != nil {
		return eval, fmt.Errorf("evaluate %s schema: %w", input.Schema, err)
	}
	logger.Info("evaluation complete",
		logging.Float64("overall_wer", result.Overall),
		logging.Int("environments", len(result.Environments)),
		logging.Int("conditions", len(result.Conditions)),
		logging.Int("speakers", result.SpeakerGroups),
	)
	return eval, nil
}
