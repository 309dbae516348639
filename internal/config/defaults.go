package config

// Input schemas accepted by the evaluator.
const (
	SchemaSplit    = "split"
	SchemaCombined = "combined"
)

// Audio layouts accepted by the transcription driver.
const (
	LayoutFlat   = "flat"
	LayoutNested = "nested"
)

// ASR backends accepted by the transcription driver.
const (
	BackendWhisper  = "whisper"
	BackendWhisperX = "whisperx"
)

const (
	defaultResultsDir     = "results"
	defaultGroundTruthCSV = "results/correct_transcript.csv"
	defaultPredictionsCSV = "results/predictions_raw.csv"
	defaultCombinedCSV    = "results/predictions_with_ref.csv"
	defaultSchema         = SchemaSplit
	defaultWorstClips     = 10
	defaultSpeakerLimit   = 10
	defaultBackend        = BackendWhisper
	defaultModelSize      = "small"
	defaultLanguage       = "en"
	defaultAudioRoot      = "audio"
	defaultLayout         = LayoutNested
	defaultCommand        = "uvx"
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			ResultsDir:     defaultResultsDir,
			GroundTruthCSV: defaultGroundTruthCSV,
			PredictionsCSV: defaultPredictionsCSV,
			CombinedCSV:    defaultCombinedCSV,
		},
		Evaluation: Evaluation{
			Schema:       defaultSchema,
			WorstClips:   defaultWorstClips,
			SpeakerLimit: defaultSpeakerLimit,
		},
		Transcription: Transcription{
			Backend:   defaultBackend,
			ModelSize: defaultModelSize,
			Language:  defaultLanguage,
			AudioRoot: defaultAudioRoot,
			OutputCSV: defaultPredictionsCSV,
			Layout:    defaultLayout,
			Command:   defaultCommand,
		},
		Cache: Cache{
			Path: defaultCachePath(),
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
