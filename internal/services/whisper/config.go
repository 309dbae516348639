package whisper

// Config captures runtime settings for Whisper transcription.
type Config struct {
	// Backend selects the CLI: "whisper" (default) or "whisperx".
	Backend string
	// Model is the model size or name (e.g. "small", "large-v3").
	Model string
	// Command is the launcher binary; uvx unless overridden.
	Command string
	// CUDAEnabled runs inference on the GPU.
	CUDAEnabled bool
	// WorkDir holds per-clip scratch directories; empty uses the system temp dir.
	WorkDir string
}

// Backend names.
const (
	BackendWhisper  = "whisper"
	BackendWhisperX = "whisperx"
)

// Whisper configuration constants.
const (
	DefaultModel   = "small"
	UVXCommand     = "uvx"
	WhisperPackage = "openai-whisper"
	CUDAIndexURL   = "https://download.pytorch.org/whl/cu128"
	PypiIndexURL   = "https://pypi.org/simple"
	OutputFormat   = "json"
	Temperature    = "0.0"
	BeamSize       = "5"
	BatchSize      = "4"
	CPUDevice      = "cpu"
	CUDADevice     = "cuda"
	CPUComputeType = "float32"
	VADMethod      = "silero"
)
