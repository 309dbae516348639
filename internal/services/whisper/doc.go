// Package whisper runs an external Whisper command line to transcribe audio
// clips.
//
// Two backends are supported:
//   - "whisper": the reference openai-whisper CLI, read back from its JSON
//     output's top-level text.
//   - "whisperx": WhisperX, whose JSON segments are joined into one line.
//
// Both are launched through uvx so no Python environment has to be managed
// by hand. Tests swap the process launch for a stub via WithCommandRunner.
package whisper
