// Package config loads, normalizes, and validates asreval configuration data.
//
// It supplies repository defaults (the conventional results/ CSV locations,
// the "small" Whisper model, English language hint), expands user paths
// including tilde shortcuts, and reads TOML files. The Config type centralizes
// every knob the evaluator and the transcription driver need so both commands
// resolve input and output locations the same way.
//
// Always obtain settings through this package so downstream code receives
// absolute paths, canonical schema/layout names, and clear validation errors.
package config
