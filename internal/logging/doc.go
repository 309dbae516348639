// Package logging assembles structured slog loggers and formatting helpers used
// across asreval commands.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and tags every line of an invocation with a run identifier so the
// log of one transcription batch or evaluation can be isolated from a shared
// log file. The package also provides a no-op logger for tests.
//
// Logs always go to stderr; stdout is reserved for reports.
package logging
