// Package preflight provides readiness checks for the binaries and
// filesystem paths asreval depends on.
//
// These checks run in two contexts:
//   - The transcribe command calls Transcription before touching any clip so
//     a missing launcher or unreadable audio root fails in seconds rather
//     than after the first model download.
//   - The "asreval check" command renders every result as a table.
package preflight
