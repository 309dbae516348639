// Package transcription drives an ASR model over a tree of audio clips and
// writes one prediction row per clip.
//
// The driver scans the audio root for known audio extensions, parses
// experiment metadata from each clip's path, asks a Transcriber for the text
// and streams rows into a freshly truncated CSV. The batch stops at the first
// failed clip; rows already written stay on disk.
//
// An optional transcript cache short-circuits clips whose bytes, backend,
// model and language were seen before. An exclusive lock on
// <output_csv>.lock keeps two runs from writing the same table.
package transcription
