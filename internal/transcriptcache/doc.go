// Package transcriptcache stores ASR output in a SQLite database so repeated
// runs over the same clips skip the model.
//
// Entries are keyed by the SHA256 of the clip bytes together with the backend,
// model and language that produced them, so renaming or moving a clip keeps
// its entry while switching models does not reuse stale text.
package transcriptcache
