// Package audio inspects clip headers so the transcription driver can log how
// much audio each clip holds. Only WAV is decoded; other formats report
// ErrUnsupported.
package audio
