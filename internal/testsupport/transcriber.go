package testsupport

import (
	"context"
	"path/filepath"
	"sync"
)

// StubTranscriber answers transcription requests from a fixed table keyed by
// clip basename and records every call.
type StubTranscriber struct {
	mu        sync.Mutex
	Responses map[string]string
	// Failures makes the named clips return the given error.
	Failures map[string]error
	Calls    []StubCall
}

// StubCall is one recorded Transcribe invocation.
type StubCall struct {
	Path     string
	Language string
}

// Transcribe returns the configured response for path's basename.
func (s *StubTranscriber) Transcribe(_ context.Context, path, language string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls = append(s.Calls, StubCall{Path: path, Language: language})
	name := filepath.Base(path)
	if err, ok := s.Failures[name]; ok {
		return "", err
	}
	return s.Responses[name], nil
}

// CallCount returns the number of Transcribe invocations so far.
func (s *StubTranscriber) CallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Calls)
}
