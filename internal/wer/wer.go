package wer

import (
	"errors"
	"fmt"

	"github.com/texttheater/golang-levenshtein/levenshtein"

	"asreval/internal/textutil"
)

// ErrLengthMismatch reports reference and hypothesis slices of different lengths.
var ErrLengthMismatch = errors.New("reference and hypothesis counts differ")

var unitCost = levenshtein.Options{
	InsCost: 1,
	DelCost: 1,
	SubCost: 1,
	Matches: levenshtein.IdenticalRunes,
}

// Stats holds the raw counts behind a WER value.
type Stats struct {
	Edits          int
	ReferenceWords int
}

// Add accumulates other into s.
func (s *Stats) Add(other Stats) {
	s.Edits += other.Edits
	s.ReferenceWords += other.ReferenceWords
}

// Rate returns edits over reference words. A stats value with no reference
// words yields 0 when there were no edits and 1 otherwise.
func (s Stats) Rate() float64 {
	if s.ReferenceWords == 0 {
		if s.Edits == 0 {
			return 0
		}
		return 1
	}
	return float64(s.Edits) / float64(s.ReferenceWords)
}

// Measure returns the word-level edit counts for one pair. Inputs are
// compared as given; callers normalize first.
func Measure(reference, hypothesis string) Stats {
	refWords := textutil.Words(reference)
	hypWords := textutil.Words(hypothesis)

	vocab := make(map[string]rune, len(refWords)+len(hypWords))
	ref := intern(refWords, vocab)
	hyp := intern(hypWords, vocab)

	return Stats{
		Edits:          levenshtein.DistanceForStrings(ref, hyp, unitCost),
		ReferenceWords: len(refWords),
	}
}

func intern(words []string, vocab map[string]rune) []rune {
	out := make([]rune, len(words))
	for i, w := range words {
		r, ok := vocab[w]
		if !ok {
			r = rune(len(vocab) + 1)
			vocab[w] = r
		}
		out[i] = r
	}
	return out
}

// Clip returns the WER of a single pair.
func Clip(reference, hypothesis string) float64 {
	return Measure(reference, hypothesis).Rate()
}

// Corpus returns the WER across all pairs.
func Corpus(references, hypotheses []string) (float64, error) {
	stats, err := Accumulate(references, hypotheses)
	if err != nil {
		return 0, err
	}
	return stats.Rate(), nil
}

// Accumulate sums the edit counts of every pair.
func Accumulate(references, hypotheses []string) (Stats, error) {
	if len(references) != len(hypotheses) {
		return Stats{}, fmt.Errorf("%w: %d references, %d hypotheses", ErrLengthMismatch, len(references), len(hypotheses))
	}
	var total Stats
	for i := range references {
		total.Add(Measure(references[i], hypotheses[i]))
	}
	return total, nil
}
