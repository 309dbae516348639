// Package wer computes word error rate over reference/hypothesis pairs.
//
// Edit distance comes from github.com/texttheater/golang-levenshtein with unit
// insertion, deletion, and substitution costs. The library compares runes, so
// each distinct word is interned to a private rune before the comparison.
//
// Corpus aligns each pair on its own and divides the summed edits by the
// summed reference words, so no alignment crosses a clip boundary.
package wer
