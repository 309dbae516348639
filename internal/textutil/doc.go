// Package textutil provides the transcript normalization applied before any
// word error rate comparison.
//
// Comparisons are otherwise case- and whitespace-sensitive, so every
// reference and hypothesis passes through Normalize first. Normalize folds
// case with Unicode rules and trims surrounding whitespace; interior spacing
// is left to Words, which splits on any run of whitespace.
package textutil
