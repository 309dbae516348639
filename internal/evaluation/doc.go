// Package evaluation turns matched transcript records into WER statistics:
// the corpus-wide rate, per-group rates for environment, condition and
// speaker, and the clips with the largest errors.
//
// Load reads whichever input schema the configuration selects; Evaluate does
// the arithmetic and never touches the filesystem.
package evaluation
