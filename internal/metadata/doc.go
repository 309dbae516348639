// Package metadata extracts experiment metadata from audio clip paths.
//
// Two naming conventions exist in recorded corpora and both are supported as
// named strategies behind the Extractor interface:
//
//   - flat:   <env>_<rate>_<speaker>_<index>.<ext> in a single directory
//   - nested: <env>/<speaker>_<noise>_<snr>.<ext> one directory per environment
//
// Extraction never fails. Missing or empty tokens become Unknown.
package metadata
