// Package language normalizes the language hint handed to the ASR backend.
//
// Configuration accepts ISO 639-1 or 639-2 codes, BCP 47 tags such as
// "en-US", or English language names; backends receive the ISO 639-1 code.
package language
