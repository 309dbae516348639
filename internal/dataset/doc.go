// Package dataset loads transcript tables and joins predictions to references.
//
// Two input schemas are supported. The split schema pairs a ground-truth table
// (correct_transcript.csv) with a predictions table (predictions_raw.csv) keyed
// by speaker_num; Join performs the inner join and reports predictions whose
// key is absent from the ground truth. The combined schema reads a single
// table (predictions_with_ref.csv) that already carries both transcripts.
//
// Rows with blank required fields are skipped and counted, never fatal. A
// table missing a required column is rejected with ErrMissingColumn.
package dataset
