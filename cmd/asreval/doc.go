// Command asreval transcribes audio clips with Whisper and scores the
// predictions against reference transcripts by word error rate.
//
//	asreval transcribe --audio_root audio --model_size small
//	asreval evaluate
//	asreval check
package main
