// Package audio provides the playback engine used for interface sounds.
// It uses the beep speaker to play synthesized tones with master volume
// control, and offers a silent engine for muted or headless runs.
package audio
