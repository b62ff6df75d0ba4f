// Package sfx implements the sound preference manager: it owns the
// enabled flag and the selected preset, persists them, plays feedback tones
// for page interactions, and projects its state onto a view.
//
// A Manager is not safe for concurrent use. All of its methods, including
// callbacks handed to the Scheduler, are expected to run on one event loop.
package sfx
