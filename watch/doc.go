// Package watch notifies a callback when a source file changes.
//
// A [FileWatcher] watches the directory containing the file, so editors that
// save by writing a temporary file and renaming it over the original are
// observed as well as in-place writes. Bursts of events are coalesced by a
// [Debouncer] and the callback runs on the goroutine that called
// [FileWatcher.Watch], never concurrently with itself.
package watch
