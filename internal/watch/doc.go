// Package watch observes a directory tree and reports each mutation under it
// as an Event on a channel.
//
// Files that already exist when the watch starts are never reported. File
// creations and content changes are held back until the file stops changing
// for the configured settle window, so one logical write produces one event.
// Removals and directory events are reported as soon as they are seen.
package watch
