// Package filesystem provides local directory adapters.
//
// Adapters:
//   - Lister: lexicographic listing of batch directory entries
//   - Watcher: fsnotify-based notification of new or rewritten images
package filesystem
