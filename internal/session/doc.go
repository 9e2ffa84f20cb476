// Package session holds the state of one editing session: the loaded working
// set, the in-memory result cache, one diff engine per file, and the event
// bus. A file lock on the cache directory keeps concurrent invocations from
// sharing the on-disk query cache writer.
package session
