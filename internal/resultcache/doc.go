// Package resultcache holds the scored lookup results discovered for each
// loaded file during a session.
//
// The cache is in-memory only and lives for the lifetime of the session; it
// is owned by the session object and passed explicitly to whoever needs it.
// Entries are keyed by file path and, beneath that, by lookup source, so a
// store from one source never disturbs another source's results for the same
// file. Stores replace a (file, source) bucket wholesale; readers never
// observe a partially written candidate list.
package resultcache
