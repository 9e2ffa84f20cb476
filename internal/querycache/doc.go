// Package querycache persists raw source responses in SQLite so repeated
// batch runs over the same library skip the network.
//
// This is deliberately separate from the in-memory result cache: scored
// results are session state, but the candidates a source returned for
// "artist album" barely change day to day. Entries carry a TTL and are
// pruned lazily on open and on read.
package querycache
