// Package tagdiff builds and drives field-level comparisons between a
// track's working tag values and a candidate snapshot.
//
// Each comparison is a fresh, ordered set of per-field diffs; building a new
// comparison discards the previous set entirely rather than merging. Each
// diff moves through a small state machine: Pending until the user (or an
// auto-apply rule) accepts or rejects it, and back to Pending only through a
// full revert. Accepting writes the proposed value into the track's working
// state; rejecting keeps the original. A change-history log records every
// comparison built for the track and is append-only for the track's
// lifetime.
//
// The engine is deliberately not thread-safe: a comparison is owned by
// whichever single flow (user action or auto-apply) currently holds the
// active file.
package tagdiff
