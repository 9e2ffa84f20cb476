// Package batch drives multi-file queries against the external lookup
// sources and feeds scored results into the session result cache.
//
// Within one source, calls run strictly sequentially behind a pacer so the
// source's rate limit is respected; different sources may run concurrently
// because each writes its own bucket in the result cache. Tracks sharing an
// (artist, album) pair are queried once and the scored results fan out to
// every track in the group. Per-file and per-group failures are isolated:
// the batch always runs to completion (or cancellation) and reports an
// aggregate summary instead of aborting on the first error.
package batch
