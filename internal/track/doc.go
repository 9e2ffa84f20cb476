// Package track defines the shared data model for tag reconciliation.
//
// A LocalTrack is a file loaded into the working session; its tag fields are
// mutable working values, distinct from whatever is on disk until saved.
// A CandidateRelease is one result returned by an external lookup source,
// and a ScoredCandidate binds a candidate to the local file it was scored
// against. Candidates are ephemeral; they live only in the session result
// cache and are never persisted.
package track
