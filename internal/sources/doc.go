// Package sources defines the contract the batch orchestrator uses to query
// external lookup services, and sentinel errors shared by every client.
//
// A transport failure is ErrUnavailable; a malformed response is ErrParse.
// "No matches" is an empty slice, never an error. Concrete clients live in
// the musicbrainz, discogs, and acoustid subpackages.
package sources
