// Package fingerprint extracts Chromaprint acoustic fingerprints by invoking
// the external fpcalc binary.
//
// The tool is a black box: it gets a file path and prints DURATION= and
// FINGERPRINT= lines. Failure modes are kept distinct so callers can tell a
// missing binary from a failed run from unparsable output.
package fingerprint
