// Package ratelimit paces sequential calls to external services.
//
// Each source gets its own Pacer, a token bucket holding a single token so
// successive calls within one source are spaced by at least the configured
// interval. The clock and sleep functions are injectable, so tests verify
// pacing without real wall-clock delay.
package ratelimit
