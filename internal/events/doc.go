// Package events carries domain notifications from the core to whatever
// front end is listening, decoupled from any UI binding system.
//
// The bus is in-process and synchronous: publishers invoke subscribers on
// the publishing goroutine. Subscribers are expected to hand work off
// quickly (the CLI prints; a GUI would post to its own thread).
package events
