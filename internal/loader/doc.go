// Package loader reads tag metadata for many files at once through a bounded
// worker pool. A file that fails to load is counted and skipped, never fatal.
// Progress callbacks are throttled so large libraries do not flood the caller.
package loader
