// Package logging configures slog for tagscout and provides small helpers
// shared by every component: typed attribute constructors, a no-op logger
// for tests, and component-scoped child loggers.
package logging
