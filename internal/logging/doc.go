// Package logging assembles structured slog loggers for tracksplit.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes a context helper so request code tags log lines with
// request IDs and locators automatically. A no-op logger is provided for tests
// and for packages constructed without one.
package logging
