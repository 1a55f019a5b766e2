// Package splitter orchestrates split requests.
//
// A request retrieves the source metadata, runs the extractor chain over its
// description, applies caller overrides to the winning tracklist, stages the
// media into a per-request working directory under the staging area, and hands
// the file to the driver for the normalize and batch-cut steps. Lifecycle is
// reported on an events.Bus (start, message, end, error) and, when a recorder
// is configured, in the request history.
//
// Concurrent requests share nothing but the bus and the chain; each gets its
// own working directory. Cuts into the same output directory are serialized
// with a file lock.
package splitter
