// Package services defines shared utilities consumed by the splitter, the
// extraction driver, and the CLI.
//
// Key responsibilities:
//   - Context helpers that stamp request IDs and source locators for logging.
//   - Structured error markers plus the Wrap helper that classify failures
//     into source, extraction, external tool, and validation problems.
//
// Use these helpers when wiring new request handling so error reporting stays
// uniform between the CLI exit codes and the history records.
package services
