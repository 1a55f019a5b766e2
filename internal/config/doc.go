// Package config loads, normalizes, and validates tracksplit configuration.
//
// It supplies defaults, expands user paths (including tilde shortcuts), reads
// TOML files, and honours environment fallbacks for the transcoder binaries
// (TRACKSPLIT_FFMPEG, TRACKSPLIT_FFPROBE). Obtain settings through this
// package so callers receive absolute paths and canonical log settings.
package config
