// Package ffprobe wraps ffprobe's JSON output for the probes tracksplit needs:
// container duration and the presence of an audio stream to cut from.
package ffprobe
