// Package transcoder builds and runs the ffmpeg invocations used to split an
// asset: an optional normalize pass that re-encodes any container to
// audio-only MP3, and a single batch pass that stream-copies every track to
// its own tagged file.
//
// Process execution sits behind the Executor interface so tests can record
// arguments and simulate exit codes without an ffmpeg binary.
package transcoder
