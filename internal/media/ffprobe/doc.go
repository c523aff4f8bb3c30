// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// sonus uses it for two things: the container duration of each part (which
// closes the final chapter span of a file) and the OverDrive MediaMarkers
// tag, the embedded XML fragment that carries chapter names and offsets.
package ffprobe
