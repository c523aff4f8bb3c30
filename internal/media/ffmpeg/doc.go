// Package ffmpeg wraps the ffmpeg CLI as a narrow stream-copy gateway.
//
// Only two operations exist: range extraction and pairwise concat, both with
// -c copy so audio fidelity is preserved. Tests substitute the Gateway
// interface instead of invoking a real ffmpeg.
package ffmpeg
