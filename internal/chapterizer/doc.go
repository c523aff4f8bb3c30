// Package chapterizer rebuilds an audiobook's chapter structure from the
// OverDrive MediaMarkers embedded in its downloaded parts.
//
// The pipeline has four steps: probe each part for markers and duration,
// fold the per-file marker lists into a global span timeline, stream-copy
// each span into a scratch segment, and merge segments that share a track
// number into the final per-chapter files. Chapters may straddle part
// boundaries; the timeline keeps them on one track so the merge step can
// stitch them back together.
package chapterizer
