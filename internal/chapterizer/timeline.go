package chapterizer

import (
	"slices"
	"strings"
)

// Span is one contiguous slice of a source file belonging to a single
// chapter. Chapters that straddle a file boundary produce one span per file
// sharing the same track number.
type Span struct {
	File    string
	Chapter string
	Start   float64
	End     float64
	Track   int
}

// ZeroLength reports whether the span covers no audio. These occur when a
// marker sits exactly at the end of a file and the chapter continues in the
// next one.
func (s Span) ZeroLength() bool {
	return s.Start == s.End
}

// NameMatchPolicy decides whether a marker name continues the current
// chapter rather than starting a new one.
type NameMatchPolicy func(current, marker string) bool

// ContainsMatch treats a marker as a continuation when the current chapter
// name appears anywhere inside it. OverDrive labels continuation markers
// like "Chapter 3 (05:12)", so substring containment folds them into their
// parent chapter.
func ContainsMatch(current, marker string) bool {
	return strings.Contains(marker, current)
}

// builderState carries the current chapter identity across file boundaries
// while the timeline is assembled.
type builderState struct {
	chapter string
	track   int
	names   []string
}

func (b *builderState) open(name string) {
	b.chapter = name
	b.track++
	if !slices.Contains(b.names, name) {
		b.names = append(b.names, name)
	}
}

// BuildTimeline folds per-file marker lists into the global span sequence
// and the deduplicated chapter-name list in first-appearance order. Files
// must be supplied in playback order.
func BuildTimeline(files []FileMarkers, match NameMatchPolicy) ([]Span, []string) {
	if match == nil {
		match = ContainsMatch
	}

	var state builderState
	var spans []Span
	for _, file := range files {
		var start float64
		started := false
		for i, marker := range file.Markers {
			switch {
			case state.chapter == "":
				state.open(marker.Name)
			case !match(state.chapter, marker.Name):
				if started {
					spans = append(spans, Span{
						File:    file.Path,
						Chapter: state.chapter,
						Start:   start,
						End:     marker.Offset,
						Track:   state.track,
					})
				}
				state.open(marker.Name)
				started = false
			}
			if !started {
				start = marker.Offset
				started = true
			}
			if i == len(file.Markers)-1 {
				// The last chapter of every file runs to the file's end; if
				// it continues in the next file, that file opens a fresh span
				// with the same track.
				spans = append(spans, Span{
					File:    file.Path,
					Chapter: state.chapter,
					Start:   start,
					End:     file.Duration,
					Track:   state.track,
				})
			}
		}
	}
	return spans, state.names
}
