package chapterizer

import (
	"reflect"
	"testing"
)

func TestBuildTimelineCrossFileChapter(t *testing.T) {
	files := []FileMarkers{
		{
			Path:     "a.mp3",
			Duration: 200,
			Markers:  []Marker{{Name: "Ch1", Offset: 0}, {Name: "Ch2", Offset: 120}},
		},
		{
			Path:     "b.mp3",
			Duration: 90,
			Markers:  []Marker{{Name: "Ch2 (cont.)", Offset: 0}, {Name: "Ch3", Offset: 30}},
		},
	}

	spans, names := BuildTimeline(files, nil)

	want := []Span{
		{File: "a.mp3", Chapter: "Ch1", Start: 0, End: 120, Track: 1},
		{File: "a.mp3", Chapter: "Ch2", Start: 120, End: 200, Track: 2},
		{File: "b.mp3", Chapter: "Ch2", Start: 0, End: 30, Track: 2},
		{File: "b.mp3", Chapter: "Ch3", Start: 30, End: 90, Track: 3},
	}
	if !reflect.DeepEqual(spans, want) {
		t.Fatalf("spans = %+v\nwant %+v", spans, want)
	}
	if !reflect.DeepEqual(names, []string{"Ch1", "Ch2", "Ch3"}) {
		t.Fatalf("names = %v", names)
	}
}

func TestBuildTimelineSpansAreContiguousPerFile(t *testing.T) {
	files := []FileMarkers{
		{
			Path:     "a.mp3",
			Duration: 1000,
			Markers: []Marker{
				{Name: "Prologue", Offset: 0},
				{Name: "Chapter 1", Offset: 100.25},
				{Name: "Chapter 2", Offset: 400},
				{Name: "Chapter 3", Offset: 780.5},
			},
		},
	}

	spans, _ := BuildTimeline(files, nil)
	if len(spans) != 4 {
		t.Fatalf("expected 4 spans, got %d", len(spans))
	}
	for i := 1; i < len(spans); i++ {
		if spans[i].Start != spans[i-1].End {
			t.Fatalf("gap between spans %d and %d: %v != %v", i-1, i, spans[i-1].End, spans[i].Start)
		}
	}
	if last := spans[len(spans)-1]; last.End != 1000 {
		t.Fatalf("final span must end at file duration, got %v", last.End)
	}
	for i, span := range spans {
		if span.Track != i+1 {
			t.Fatalf("span %d track = %d", i, span.Track)
		}
	}
}

func TestBuildTimelineZeroLengthSpanAtFileEnd(t *testing.T) {
	files := []FileMarkers{
		{
			Path:     "a.mp3",
			Duration: 100,
			Markers:  []Marker{{Name: "Ch1", Offset: 0}, {Name: "Ch2", Offset: 100}},
		},
		{
			Path:     "b.mp3",
			Duration: 50,
			Markers:  []Marker{{Name: "Ch2", Offset: 0}},
		},
	}

	spans, _ := BuildTimeline(files, nil)
	if len(spans) != 3 {
		t.Fatalf("expected 3 spans, got %d", len(spans))
	}
	if !spans[1].ZeroLength() {
		t.Fatalf("expected zero-length span for marker at file end, got %+v", spans[1])
	}
	if spans[1].Track != spans[2].Track {
		t.Fatalf("continuation must keep the track: %d vs %d", spans[1].Track, spans[2].Track)
	}
}

func TestBuildTimelineDeduplicatesNames(t *testing.T) {
	files := []FileMarkers{
		{Path: "a.mp3", Duration: 10, Markers: []Marker{{Name: "Intro", Offset: 0}}},
		{Path: "b.mp3", Duration: 10, Markers: []Marker{{Name: "Intro", Offset: 0}}},
		{Path: "c.mp3", Duration: 10, Markers: []Marker{{Name: "Ch 1", Offset: 0}, {Name: "Ch 2", Offset: 5}}},
	}

	_, names := BuildTimeline(files, nil)
	if !reflect.DeepEqual(names, []string{"Intro", "Ch 1", "Ch 2"}) {
		t.Fatalf("names = %v", names)
	}
}

func TestContainsMatchQuirk(t *testing.T) {
	// Containment is directional: a marker that embeds the current name
	// continues the chapter, but a shorter prefix does not.
	if !ContainsMatch("Chapter 3", "Chapter 3 (05:12)") {
		t.Fatal("continuation marker should match")
	}
	if ContainsMatch("Chapter 3 (05:12)", "Chapter 3") {
		t.Fatal("shorter marker should not match the longer current name")
	}
	// Known sharp edge: "Chapter 1" is a substring of "Chapter 10".
	if !ContainsMatch("Chapter 1", "Chapter 10") {
		t.Fatal("substring containment folds Chapter 10 into Chapter 1")
	}
}

func TestBuildTimelineCustomPolicy(t *testing.T) {
	exact := func(current, marker string) bool { return current == marker }
	files := []FileMarkers{
		{
			Path:     "a.mp3",
			Duration: 30,
			Markers:  []Marker{{Name: "Chapter 1", Offset: 0}, {Name: "Chapter 10", Offset: 20}},
		},
	}

	spans, _ := BuildTimeline(files, exact)
	if len(spans) != 2 {
		t.Fatalf("exact matching must split Chapter 1 and Chapter 10, got %d spans", len(spans))
	}
}
