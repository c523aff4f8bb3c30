package chapterizer

import (
	"math"
	"strings"
	"testing"
)

func TestParseTimestamp(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"0:00", 0},
		{"2:03.5", 123.5},
		{"12:00", 720},
		{"1:02:03.5", 3723.5},
		{"00:00:00.000", 0},
		{"10:59:59.99", 39599.99},
	}
	for _, tc := range cases {
		got, err := ParseTimestamp(tc.in)
		if err != nil {
			t.Fatalf("ParseTimestamp(%q): %v", tc.in, err)
		}
		if math.Abs(got-tc.want) > 1e-9 {
			t.Fatalf("ParseTimestamp(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestParseTimestampRejectsMalformed(t *testing.T) {
	for _, in := range []string{"", "42", "1:2:3:4", "aa:bb", "1:-2:03", "1:02:xx"} {
		if _, err := ParseTimestamp(in); err == nil {
			t.Errorf("ParseTimestamp(%q): expected error", in)
		}
	}
}

func TestParseMediaMarkers(t *testing.T) {
	fragment := `<Markers>
  <Marker><Name>Chapter 1</Name><Time>0:00.000</Time></Marker>
  <Marker><Name>Chapter 2</Name><Time>14:32.500</Time></Marker>
  <Marker><Name>Chapter 3</Name><Time>1:02:03.5</Time></Marker>
</Markers>`

	markers, err := parseMediaMarkers(fragment)
	if err != nil {
		t.Fatalf("parseMediaMarkers: %v", err)
	}
	if len(markers) != 3 {
		t.Fatalf("expected 3 markers, got %d", len(markers))
	}
	if markers[0].Name != "Chapter 1" || markers[0].Offset != 0 {
		t.Fatalf("marker 1 = %+v", markers[0])
	}
	if markers[1].Offset != 872.5 {
		t.Fatalf("marker 2 offset = %v", markers[1].Offset)
	}
	if markers[2].Offset != 3723.5 {
		t.Fatalf("marker 3 offset = %v", markers[2].Offset)
	}
}

func TestParseMediaMarkersSingleEntry(t *testing.T) {
	markers, err := parseMediaMarkers(`<Markers><Marker><Name>Prologue</Name><Time>0:00</Time></Marker></Markers>`)
	if err != nil {
		t.Fatalf("parseMediaMarkers: %v", err)
	}
	if len(markers) != 1 || markers[0].Name != "Prologue" {
		t.Fatalf("markers = %+v", markers)
	}
}

func TestParseMediaMarkersRejectsBadInput(t *testing.T) {
	cases := map[string]string{
		"empty list":       `<Markers></Markers>`,
		"missing time":     `<Markers><Marker><Name>X</Name></Marker></Markers>`,
		"decreasing order": `<Markers><Marker><Name>A</Name><Time>5:00</Time></Marker><Marker><Name>B</Name><Time>1:00</Time></Marker></Markers>`,
	}
	for label, fragment := range cases {
		if _, err := parseMediaMarkers(fragment); err == nil {
			t.Errorf("%s: expected error", label)
		}
	}
}

func TestParseMediaMarkersTrimsWhitespace(t *testing.T) {
	markers, err := parseMediaMarkers(`<Markers><Marker><Name>
  Chapter 1
</Name><Time> 0:30 </Time></Marker></Markers>`)
	if err != nil {
		t.Fatalf("parseMediaMarkers: %v", err)
	}
	if markers[0].Name != "Chapter 1" {
		t.Fatalf("name not trimmed: %q", markers[0].Name)
	}
	if markers[0].Offset != 30 {
		t.Fatalf("offset = %v", markers[0].Offset)
	}
	if strings.Contains(markers[0].Name, "\n") {
		t.Fatal("name contains newline")
	}
}
