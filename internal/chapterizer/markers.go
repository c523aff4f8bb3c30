package chapterizer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"
)

// Marker pairs a chapter name with the offset, in seconds, where that
// chapter begins within one audio file.
type Marker struct {
	Name   string
	Offset float64
}

// FileMarkers is the normalized marker list of a single source file.
type FileMarkers struct {
	Path     string
	Duration float64
	Markers  []Marker
}

// parseMediaMarkers decodes the OverDrive MediaMarkers XML fragment into an
// ordered marker list. The format encodes a single marker and a marker list
// identically at the element level, so one entry simply yields a one-element
// slice.
func parseMediaMarkers(fragment string) ([]Marker, error) {
	doc, err := xmlquery.Parse(strings.NewReader(fragment))
	if err != nil {
		return nil, fmt.Errorf("parse marker XML: %w", err)
	}

	nodes := xmlquery.Find(doc, "//Marker")
	if len(nodes) == 0 {
		return nil, fmt.Errorf("no marker entries")
	}

	markers := make([]Marker, 0, len(nodes))
	previous := -1.0
	for i, node := range nodes {
		nameNode := xmlquery.FindOne(node, "Name")
		timeNode := xmlquery.FindOne(node, "Time")
		if nameNode == nil || timeNode == nil {
			return nil, fmt.Errorf("marker %d: missing Name or Time", i+1)
		}
		offset, err := ParseTimestamp(strings.TrimSpace(timeNode.InnerText()))
		if err != nil {
			return nil, fmt.Errorf("marker %d: %w", i+1, err)
		}
		if offset < previous {
			return nil, fmt.Errorf("marker %d: offset %v decreases", i+1, offset)
		}
		previous = offset
		markers = append(markers, Marker{
			Name:   strings.TrimSpace(nameNode.InnerText()),
			Offset: offset,
		})
	}
	return markers, nil
}

// ParseTimestamp converts a marker time of the form MM:SS(.fraction) or
// HH:MM:SS(.fraction) into seconds. The fractional part is preserved exactly
// to floating-point precision.
func ParseTimestamp(ts string) (float64, error) {
	fields := strings.Split(ts, ":")

	var hours, minutes int
	var secondsField string
	switch len(fields) {
	case 2:
		secondsField = fields[1]
	case 3:
		var err error
		if hours, err = strconv.Atoi(fields[0]); err != nil {
			return 0, fmt.Errorf("timestamp %q: bad hours: %w", ts, err)
		}
		secondsField = fields[2]
	default:
		return 0, fmt.Errorf("timestamp %q: expected MM:SS or HH:MM:SS", ts)
	}

	minutesField := fields[len(fields)-2]
	minutes, err := strconv.Atoi(minutesField)
	if err != nil {
		return 0, fmt.Errorf("timestamp %q: bad minutes: %w", ts, err)
	}
	seconds, err := strconv.ParseFloat(secondsField, 64)
	if err != nil {
		return 0, fmt.Errorf("timestamp %q: bad seconds: %w", ts, err)
	}
	if hours < 0 || minutes < 0 || seconds < 0 {
		return 0, fmt.Errorf("timestamp %q: negative component", ts)
	}
	return float64(hours)*3600 + float64(minutes)*60 + seconds, nil
}
