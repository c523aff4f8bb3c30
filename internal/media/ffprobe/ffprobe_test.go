package ffprobe

import (
	"context"
	"encoding/json"
	"math"
	"os/exec"
	"testing"
)

func TestResultHelpers(t *testing.T) {
	result := Result{
		Format: Format{
			Duration: "123.45",
			Tags: map[string]string{
				"title":                 "MyBook-part01.mp3",
				"OverDrive MediaMarkers": "<Markers/>",
			},
		},
	}
	if result.DurationSeconds() != 123.45 {
		t.Fatalf("unexpected duration: %v", result.DurationSeconds())
	}
	markers, ok := result.MediaMarkers()
	if !ok || markers != "<Markers/>" {
		t.Fatalf("unexpected markers: %q ok=%v", markers, ok)
	}
	if _, ok := result.Tag("overdrive mediamarkers"); !ok {
		t.Fatal("tag lookup should be case-insensitive")
	}
	if _, ok := result.Tag("absent"); ok {
		t.Fatal("unexpected hit for absent tag")
	}
}

func TestResultHelpersHandleInvalidNumbers(t *testing.T) {
	result := Result{Format: Format{Duration: "bad"}}
	if !math.IsNaN(result.DurationSeconds()) {
		t.Fatalf("expected duration NaN, got %v", result.DurationSeconds())
	}
	result = Result{}
	if result.DurationSeconds() != 0 {
		t.Fatalf("expected zero duration, got %v", result.DurationSeconds())
	}
	if _, ok := result.MediaMarkers(); ok {
		t.Fatal("no tags should mean no markers")
	}
}

func TestInspectParsesOutput(t *testing.T) {
	payload, err := json.Marshal(Result{
		Format: Format{
			Duration: "200.5",
			Tags:     map[string]string{"OverDrive MediaMarkers": "<Markers><Marker/></Markers>"},
		},
	})
	if err != nil {
		t.Fatalf("marshal fixture: %v", err)
	}

	original := commandContext
	commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		return exec.CommandContext(ctx, "sh", "-c", "printf %s "+shellQuote(string(payload)))
	}
	defer func() { commandContext = original }()

	result, err := Inspect(context.Background(), "ffprobe", "book-part01.mp3")
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if result.DurationSeconds() != 200.5 {
		t.Fatalf("unexpected duration: %v", result.DurationSeconds())
	}
	if _, ok := result.MediaMarkers(); !ok {
		t.Fatal("expected markers tag")
	}
}

func TestInspectRejectsEmptyPath(t *testing.T) {
	if _, err := Inspect(context.Background(), "ffprobe", "   "); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func shellQuote(s string) string {
	return "'" + s + "'"
}
