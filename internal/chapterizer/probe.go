package chapterizer

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os/exec"

	"sonus/internal/media/ffprobe"
	"sonus/internal/services"
)

// Prober reads the chapter markers and duration of one audio file.
type Prober interface {
	Probe(ctx context.Context, path string) (FileMarkers, error)
}

type ffprobeProber struct {
	binary string
}

// NewProber returns a Prober backed by the ffprobe binary.
func NewProber(binary string) Prober {
	return &ffprobeProber{binary: binary}
}

func (p *ffprobeProber) Probe(ctx context.Context, path string) (FileMarkers, error) {
	result, err := ffprobe.Inspect(ctx, p.binary, path)
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return FileMarkers{}, services.Wrap(services.ErrToolMissing, "chapterize", "probe file",
				fmt.Sprintf("binary %q not found", p.binary), nil)
		}
		return FileMarkers{}, services.Wrap(services.ErrMetadata, "chapterize", "probe file", path, err)
	}

	fragment, ok := result.MediaMarkers()
	if !ok {
		return FileMarkers{}, services.Wrap(services.ErrMetadata, "chapterize", "probe file",
			fmt.Sprintf("%s: no OverDrive MediaMarkers tag", path), nil)
	}
	markers, err := parseMediaMarkers(fragment)
	if err != nil {
		return FileMarkers{}, services.Wrap(services.ErrMetadata, "chapterize", "parse markers", path, err)
	}

	duration := result.DurationSeconds()
	if duration <= 0 || math.IsNaN(duration) {
		return FileMarkers{}, services.Wrap(services.ErrMetadata, "chapterize", "probe file",
			fmt.Sprintf("%s: missing duration", path), nil)
	}
	return FileMarkers{Path: path, Duration: duration, Markers: markers}, nil
}
