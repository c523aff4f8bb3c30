// Package deps verifies the external binaries sonus shells out to.
//
// ffmpeg performs every stream-copy extraction and concat; ffprobe reads
// durations and the embedded OverDrive marker tag. Both are checked once, up
// front, so a missing tool surfaces as a single actionable error instead of
// one failure per chapter.
package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"sonus/internal/config"
	"sonus/internal/services"
)

// Requirement defines an external dependency sonus relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Available   bool
	Detail      string
}

// Requirements returns the external binaries needed for a chapterizing run.
func Requirements(cfg *config.Config) []Requirement {
	return []Requirement{
		{
			Name:        "FFmpeg",
			Command:     cfg.FFmpeg.Binary,
			Description: "Stream-copy chapter extraction and concatenation",
		},
		{
			Name:        "FFprobe",
			Command:     cfg.FFmpeg.ProbeBinary,
			Description: "Duration and OverDrive MediaMarkers inspection",
		},
	}
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		if _, err := exec.LookPath(cmd); err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}

// Verify returns a single tool-missing error covering every unavailable
// requirement, or nil when all binaries resolve.
func Verify(cfg *config.Config) error {
	missing := make([]string, 0, 2)
	for _, status := range CheckBinaries(Requirements(cfg)) {
		if !status.Available {
			missing = append(missing, status.Command)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	message := fmt.Sprintf("%s not found on PATH; install ffmpeg (https://ffmpeg.org) or set ffmpeg.binary / ffmpeg.probe_binary in the config", strings.Join(missing, ", "))
	return services.Wrap(services.ErrToolMissing, "preflight", "check tools", message, nil)
}
