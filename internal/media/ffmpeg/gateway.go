package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"sonus/internal/services"
)

var commandContext = exec.CommandContext

// Verbosity selects the loglevel passed to ffmpeg invocations.
type Verbosity string

const (
	VerbosityQuiet Verbosity = "quiet"
	VerbosityDebug Verbosity = "debug"
)

// ClipMeta is the metadata injected into an extracted chapter segment.
type ClipMeta struct {
	Title string
	Track int
}

// Gateway defines the stream-copy operations the chapterizer needs. Both
// operations must preserve codec data bit for bit; no re-encoding.
type Gateway interface {
	// ExtractRange copies the [start, end) range of input into output,
	// tagging it with the clip metadata. Offsets are in seconds.
	ExtractRange(ctx context.Context, input string, start, end float64, output string, meta ClipMeta) error
	// Concat appends second after first at the stream level, writing the
	// combined audio to output.
	Concat(ctx context.Context, first, second, output string) error
}

// Option configures the CLI gateway.
type Option func(*CLI)

// WithBinary overrides the default binary name.
func WithBinary(binary string) Option {
	return func(c *CLI) {
		if binary != "" {
			c.binary = binary
		}
	}
}

// WithVerbosity sets the ffmpeg loglevel.
func WithVerbosity(v Verbosity) Option {
	return func(c *CLI) {
		if v != "" {
			c.verbosity = v
		}
	}
}

// CLI wraps the ffmpeg command-line tool.
type CLI struct {
	binary    string
	verbosity Verbosity
}

// NewCLI constructs a CLI gateway using defaults.
func NewCLI(opts ...Option) *CLI {
	cli := &CLI{binary: "ffmpeg", verbosity: VerbosityQuiet}
	for _, opt := range opts {
		opt(cli)
	}
	return cli
}

// ExtractRange performs an input-seeked stream copy of one chapter span.
func (c *CLI) ExtractRange(ctx context.Context, input string, start, end float64, output string, meta ClipMeta) error {
	if input == "" {
		return errors.New("input path required")
	}
	if output == "" {
		return errors.New("output path required")
	}
	if end < start {
		return fmt.Errorf("invalid range %s-%s", formatSeconds(start), formatSeconds(end))
	}

	args := []string{
		"-hide_banner",
		"-loglevel", string(c.verbosity),
		"-y",
		"-ss", formatSeconds(start),
		"-to", formatSeconds(end),
		"-i", input,
		"-c", "copy",
		"-f", "mp3",
		"-metadata", "title=" + meta.Title,
		"-metadata", "track=" + strconv.Itoa(meta.Track),
		output,
	}
	return c.run(ctx, "extract range", args)
}

// Concat joins two MP3 files via the concat protocol, which appends frames
// without touching codec data.
func (c *CLI) Concat(ctx context.Context, first, second, output string) error {
	if first == "" || second == "" {
		return errors.New("concat inputs required")
	}
	if output == "" {
		return errors.New("output path required")
	}

	args := []string{
		"-hide_banner",
		"-loglevel", string(c.verbosity),
		"-y",
		"-i", "concat:" + first + "|" + second,
		"-c", "copy",
		"-f", "mp3",
		output,
	}
	return c.run(ctx, "concat", args)
}

func (c *CLI) run(ctx context.Context, operation string, args []string) error {
	cmd := commandContext(ctx, c.binary, args...) //nolint:gosec
	output, err := cmd.CombinedOutput()
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return services.Wrap(services.ErrToolMissing, "ffmpeg", operation, fmt.Sprintf("binary %q not found", c.binary), nil)
		}
		detail := strings.TrimSpace(string(output))
		if detail == "" {
			detail = err.Error()
		}
		return services.Wrap(services.ErrExtraction, "ffmpeg", operation, detail, err)
	}
	return nil
}

// formatSeconds renders an offset with enough precision to round-trip the
// fractional part of an OverDrive marker timestamp.
func formatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

var _ Gateway = (*CLI)(nil)
