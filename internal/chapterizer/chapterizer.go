package chapterizer

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"sonus/internal/logging"
	"sonus/internal/media/ffmpeg"
	"sonus/internal/services"
)

// Chapterizer splits a downloaded multi-part audiobook into one MP3 per
// chapter, following the marker metadata embedded in each part.
type Chapterizer struct {
	prober   Prober
	gateway  ffmpeg.Gateway
	readTags TagReader
	naming   NamingPolicy
	match    NameMatchPolicy
	logger   *slog.Logger
	workers  int
}

// Option configures a Chapterizer.
type Option func(*Chapterizer)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Chapterizer) {
		if logger != nil {
			c.logger = logging.NewComponentLogger(logger, "chapterize")
		}
	}
}

// WithNaming sets the output naming policy.
func WithNaming(policy NamingPolicy) Option {
	return func(c *Chapterizer) {
		if policy != nil {
			c.naming = policy
		}
	}
}

// WithWorkers bounds concurrent segment extractions.
func WithWorkers(workers int) Option {
	return func(c *Chapterizer) {
		if workers > 0 {
			c.workers = workers
		}
	}
}

// WithTagReader overrides how segment tags are read.
func WithTagReader(reader TagReader) Option {
	return func(c *Chapterizer) {
		if reader != nil {
			c.readTags = reader
		}
	}
}

// WithNameMatch overrides the chapter-continuation policy.
func WithNameMatch(match NameMatchPolicy) Option {
	return func(c *Chapterizer) {
		if match != nil {
			c.match = match
		}
	}
}

// New constructs a Chapterizer using defaults.
func New(prober Prober, gateway ffmpeg.Gateway, opts ...Option) *Chapterizer {
	c := &Chapterizer{
		prober:   prober,
		gateway:  gateway,
		readTags: ReadPartTags,
		naming:   NamedChapters{},
		match:    ContainsMatch,
		logger:   logging.NewNop(),
		workers:  2,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run chapterizes every MP3 under inputDir into outputDir. It probes all
// files up front so metadata problems surface before any audio is touched,
// then extracts chapter segments into a scratch directory and merges them
// into the final per-chapter files.
func (c *Chapterizer) Run(ctx context.Context, inputDir, outputDir string) ([]string, error) {
	files, err := listAudioFiles(inputDir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, services.Wrap(services.ErrNotFound, "chapterize", "scan input",
			fmt.Sprintf("no MP3 files under %s", inputDir), nil)
	}

	perFile := make([]FileMarkers, 0, len(files))
	for _, file := range files {
		markers, err := c.prober.Probe(ctx, file)
		if err != nil {
			return nil, err
		}
		perFile = append(perFile, markers)
	}

	spans, names := BuildTimeline(perFile, c.match)
	c.logger.Info("built chapter timeline",
		logging.Args(
			logging.Int("files", len(files)),
			logging.Int("chapters", len(names)),
			logging.Int("spans", len(spans)),
		)...)

	tmpDir, err := os.MkdirTemp("", "sonus-chapterize-")
	if err != nil {
		return nil, fmt.Errorf("create scratch dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	parts, err := extractSegments(ctx, c.gateway, spans, tmpDir, c.workers, c.logger)
	if err != nil {
		return nil, err
	}

	merger := &Merger{gateway: c.gateway, readTags: c.readTags, naming: c.naming, logger: c.logger}
	outputs, err := merger.Merge(ctx, parts, tmpDir, outputDir)
	if err != nil {
		return nil, err
	}
	c.logger.Info("chapterized audiobook", logging.Args(logging.Int("chapters", len(outputs)))...)
	return outputs, nil
}

// listAudioFiles returns the MP3 files under dir, sorted by path. Part
// files carry zero-padded numbers, so lexical order is playback order.
func listAudioFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ".mp3") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}
	sort.Strings(files)
	return files, nil
}
