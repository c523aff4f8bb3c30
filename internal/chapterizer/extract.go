package chapterizer

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"sonus/internal/logging"
	"sonus/internal/media/ffmpeg"
)

// extractSegments stream-copies every non-empty span into a numbered part
// file under tmpDir. Part numbering follows the span order, so lexical
// sorting of the results reproduces playback order. Extraction runs on a
// bounded worker pool; the first failure cancels the rest.
func extractSegments(ctx context.Context, gateway ffmpeg.Gateway, spans []Span, tmpDir string, workers int, logger *slog.Logger) ([]string, error) {
	if workers < 1 {
		workers = 1
	}

	type job struct {
		span Span
		path string
	}
	jobs := make([]job, 0, len(spans))
	for i, span := range spans {
		if span.ZeroLength() {
			logger.Debug("skipping zero-length span",
				logging.Args(
					logging.String("chapter", span.Chapter),
					logging.String("file", span.File),
				)...)
			continue
		}
		jobs = append(jobs, job{
			span: span,
			path: filepath.Join(tmpDir, fmt.Sprintf("part_%03d.mp3", i)),
		})
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(workers)
	for _, j := range jobs {
		group.Go(func() error {
			logger.Info("extracting chapter segment",
				logging.Args(
					logging.String("chapter", j.span.Chapter),
					logging.Int("track", j.span.Track),
					logging.String("file", filepath.Base(j.span.File)),
				)...)
			return gateway.ExtractRange(groupCtx, j.span.File, j.span.Start, j.span.End, j.path, ffmpeg.ClipMeta{
				Title: j.span.Chapter,
				Track: j.span.Track,
			})
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	paths := make([]string, len(jobs))
	for i, j := range jobs {
		paths[i] = j.path
	}
	return paths, nil
}
