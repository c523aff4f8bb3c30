package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"sonus/internal/chapterizer"
	"sonus/internal/config"
	"sonus/internal/download"
	"sonus/internal/library"
	"sonus/internal/media/ffmpeg"
	"sonus/internal/odm"
)

func newDownloader(ctx *commandContext, cfg *config.Config, logger *slog.Logger) *download.Downloader {
	return download.New(
		download.WithClient(ctx.downloadClient()),
		download.WithWorkers(cfg.Download.Workers),
		download.WithProgress(cfg.Download.Progress),
		download.WithLogger(logger),
	)
}

func newChapterizer(cfg *config.Config, logger *slog.Logger, genericNames bool) *chapterizer.Chapterizer {
	verbosity := ffmpeg.VerbosityQuiet
	if strings.EqualFold(cfg.Logging.Level, "debug") {
		verbosity = ffmpeg.VerbosityDebug
	}
	gateway := ffmpeg.NewCLI(
		ffmpeg.WithBinary(cfg.FFmpeg.Binary),
		ffmpeg.WithVerbosity(verbosity),
	)
	return chapterizer.New(
		chapterizer.NewProber(cfg.FFmpeg.ProbeBinary),
		gateway,
		chapterizer.WithLogger(logger),
		chapterizer.WithWorkers(cfg.FFmpeg.ExtractWorkers),
		chapterizer.WithNaming(chapterizer.PolicyFor(genericNames)),
	)
}

// stagingRoot is where get keeps part files while chapterizing. Parts stay
// outside the output tree so a re-run never scans chapter files produced by
// an earlier run.
func stagingRoot(cfg *config.Config) string {
	return filepath.Join(cfg.Paths.DataDir, "staging")
}

// downloadLoan runs manifest parsing, license acquisition and the part
// download into root, then records the loan. It returns the manifest and the
// directory holding the downloaded parts.
func downloadLoan(ctx context.Context, cctx *commandContext, cfg *config.Config, logger *slog.Logger, odmPath, root string) (*odm.Manifest, string, error) {
	m, err := odm.ParseFile(odmPath)
	if err != nil {
		return nil, "", err
	}

	lic, err := odm.Acquire(ctx, cctx.licenseClient(cfg), m, cfg.ClientIDPath())
	if err != nil {
		return nil, "", err
	}

	bookDir, err := newDownloader(cctx, cfg, logger).DownloadBook(ctx, m, lic, root)
	if err != nil {
		return nil, "", err
	}

	store, err := library.Open(cfg)
	if err != nil {
		return nil, "", err
	}
	defer store.Close()
	if _, err := store.RecordDownload(ctx, library.Loan{
		MediaID: m.MediaID,
		Title:   m.Title,
		Author:  m.Author,
		ODMPath: m.Path,
		BookDir: bookDir,
	}); err != nil {
		return nil, "", fmt.Errorf("record loan: %w", err)
	}
	return m, bookDir, nil
}
