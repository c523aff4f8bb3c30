package chapterizer

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/simonhull/audiometa"

	"sonus/internal/fileutil"
	"sonus/internal/logging"
	"sonus/internal/media/ffmpeg"
	"sonus/internal/organizer"
	"sonus/internal/services"
)

// PartTags is the subset of ID3 metadata the merger needs from an extracted
// segment. Title and track come from the extraction step; artist and album
// are inherited from the source parts.
type PartTags struct {
	Title  string
	Track  int
	Artist string
	Album  string
}

// TagReader reads PartTags from an extracted segment file.
type TagReader func(path string) (PartTags, error)

// ReadPartTags reads segment metadata with audiometa.
func ReadPartTags(path string) (PartTags, error) {
	file, err := audiometa.Open(path)
	if err != nil {
		return PartTags{}, services.Wrap(services.ErrMetadata, "merge", "read tags", path, err)
	}
	defer file.Close()

	tags := PartTags{
		Title:  file.Tags.Title,
		Track:  file.Tags.TrackNumber,
		Artist: file.Tags.Artist,
		Album:  file.Tags.Album,
	}
	if tags.Title == "" || tags.Track == 0 || tags.Artist == "" || tags.Album == "" {
		return PartTags{}, services.Wrap(services.ErrMetadata, "merge", "read tags",
			fmt.Sprintf("%s: missing required tag", path), nil)
	}
	return tags, nil
}

// Merger joins extracted segments back into one file per chapter and files
// the results under {output}/{author}/{album}/.
type Merger struct {
	gateway  ffmpeg.Gateway
	readTags TagReader
	naming   NamingPolicy
	logger   *slog.Logger
}

// Merge consumes segment files in playback order. Consecutive segments
// sharing a track number belong to one chapter and are concatenated
// pairwise; single-segment chapters are copied straight through.
func (m *Merger) Merge(ctx context.Context, parts []string, tmpDir, outputDir string) ([]string, error) {
	if len(parts) == 0 {
		return nil, nil
	}

	var author, album string
	var outputs []string
	var group []string
	var current PartTags
	open := false

	flush := func() error {
		merged := group[0]
		for i, next := range group[1:] {
			combined := filepath.Join(tmpDir, fmt.Sprintf("merge_%03d_%02d.mp3", current.Track, i+1))
			if err := m.gateway.Concat(ctx, merged, next, combined); err != nil {
				return err
			}
			merged = combined
		}

		dir, err := organizer.EnsureBookDir(outputDir, author, album)
		if err != nil {
			return err
		}
		target := filepath.Join(dir, m.naming.FileName(current.Track, current.Title)+".mp3")
		m.logger.Info("saving chapter",
			logging.Args(
				logging.Int("track", current.Track),
				logging.String("chapter", current.Title),
				logging.Int("segments", len(group)),
			)...)
		if err := fileutil.CopyFile(merged, target); err != nil {
			return err
		}
		outputs = append(outputs, target)
		return nil
	}

	for i, part := range parts {
		tags, err := m.readTags(part)
		if err != nil {
			return nil, err
		}
		if i == 0 {
			author = tags.Artist
			album = tags.Album
			m.logger.Info("assembling chapters",
				logging.Args(
					logging.String("author", author),
					logging.String("album", album),
				)...)
		}
		if open && tags.Track != current.Track {
			if err := flush(); err != nil {
				return nil, err
			}
			group = group[:0]
		}
		current = tags
		open = true
		group = append(group, part)
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return outputs, nil
}
