package chapterizer

import (
	"fmt"

	"sonus/internal/textutil"
)

// NamingPolicy renders the output file name (without extension) for a
// finished chapter.
type NamingPolicy interface {
	FileName(track int, chapter string) string
}

// NamedChapters names outputs "{track} {chapter}" using the sanitized
// marker name, preserving the book's own chapter titles.
type NamedChapters struct{}

func (NamedChapters) FileName(track int, chapter string) string {
	return fmt.Sprintf("%d %s", track, textutil.SanitizeChapterName(chapter))
}

// GenericChapters names outputs "Chapter {track}", for books whose marker
// names are unhelpful or junk.
type GenericChapters struct{}

func (GenericChapters) FileName(track int, _ string) string {
	return fmt.Sprintf("Chapter %d", track)
}

// PolicyFor selects the naming policy for a run.
func PolicyFor(generic bool) NamingPolicy {
	if generic {
		return GenericChapters{}
	}
	return NamedChapters{}
}
