package organizer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PrimaryAuthor reduces a multi-author tag to the first listed author.
// OverDrive stores co-authors '/'-separated in the artist tag.
func PrimaryAuthor(author string) string {
	first, _, _ := strings.Cut(author, "/")
	return strings.TrimSpace(first)
}

// BookDir returns the library directory for a book: {output}/{author}/{title}.
func BookDir(outputDir, author, title string) string {
	return filepath.Join(outputDir, PrimaryAuthor(author), strings.TrimSpace(title))
}

// EnsureBookDir creates the book directory (including parents) if absent and
// returns it. Creation is idempotent so re-runs reuse the same layout.
func EnsureBookDir(outputDir, author, title string) (string, error) {
	if strings.TrimSpace(author) == "" {
		return "", fmt.Errorf("author required for library layout")
	}
	if strings.TrimSpace(title) == "" {
		return "", fmt.Errorf("title required for library layout")
	}
	dir := BookDir(outputDir, author, title)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create book directory %q: %w", dir, err)
	}
	return dir, nil
}
