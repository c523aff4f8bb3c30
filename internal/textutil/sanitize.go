package textutil

import "strings"

// chapterNameReplacer applies the fixed substitution table used for chapter
// filenames. The table is deliberately small and stable: output filenames
// feed idempotent re-runs, so the mapping must never drift.
var chapterNameReplacer = strings.NewReplacer(
	"!", "",
	"?", "",
	":", " -",
)

// SanitizeChapterName maps a chapter title to its on-disk form: exclamation
// and question marks are removed and colons become " -".
func SanitizeChapterName(name string) string {
	return chapterNameReplacer.Replace(name)
}

// fileNameReplacer replaces filesystem-unsafe characters with safe
// alternatives for scratch files.
var fileNameReplacer = strings.NewReplacer(
	"/", "-",
	"\\", "-",
	":", "-",
	"*", "-",
	"?", "",
	"\"", "",
	"<", "",
	">", "",
	"|", "",
)

// SanitizeFileName replaces filesystem-unsafe characters in a filename.
// Slashes, backslashes, colons, and asterisks become dashes; other unsafe
// characters are removed. The result is trimmed of surrounding whitespace.
func SanitizeFileName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	return strings.TrimSpace(fileNameReplacer.Replace(name))
}
