package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMetadata marks missing or malformed embedded tag data. Tag
	// integrity is a precondition for chaptering, so these abort the run.
	ErrMetadata = errors.New("metadata error")
	// ErrToolMissing marks a required external binary that could not be
	// located. Reported once, before any per-chapter work starts.
	ErrToolMissing = errors.New("required tool missing")
	// ErrExtraction marks a failed stream-copy or concat invocation.
	ErrExtraction = errors.New("extraction error")

	ErrValidation    = errors.New("validation error")
	ErrConfiguration = errors.New("configuration error")
	ErrNotFound      = errors.New("not found")
	ErrTransient     = errors.New("transient failure")
)

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Fatal reports whether an error must abort the whole run. Metadata and tool
// errors are never skippable; a partial output directory must not be
// presented as complete.
func Fatal(err error) bool {
	return errors.Is(err, ErrMetadata) ||
		errors.Is(err, ErrToolMissing) ||
		errors.Is(err, ErrExtraction) ||
		errors.Is(err, ErrConfiguration)
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
