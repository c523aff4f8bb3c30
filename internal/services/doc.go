// Package services defines the shared error taxonomy for sonus stages.
//
// Stage code wraps failures with one of the sentinel markers so callers can
// classify them with errors.Is without inspecting message text. Metadata and
// tool failures are fatal to the whole run: sonus never leaves a partially
// populated book directory behind and calls it done.
package services
