// Package main hosts the sonus CLI entrypoint and command graph.
//
// The Cobra-based command tree covers the full loan lifecycle: inspecting an
// ODM manifest, acquiring a license and downloading parts, splitting the
// download into per-chapter files, returning the loan early, and browsing
// the local loan history. It centralizes configuration resolution, run
// locking, and structured logging setup so subcommands can focus on user
// experience instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
