// Package library keeps a local history of borrowed audiobooks in SQLite,
// tracking which loans were downloaded, chapterized and returned.
package library
