// Package organizer resolves the on-disk library layout for finished books.
//
// Both the downloader and the part merger write under
// {output}/{author}/{title}; keeping the layout in one place guarantees they
// agree.
package organizer
