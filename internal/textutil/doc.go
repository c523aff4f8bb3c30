// Package textutil provides filename sanitization for chapter output and
// scratch files.
package textutil
