// Package fileutil provides small file copy helpers used when flushing
// merged chapters into the library.
package fileutil

import (
	"io"
	"os"
)

// CopyFile streams src to dst with default permissions (0o644). The write is
// truncating, so re-running a merge over an existing library file replaces it
// byte for byte.
func CopyFile(src, dst string) error {
	return CopyFileMode(src, dst, 0o644)
}

// CopyFileMode streams src to dst, setting the given file mode on dst.
func CopyFileMode(src, dst string, mode os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
