//go:build !unix

package byteslice

import "os"

// mapFile reads the whole file at path. Platforms without mmap support get
// an owned copy instead of a mapping.
func mapFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func unmapFile([]byte) error { return nil }
