package dataset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/text/unicode/norm"
)

// ErrFileNotFound is returned when no directory entry matches the target
// name under any tested Unicode normalization form.
var ErrFileNotFound = errors.New("file not found")

// Resolve looks up target in dir, tolerating filesystem entries whose
// Unicode encoding form differs from the literal used in code. macOS (HFS+,
// some APFS paths) stores Korean filenames decomposed (NFD) while source
// literals are composed (NFC); byte comparison misses those entries.
//
// The target is normalized to both NFC and NFD; each entry name is
// normalized to NFC and compared against both forms. The first matching
// entry wins; if no entry matches, a wrapped ErrFileNotFound is returned.
func Resolve(dir, target string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("read dir %s: %w", dir, err)
	}

	targetNFC := norm.NFC.String(target)
	targetNFD := norm.NFD.String(target)

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if norm.NFC.String(name) == targetNFC || norm.NFD.String(name) == targetNFD {
			return filepath.Join(dir, entry.Name()), nil
		}
	}

	return "", fmt.Errorf("%w: %s in %s", ErrFileNotFound, target, dir)
}
