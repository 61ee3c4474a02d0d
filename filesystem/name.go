package filesystem

import (
	"fmt"
	"strings"
)

const (
	// Separator delimits path segments
	Separator = "/"
	// RootName is the name of every tree's root and is never a valid child name
	RootName = "/"

	// DefaultMaxNameLen is the maximum byte length of a canonical name
	DefaultMaxNameLen = 64
)

// NormalizeName reduces a raw name into its canonical component.
// The root name "/" is returned unchanged. Otherwise leading and trailing
// separators are dropped and runs of separators collapse to one, so
// "//a//b/" becomes "a/b". An empty result or one longer than maxLen bytes
// fails with ErrInvalidName. maxLen <= 0 disables the length check.
func NormalizeName(raw string, maxLen int) (string, error) {
	if raw == RootName {
		return RootName, nil
	}

	var b strings.Builder
	b.Grow(len(raw))
	lastSep := false
	trimmed := strings.TrimLeft(raw, Separator)
	for i := 0; i < len(trimmed); i++ {
		isSep := trimmed[i] == '/'
		if isSep && lastSep {
			continue
		}
		lastSep = isSep
		b.WriteByte(trimmed[i])
	}
	name := strings.TrimRight(b.String(), Separator)

	if name == "" {
		return "", fmt.Errorf("%w: %q is empty after normalization", ErrInvalidName, raw)
	}
	if maxLen > 0 && len(name) > maxLen {
		return "", fmt.Errorf("%w: %q exceeds %d bytes", ErrInvalidName, raw, maxLen)
	}
	return name, nil
}
