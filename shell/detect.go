package shell

import (
	"os"

	"golang.org/x/term"
)

// ColorEnabled reports whether styled output should be written to out.
//
// Returns false if:
//   - out is not a terminal (piped output, files)
//   - NO_COLOR is set
//   - CI is set
func ColorEnabled(out *os.File) bool {
	if os.Getenv("NO_COLOR") != "" || os.Getenv("CI") != "" {
		return false
	}
	return term.IsTerminal(int(out.Fd()))
}
