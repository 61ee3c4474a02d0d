package filesystem

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/brettbedarf/nstree/internal/util"
)

// Saved tree format: one line per node in pre-order,
//
//	<2 spaces per depth><name> <0|1>
//
// where 1 marks a directory. Names are not escaped.
const (
	indentUnit = "  "
	flagFile   = "0"
	flagDir    = "1"

	// DefaultMaxDepth bounds the ancestor stack while decoding
	DefaultMaxDepth = 1024

	maxLineLen = 64 * 1024
	// bytes of an overlong line kept in its LineError
	overlongQuote = 40
)

// Encode writes the whole tree from its root in the saved tree format
func Encode(w io.Writer, t *Tree) error {
	bw := bufio.NewWriter(w)
	err := t.Walk(RootID, func(n *Node, depth int) error {
		flag := flagFile
		if n.isDir {
			flag = flagDir
		}
		_, err := fmt.Fprintf(bw, "%s%s %s\n", strings.Repeat(indentUnit, depth), n.name, flag)
		return err
	})
	if err == nil {
		err = bw.Flush()
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	return nil
}

// DecodeOptions bounds the trees Decode will build. Zero values use defaults.
type DecodeOptions struct {
	MaxDepth   int // Max nesting (Default 1024)
	MaxNameLen int // Max canonical name length (Default 64)
}

// DecodeReport describes a completed decode
type DecodeReport struct {
	Entries    int          // Nodes built, including the root
	Empty      bool         // No valid entries; a fresh root-only tree was returned
	LineErrors []*LineError // Lines that were skipped
}

func (r *DecodeReport) skip(line int, text string, err error) {
	r.LineErrors = append(r.LineErrors, &LineError{Line: line, Text: text, Err: err})
}

// Decode rebuilds a tree from the saved tree format.
//
// Malformed or overlong lines, invalid names and entries that cannot be
// attached are skipped and recorded in the report. Odd indentation, a first entry that is
// not a directory, nesting beyond MaxDepth and read failures are fatal: Decode
// then returns a fresh root-only tree together with the error. Input without
// a single valid entry also yields a fresh root-only tree, with Empty set.
func Decode(r io.Reader, opts DecodeOptions) (*Tree, *DecodeReport, error) {
	logger := util.GetLogger("Decode")
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	if opts.MaxNameLen <= 0 {
		opts.MaxNameLen = DefaultMaxNameLen
	}

	t := NewTree(WithMaxNameLen(opts.MaxNameLen))
	report := &DecodeReport{}
	fallback := func(err error) (*Tree, *DecodeReport, error) {
		logger.Debug().Err(err).Msg("Aborting decode")
		t.Dispose()
		return NewTree(WithMaxNameLen(opts.MaxNameLen)), report, err
	}

	// stack[i] is the most recent node at level i; the root sits at 0
	var stack []NodeID
	lineNo := 0
	br := bufio.NewReader(r)
	for {
		raw, overlong, err := util.ReadLine(br, maxLineLen)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fallback(fmt.Errorf("%w: %w", ErrIO, err))
		}
		lineNo++
		if overlong {
			quote := strings.TrimSpace(raw[:overlongQuote]) + "..."
			report.skip(lineNo, quote, fmt.Errorf("%w: line longer than %d bytes", ErrInvalidLineFormat, maxLineLen))
			continue
		}
		text := strings.TrimSpace(raw)
		if text == "" {
			continue
		}
		logger.Trace().Int("line", lineNo).Str("text", text).Msg("Processing line")

		indent := len(raw) - len(strings.TrimLeft(raw, " "))
		if indent%2 != 0 {
			return fallback(&LineError{Line: lineNo, Text: text, Err: ErrInvalidIndentation})
		}

		fields := strings.Fields(text)
		if len(fields) != 2 || (fields[1] != flagFile && fields[1] != flagDir) {
			report.skip(lineNo, text, ErrInvalidLineFormat)
			continue
		}
		isDir := fields[1] == flagDir
		name, err := NormalizeName(fields[0], opts.MaxNameLen)
		if err != nil {
			report.skip(lineNo, text, err)
			continue
		}

		if stack == nil {
			if !isDir {
				return fallback(&LineError{Line: lineNo, Text: text, Err: ErrFirstEntryNotDirectory})
			}
			if name != RootName {
				logger.Warn().Str("name", name).Int("line", lineNo).Msg("Root entry is not named '/'; using '/'")
			}
			stack = append(stack, RootID)
			report.Entries++
			continue
		}

		level := indent / len(indentUnit)
		if level == 0 {
			report.skip(lineNo, text, fmt.Errorf("%w: entry outside the root", ErrInvalidLineFormat))
			continue
		}
		if len(stack) > level {
			stack = stack[:level]
		}
		if len(stack) >= opts.MaxDepth {
			return fallback(&LineError{Line: lineNo, Text: text, Err: ErrStackOverflow})
		}

		parent := stack[len(stack)-1]
		id, err := t.CreateChild(parent, name, isDir)
		merged := false
		if errors.Is(err, ErrAlreadyExists) && isDir {
			// a repeated directory merges into the existing one
			if existing, ok := t.FindChild(parent, name); ok {
				if n, _ := t.Node(existing); n.IsDir() {
					id, err, merged = existing, nil, true
				}
			}
		}
		if err != nil {
			report.skip(lineNo, text, err)
			continue
		}
		stack = append(stack, id)
		if !merged {
			report.Entries++
		}
	}

	if stack == nil {
		report.Empty = true
		logger.Debug().Msg("No valid entries found")
		return t, report, nil
	}
	logger.Debug().Int("entries", report.Entries).Int("skipped", len(report.LineErrors)).Msg("Decoded tree")
	return t, report, nil
}
