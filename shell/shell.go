// Package shell is the line-oriented command interpreter driving a Session.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/brettbedarf/nstree/internal/util"
	"github.com/brettbedarf/nstree/session"
)

// maxLineLen caps a single input line; longer lines are rejected whole
const maxLineLen = 64 * 1024

// Shell reads one command per line from its input and writes results to its output
type Shell struct {
	sess         *session.Session
	in           *bufio.Reader
	readErr      error
	out          io.Writer
	styles       styles
	promptOnExit bool
	logger       util.Logger
}

// Option customizes a Shell created by New
type Option func(*Shell)

// WithColor styles directory names, the prompt and errors
func WithColor(enabled bool) Option {
	return func(sh *Shell) {
		sh.styles = newStyles(sh.out, enabled)
	}
}

// WithSavePrompt controls whether quit/exit asks to save first
func WithSavePrompt(enabled bool) Option {
	return func(sh *Shell) {
		sh.promptOnExit = enabled
	}
}

// New creates a shell over sess. Color is off and the save prompt on unless
// changed by opts.
func New(sess *session.Session, in io.Reader, out io.Writer, opts ...Option) *Shell {
	sh := &Shell{
		sess:         sess,
		in:           bufio.NewReader(in),
		out:          out,
		promptOnExit: true,
		logger:       util.GetLogger("Shell").With().Str("session", sess.ID().String()).Logger(),
	}
	for _, opt := range opts {
		opt(sh)
	}
	return sh
}

// Run prompts for and executes commands until quit/exit, end of input or
// cancellation of ctx, which is checked between commands. Only a
// cancellation or a read failure is returned as an error.
func (sh *Shell) Run(ctx context.Context) error {
	sh.logger.Debug().Msg("Starting shell")
	for {
		if err := ctx.Err(); err != nil {
			sh.logger.Debug().Err(err).Msg("Shell cancelled")
			return err
		}
		fmt.Fprint(sh.out, sh.styles.Prompt(sh.sess.Pwd()+"$ "))
		line, overlong, ok := sh.readLine()
		if !ok {
			sh.logger.Debug().Err(sh.readErr).Msg("End of input")
			return sh.readErr
		}
		if overlong {
			sh.errorf("Error: Command line too long.\n")
			continue
		}
		if line == "" {
			continue
		}
		if quit := sh.Execute(line); quit {
			sh.logger.Debug().Msg("Shell quit")
			return nil
		}
	}
}

// readLine returns false at end of input or on a read failure, which is kept
// in readErr
func (sh *Shell) readLine() (line string, overlong, ok bool) {
	line, overlong, err := util.ReadLine(sh.in, maxLineLen)
	if err != nil {
		if !errors.Is(err, io.EOF) {
			sh.readErr = err
		}
		return "", false, false
	}
	return line, overlong, true
}

// splitCommand returns the first whitespace-separated token and the trimmed rest
func splitCommand(line string) (cmd, arg string) {
	line = strings.TrimSpace(line)
	idx := strings.IndexAny(line, " \t")
	if idx < 0 {
		return line, ""
	}
	return line[:idx], strings.TrimSpace(line[idx+1:])
}

// Execute runs one command line and reports whether the shell should stop
func (sh *Shell) Execute(line string) bool {
	cmd, arg := splitCommand(line)
	if cmd == "" {
		return false
	}
	sh.logger.Debug().Str("cmd", cmd).Str("arg", arg).Msg("Executing command")
	if sh.sess.Verbose() && cmd != "verbose" {
		sh.printf("Executing command: %s %s\n", cmd, arg)
	}

	switch cmd {
	case "menu":
		sh.menu()
	case "verbose":
		sh.verbose(arg)
	case "pwd":
		sh.pwd()
	case "mkdir":
		sh.mkdir(arg)
	case "rmdir":
		sh.rmdir(arg)
	case "create":
		sh.create(arg)
	case "rm":
		sh.rm(arg)
	case "ls":
		sh.ls()
	case "cd":
		sh.cd(arg)
	case "tree":
		sh.tree(arg)
	case "save":
		sh.save(arg)
	case "reload":
		sh.reload(arg)
	case "rmsave":
		sh.rmsave(arg)
	case "quit", "exit":
		sh.verbosef("Preparing to exit.\n")
		if sh.promptOnExit {
			sh.askToSave()
		}
		sh.verbosef("Exiting program.\n")
		return true
	default:
		sh.errorf("Unknown command: %s\n", cmd)
	}
	return false
}

// askToSave runs the save-on-exit dialogue. Empty input or end of input exits
// without saving.
func (sh *Shell) askToSave() {
	for {
		sh.printf("Would you like to save the file system before exiting? (y/n): ")
		resp, overlong, ok := sh.readLine()
		if !ok {
			sh.errorf("Error: Invalid input. Exiting without saving.\n")
			return
		}
		if overlong {
			sh.errorf("Error: Invalid input. Please enter 'y' or 'n'.\n")
			continue
		}
		resp = strings.TrimSpace(resp)
		if resp == "" {
			sh.errorf("Error: Empty input. Exiting without saving.\n")
			return
		}

		switch strings.ToLower(resp[:1]) {
		case "y":
			sh.printf("Enter filename to save: ")
			filename, overlong, ok := sh.readLine()
			if !ok || overlong {
				sh.errorf("Error: Invalid filename. Exiting without saving.\n")
				return
			}
			if filename = strings.TrimSpace(filename); filename == "" {
				sh.errorf("Error: Empty filename. Exiting without saving.\n")
				return
			}
			sh.save(filename)
			return
		case "n":
			sh.verbosef("Exiting without saving.\n")
			return
		default:
			sh.errorf("Error: Invalid input. Please enter 'y' or 'n'.\n")
		}
	}
}

func (sh *Shell) printf(format string, args ...any) {
	fmt.Fprintf(sh.out, format, args...)
}

// verbosef prints only in verbose mode
func (sh *Shell) verbosef(format string, args ...any) {
	if sh.sess.Verbose() {
		sh.printf(format, args...)
	}
}

func (sh *Shell) errorf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprint(sh.out, sh.styles.Error(strings.TrimSuffix(msg, "\n"))+"\n")
}
