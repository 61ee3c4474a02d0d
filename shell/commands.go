package shell

import (
	"errors"
	"strings"

	"github.com/brettbedarf/nstree/filesystem"
	"github.com/brettbedarf/nstree/session"
)

var menuEntries = []struct{ usage, help string }{
	{"menu", "print out all commands"},
	{"verbose [on|off]", "turn on/off verbose mode"},
	{"mkdir pathname", "create an empty directory"},
	{"rmdir pathname", "remove an empty directory"},
	{"cd [pathname]", "change directory"},
	{"ls", "list files and directories in the working directory"},
	{"tree [pathname]", "print out the file system tree from the specified path or current directory"},
	{"pwd", "print working directory"},
	{"create pathname", "create a file"},
	{"rm pathname", "remove a file"},
	{"save [pathname]", "save the file system structure into a file"},
	{"reload [pathname]", "reload the file system structure from a file"},
	{"rmsave [pathname]", "remove a saved file system file"},
	{"quit", "exit the program (prompts to save file system)"},
}

func (sh *Shell) menu() {
	for _, e := range menuEntries {
		sh.printf("%s\n        %s\n", e.usage, e.help)
	}
}

func (sh *Shell) verbose(arg string) {
	switch arg {
	case "":
		sh.errorf("Error: Specify 'on' or 'off'.\n")
	case "on":
		sh.sess.SetVerbose(true)
		sh.printf("Verbose mode enabled.\n")
	case "off":
		sh.sess.SetVerbose(false)
		sh.printf("Verbose mode disabled.\n")
	default:
		sh.errorf("Error: Invalid argument. Use 'on' or 'off'.\n")
	}
}

func (sh *Shell) pwd() {
	sh.verbosef("Current directory: ")
	sh.printf("%s\n", sh.sess.Pwd())
}

// nodeName returns the canonical name of a node in the current tree
func (sh *Shell) nodeName(id filesystem.NodeID) string {
	if n, ok := sh.sess.Tree().Node(id); ok {
		return n.Name()
	}
	return ""
}

func (sh *Shell) mkdir(name string) {
	id, err := sh.sess.Mkdir(name)
	switch {
	case err == nil:
		sh.verbosef("Created directory: %s\n", sh.nodeName(id))
	case errors.Is(err, session.ErrEmptyArgument):
		sh.errorf("Error: Directory name is empty.\n")
	case errors.Is(err, filesystem.ErrAlreadyExists):
		sh.errorf("Directory already exists.\n")
	case errors.Is(err, filesystem.ErrInvalidName):
		sh.errorf("Invalid name: %s\n", name)
	default:
		sh.errorf("Error: %v\n", err)
	}
}

func (sh *Shell) create(name string) {
	id, err := sh.sess.Create(name)
	switch {
	case err == nil:
		sh.verbosef("Created file: %s\n", sh.nodeName(id))
	case errors.Is(err, session.ErrEmptyArgument):
		sh.errorf("Error: File name is empty.\n")
	case errors.Is(err, filesystem.ErrAlreadyExists):
		sh.errorf("File already exists.\n")
	case errors.Is(err, filesystem.ErrInvalidName):
		sh.errorf("Invalid name: %s\n", name)
	default:
		sh.errorf("Error: %v\n", err)
	}
}

func (sh *Shell) rmdir(name string) {
	err := sh.sess.Rmdir(name)
	switch {
	case err == nil:
		sh.verbosef("Removed directory: %s\n", name)
	case errors.Is(err, session.ErrEmptyArgument):
		sh.errorf("Error: Directory name is empty.\n")
	case errors.Is(err, filesystem.ErrIsRoot):
		sh.errorf("Error: Cannot remove root directory.\n")
	case errors.Is(err, filesystem.ErrNotFound), errors.Is(err, filesystem.ErrInvalidName):
		sh.errorf("No such directory.\n")
	case errors.Is(err, filesystem.ErrNotADirectory):
		sh.errorf("Error: %s is not a directory.\n", name)
	case errors.Is(err, filesystem.ErrNotEmpty):
		sh.errorf("Error: Directory %s is not empty.\n", name)
	case errors.Is(err, filesystem.ErrIsCurrentDirectory):
		sh.errorf("Error: Cannot remove current working directory.\n")
	default:
		sh.errorf("Error: %v\n", err)
	}
}

func (sh *Shell) rm(name string) {
	err := sh.sess.Rm(name)
	switch {
	case err == nil:
		sh.verbosef("Removed file: %s\n", name)
	case errors.Is(err, session.ErrEmptyArgument):
		sh.errorf("Error: File name is empty.\n")
	case errors.Is(err, filesystem.ErrNotFound), errors.Is(err, filesystem.ErrInvalidName):
		sh.errorf("No such file.\n")
	case errors.Is(err, filesystem.ErrNotAFile), errors.Is(err, filesystem.ErrIsRoot):
		sh.errorf("Error: %s is a directory.\n", name)
	default:
		sh.errorf("Error: %v\n", err)
	}
}

func (sh *Shell) ls() {
	entries := sh.sess.Ls()
	if len(entries) == 0 {
		sh.verbosef("Directory is empty.\n")
		return
	}
	sh.verbosef("Listing contents of current directory:\n")
	for _, e := range entries {
		sh.printf("%s\n", sh.label(e))
	}
}

// label renders an entry the way listings and tree drawings show it
func (sh *Shell) label(e filesystem.Entry) string {
	text := filesystem.DefaultLabel(e)
	if e.IsDir {
		return sh.styles.Dir(text)
	}
	return text
}

func (sh *Shell) cd(path string) {
	tree := sh.sess.Tree()
	from := sh.sess.Cwd()
	if err := sh.sess.Cd(path); err != nil {
		sh.errorf("No such directory: %s.\n", path)
		return
	}
	switch {
	case path == "":
		if from != tree.Root() {
			sh.verbosef("Changed to root directory\n")
		}
	case path == filesystem.ParentSegment:
		if from == tree.Root() {
			sh.verbosef("Already at root directory\n")
		} else {
			sh.verbosef("Changed to parent directory\n")
		}
	default:
		// one message per segment walked
		for _, seg := range strings.Split(path, filesystem.Separator) {
			switch seg {
			case "":
			case filesystem.ParentSegment:
				sh.verbosef("Changed to parent directory\n")
			default:
				sh.verbosef("Changed to directory: %s\n", seg)
			}
		}
	}
}

func (sh *Shell) tree(path string) {
	start, err := sh.sess.TreeStart(path)
	if err != nil {
		sh.errorf("No such directory: %s.\n", path)
		return
	}
	sh.verbosef("Displaying file system tree:\n")
	if err := filesystem.RenderTree(sh.out, sh.sess.Tree(), start, sh.label); err != nil {
		sh.logger.Error().Err(err).Msg("Failed to draw tree")
	}
}

func (sh *Shell) save(filename string) {
	err := sh.sess.Save(filename)
	switch {
	case err == nil:
		if sh.sess.Verbose() {
			sh.printf("Saved file system to: %s\n", filename)
		} else {
			sh.printf("File system saved to %s.\n", filename)
		}
	case errors.Is(err, session.ErrEmptyArgument):
		sh.errorf("Error: Filename is empty.\n")
	case errors.Is(err, session.ErrOpenFile):
		sh.errorf("Error: Could not open file %s.\n", filename)
	default:
		sh.logger.Warn().Str("file", filename).Err(err).Msg("Save failed")
		sh.errorf("Error: Could not write file %s.\n", filename)
	}
}

func (sh *Shell) reload(filename string) {
	report, err := sh.sess.Reload(filename)
	switch {
	case errors.Is(err, session.ErrEmptyArgument):
		sh.errorf("Error: Filename is empty.\n")
		return
	case errors.Is(err, session.ErrOpenFile):
		sh.errorf("Error: Could not open file %s.\n", filename)
		return
	}

	for _, le := range report.LineErrors {
		sh.errorf("Error at line %d: %s\n", le.Line, lineMessage(le))
	}
	if err != nil {
		var le *filesystem.LineError
		if errors.As(err, &le) {
			sh.errorf("Error at line %d: %s\n", le.Line, lineMessage(le))
		} else {
			sh.errorf("Error: Could not read file %s.\n", filename)
		}
		return
	}

	switch {
	case report.Empty && sh.sess.Verbose():
		sh.printf("reload: No valid entries found, using default /\n")
	case sh.sess.Verbose():
		sh.printf("Reloaded file system from: %s\n", filename)
	default:
		sh.printf("File system reloaded from %s.\n", filename)
	}
}

// lineMessage describes why a saved tree line was rejected
func lineMessage(le *filesystem.LineError) string {
	switch {
	case errors.Is(le, filesystem.ErrInvalidIndentation):
		return "Invalid indentation: '" + le.Text + "'"
	case errors.Is(le, filesystem.ErrFirstEntryNotDirectory):
		return "First entry must be a directory: '" + le.Text + "'"
	case errors.Is(le, filesystem.ErrStackOverflow):
		return "Stack overflow."
	case errors.Is(le, filesystem.ErrInvalidName):
		return "Invalid name: '" + le.Text + "'"
	case errors.Is(le, filesystem.ErrAlreadyExists):
		return "Duplicate entry: '" + le.Text + "'"
	case errors.Is(le, filesystem.ErrNotADirectory):
		return "Parent is not a directory: '" + le.Text + "'"
	default:
		return "Invalid line format: '" + le.Text + "'"
	}
}

func (sh *Shell) rmsave(filename string) {
	err := sh.sess.RmSave(filename)
	switch {
	case err == nil:
		if sh.sess.Verbose() {
			sh.printf("Removed saved file: %s\n", filename)
		} else {
			sh.printf("File %s removed.\n", filename)
		}
	case errors.Is(err, session.ErrEmptyArgument):
		sh.errorf("Error: Filename is empty.\n")
	case errors.Is(err, filesystem.ErrNotFound):
		sh.errorf("Error: File %s does not exist.\n", filename)
	default:
		sh.errorf("Error: Could not remove file %s.\n", filename)
	}
}
