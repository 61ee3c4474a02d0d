// Package session holds the state of one interactive simulator run: the tree,
// the current directory and the verbose toggle.
package session

import (
	"errors"
	"fmt"
	"os"

	"github.com/brettbedarf/nstree"
	"github.com/brettbedarf/nstree/config"
	"github.com/brettbedarf/nstree/filesystem"
	"github.com/brettbedarf/nstree/internal/util"
	"github.com/google/uuid"
)

var (
	// ErrEmptyArgument rejects empty names and filenames
	ErrEmptyArgument = errors.New("empty argument")
	// ErrOpenFile marks a saved tree file that could not be opened
	ErrOpenFile = errors.New("could not open file")
)

// Session owns exactly one tree and a current directory inside it.
// It is not safe for concurrent use.
type Session struct {
	id      uuid.UUID
	cfg     *config.Config
	tree    *filesystem.Tree
	cwd     filesystem.NodeID // always a live directory of tree
	verbose bool
	logger  util.Logger
}

var _ nstree.TreeOperator = (*Session)(nil)

// New creates a session with a root-only tree. A nil cfg uses defaults.
func New(cfg *config.Config) *Session {
	if cfg == nil {
		cfg = config.NewDefaultConfig()
	}
	s := &Session{
		id:      uuid.New(),
		cfg:     cfg,
		verbose: cfg.Verbose,
	}
	s.logger = util.GetLogger("Session").With().Str("session", s.id.String()).Logger()
	s.tree = filesystem.NewTree(filesystem.WithMaxNameLen(cfg.MaxNameLen))
	s.cwd = s.tree.Root()
	s.logger.Debug().Str("tree", s.tree.ID().String()).Msg("Created session")
	return s
}

// ID returns the session's unique identity
func (s *Session) ID() uuid.UUID {
	return s.id
}

// Config returns the configuration the session was created with
func (s *Session) Config() *config.Config {
	return s.cfg
}

// Tree returns the current tree. It changes after Reload.
func (s *Session) Tree() *filesystem.Tree {
	return s.tree
}

// Cwd returns the current directory
func (s *Session) Cwd() filesystem.NodeID {
	return s.cwd
}

func (s *Session) Verbose() bool {
	return s.verbose
}

func (s *Session) SetVerbose(on bool) {
	s.verbose = on
	s.logger.Debug().Bool("verbose", on).Msg("Set verbose")
}

// Mkdir creates a directory named name in the current directory
func (s *Session) Mkdir(name string) (filesystem.NodeID, error) {
	return s.create(name, true)
}

// Create creates a file named name in the current directory
func (s *Session) Create(name string) (filesystem.NodeID, error) {
	return s.create(name, false)
}

func (s *Session) create(name string, isDir bool) (filesystem.NodeID, error) {
	if name == "" {
		return filesystem.InvalidID, ErrEmptyArgument
	}
	id, err := s.tree.CreateChild(s.cwd, name, isDir)
	if err != nil {
		s.logger.Debug().Str("name", name).Bool("dir", isDir).Err(err).Msg("Create failed")
		return filesystem.InvalidID, err
	}
	return id, nil
}

// Rmdir removes the empty directory name from the current directory
func (s *Session) Rmdir(name string) error {
	return s.remove(name, filesystem.KindDir)
}

// Rm removes the file name from the current directory
func (s *Session) Rm(name string) error {
	return s.remove(name, filesystem.KindFile)
}

func (s *Session) remove(name string, kind filesystem.Kind) error {
	if name == "" {
		return ErrEmptyArgument
	}
	if err := s.tree.RemoveChild(s.cwd, name, kind, s.cwd); err != nil {
		s.logger.Debug().Str("name", name).Str("kind", kind.String()).Err(err).Msg("Remove failed")
		return err
	}
	return nil
}

// Ls lists the current directory in insertion order
func (s *Session) Ls() []filesystem.Entry {
	return s.tree.List(s.cwd)
}

// Cd changes the current directory. An empty path returns to the root and
// ".." segments move up. On error the current directory is unchanged.
func (s *Session) Cd(path string) error {
	if path == "" {
		s.cwd = s.tree.Root()
		return nil
	}
	id, err := s.tree.Navigate(s.cwd, path)
	if err != nil {
		return err
	}
	s.cwd = id
	return nil
}

// Pwd returns the absolute path of the current directory
func (s *Session) Pwd() string {
	p, err := s.tree.Path(s.cwd)
	if err != nil {
		// cwd is kept live; reaching this means the tree was corrupted
		s.logger.Error().Err(err).Msg("Current directory is not in the tree")
		return filesystem.RootName
	}
	return p
}

// TreeStart picks the directory a tree drawing starts from: the current
// directory for an empty path, otherwise path resolved from it.
func (s *Session) TreeStart(path string) (filesystem.NodeID, error) {
	if path == "" {
		return s.cwd, nil
	}
	return s.tree.Resolve(s.cwd, path)
}

// Save writes the whole tree to filename, replacing any existing file
func (s *Session) Save(filename string) (err error) {
	if filename == "" {
		return ErrEmptyArgument
	}
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("%w: %w: %w", filesystem.ErrIO, ErrOpenFile, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: %w", filesystem.ErrIO, cerr)
		}
	}()

	if err = filesystem.Encode(f, s.tree); err != nil {
		return err
	}
	s.logger.Debug().Str("file", filename).Int("nodes", s.tree.Len()).Msg("Saved tree")
	return nil
}

// Reload replaces the tree with the one saved in filename and moves to its
// root. If the file cannot be opened nothing changes. A fatal decode error
// still replaces the tree, with a root-only one, and is returned.
func (s *Session) Reload(filename string) (*filesystem.DecodeReport, error) {
	if filename == "" {
		return nil, ErrEmptyArgument
	}
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("%w: %w: %w", filesystem.ErrIO, ErrOpenFile, err)
	}
	tree, report, decodeErr := filesystem.Decode(f, filesystem.DecodeOptions{
		MaxDepth:   s.cfg.MaxDepth,
		MaxNameLen: s.cfg.MaxNameLen,
	})
	if cerr := f.Close(); cerr != nil {
		s.logger.Warn().Str("file", filename).Err(cerr).Msg("Failed to close saved tree")
	}

	old := s.tree
	s.tree = tree
	s.cwd = tree.Root()
	old.Dispose()

	s.logger.Debug().
		Str("file", filename).
		Str("tree", tree.ID().String()).
		Int("entries", report.Entries).
		Int("skipped", len(report.LineErrors)).
		AnErr("fatal", decodeErr).
		Msg("Reloaded tree")
	return report, decodeErr
}

// RmSave deletes a saved tree file
func (s *Session) RmSave(filename string) error {
	if filename == "" {
		return ErrEmptyArgument
	}
	if _, err := os.Stat(filename); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", filesystem.ErrNotFound, filename)
		}
		return fmt.Errorf("%w: %w", filesystem.ErrIO, err)
	}
	if err := os.Remove(filename); err != nil {
		return fmt.Errorf("%w: %w", filesystem.ErrIO, err)
	}
	s.logger.Debug().Str("file", filename).Msg("Removed saved tree")
	return nil
}

// Close frees the tree. The session must not be used afterwards.
func (s *Session) Close() {
	s.tree.Dispose()
	s.cwd = filesystem.InvalidID
	s.logger.Debug().Msg("Closed session")
}
