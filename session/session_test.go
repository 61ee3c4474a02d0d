package session

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/brettbedarf/nstree"
	"github.com/brettbedarf/nstree/config"
	"github.com/brettbedarf/nstree/filesystem"
	"github.com/brettbedarf/nstree/internal/util"
	"github.com/brettbedarf/nstree/requests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(entries []filesystem.Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Name)
	}
	return out
}

func render(t *testing.T, s *Session, start filesystem.NodeID) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, filesystem.RenderTree(&buf, s.Tree(), start, nil))
	return buf.String()
}

func TestNew(t *testing.T) {
	t.Parallel()

	s := New(nil)

	assert.Equal(t, s.Tree().Root(), s.Cwd())
	assert.Equal(t, "/", s.Pwd())
	assert.False(t, s.Verbose())
	assert.Empty(t, s.Ls())
	assert.Equal(t, config.NewDefaultConfig(), s.Config())
}

func TestNew_FromConfig(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig(&config.ConfigOverride{
		Verbose:    util.Pointer(true),
		MaxNameLen: util.Pointer(4),
	})
	s := New(cfg)

	assert.True(t, s.Verbose())
	assert.Equal(t, 4, s.Tree().MaxNameLen())
	_, err := s.Mkdir("toolong")
	assert.ErrorIs(t, err, filesystem.ErrInvalidName)
}

func TestSession_DocsNotesScenario(t *testing.T) {
	t.Parallel()

	s := New(nil)
	_, err := s.Mkdir("docs")
	require.NoError(t, err)
	require.NoError(t, s.Cd("docs"))
	_, err = s.Create("notes")
	require.NoError(t, err)
	assert.Equal(t, "/docs", s.Pwd())
	require.NoError(t, s.Cd(".."))

	assert.Equal(t, "/", s.Pwd())
	assert.Equal(t, ".\n└── docs/\n    └── notes\n", render(t, s, s.Cwd()))
}

func TestSession_DoubleMkdir(t *testing.T) {
	t.Parallel()

	s := New(nil)
	_, err := s.Mkdir("a")
	require.NoError(t, err)
	_, err = s.Mkdir("a")

	assert.ErrorIs(t, err, filesystem.ErrAlreadyExists)
	assert.Equal(t, []string{"a"}, names(s.Ls()))
}

func TestSession_EmptyArguments(t *testing.T) {
	t.Parallel()

	s := New(nil)
	_, err := s.Mkdir("")
	assert.ErrorIs(t, err, ErrEmptyArgument)
	_, err = s.Create("")
	assert.ErrorIs(t, err, ErrEmptyArgument)
	assert.ErrorIs(t, s.Rmdir(""), ErrEmptyArgument)
	assert.ErrorIs(t, s.Rm(""), ErrEmptyArgument)
	assert.ErrorIs(t, s.Save(""), ErrEmptyArgument)
	_, err = s.Reload("")
	assert.ErrorIs(t, err, ErrEmptyArgument)
	assert.ErrorIs(t, s.RmSave(""), ErrEmptyArgument)
}

func TestSession_Rmdir(t *testing.T) {
	t.Parallel()

	s := New(nil)
	for _, d := range []string{"empty", "full"} {
		_, err := s.Mkdir(d)
		require.NoError(t, err)
	}
	_, err := s.Create("file")
	require.NoError(t, err)
	require.NoError(t, s.Cd("full"))
	_, err = s.Create("inner")
	require.NoError(t, err)
	require.NoError(t, s.Cd("/"))

	tests := []struct {
		name string
		arg  string
		err  error
	}{
		{"root", "/", filesystem.ErrIsRoot},
		{"missing", "ghost", filesystem.ErrNotFound},
		{"file", "file", filesystem.ErrNotADirectory},
		{"not_empty", "full", filesystem.ErrNotEmpty},
	}
	for _, tt := range tests {
		assert.ErrorIs(t, s.Rmdir(tt.arg), tt.err, tt.name)
	}
	assert.Equal(t, []string{"empty", "full", "file"}, names(s.Ls()))

	require.NoError(t, s.Rmdir("empty"))
	assert.Equal(t, []string{"full", "file"}, names(s.Ls()))
}

func TestSession_Rm(t *testing.T) {
	t.Parallel()

	s := New(nil)
	_, err := s.Mkdir("dir")
	require.NoError(t, err)
	_, err = s.Create("file")
	require.NoError(t, err)

	assert.ErrorIs(t, s.Rm("dir"), filesystem.ErrNotAFile)
	assert.ErrorIs(t, s.Rm("ghost"), filesystem.ErrNotFound)
	require.NoError(t, s.Rm("//file/"))
	assert.Equal(t, []string{"dir"}, names(s.Ls()))
}

func TestSession_Cd(t *testing.T) {
	t.Parallel()

	s := New(nil)
	_, err := s.AddDirNode(&nstree.DirCreateRequest{NodeRequest: nstree.NodeRequest{Path: "a/b/c"}})
	require.NoError(t, err)
	_, err = s.AddFileNode(&nstree.FileCreateRequest{NodeRequest: nstree.NodeRequest{Path: "a/f"}})
	require.NoError(t, err)

	require.NoError(t, s.Cd("a/b"))
	assert.Equal(t, "/a/b", s.Pwd())
	require.NoError(t, s.Cd("../b/c"))
	assert.Equal(t, "/a/b/c", s.Pwd())
	require.NoError(t, s.Cd("/a"))
	assert.Equal(t, "/a", s.Pwd())

	assert.ErrorIs(t, s.Cd("f"), filesystem.ErrNotFound)
	assert.ErrorIs(t, s.Cd("ghost"), filesystem.ErrNotFound)
	assert.Equal(t, "/a", s.Pwd(), "failed cd must not move")

	require.NoError(t, s.Cd(""))
	assert.Equal(t, "/", s.Pwd())
	require.NoError(t, s.Cd(".."))
	assert.Equal(t, "/", s.Pwd(), "parent of root is root")
}

func TestSession_TreeStart(t *testing.T) {
	t.Parallel()

	s := New(nil)
	_, err := s.AddDirNode(&nstree.DirCreateRequest{NodeRequest: nstree.NodeRequest{Path: "a/b"}})
	require.NoError(t, err)
	require.NoError(t, s.Cd("a"))

	id, err := s.TreeStart("")
	require.NoError(t, err)
	assert.Equal(t, s.Cwd(), id)

	id, err = s.TreeStart("b")
	require.NoError(t, err)
	assert.Equal(t, "└── b/\n", render(t, s, id))

	_, err = s.TreeStart("..")
	assert.ErrorIs(t, err, filesystem.ErrNotFound, "tree paths do not climb")
}

func TestSession_SaveReload(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "fs.txt")
	s := New(nil)
	for _, p := range []string{"src/cmd", "docs"} {
		_, err := s.AddDirNode(&nstree.DirCreateRequest{NodeRequest: nstree.NodeRequest{Path: p}})
		require.NoError(t, err)
	}
	_, err := s.AddFileNode(&nstree.FileCreateRequest{NodeRequest: nstree.NodeRequest{Path: "src/cmd/main"}})
	require.NoError(t, err)
	_, err = s.Create("readme")
	require.NoError(t, err)
	before := s.Ls()
	drawing := render(t, s, s.Tree().Root())
	oldTree := s.Tree()
	require.NoError(t, s.Cd("src/cmd"))

	require.NoError(t, s.Save(file))
	report, err := s.Reload(file)

	require.NoError(t, err)
	assert.False(t, report.Empty)
	assert.Equal(t, 6, report.Entries)
	assert.Equal(t, "/", s.Pwd(), "reload moves to the new root")
	assert.Equal(t, before, s.Ls())
	assert.Equal(t, drawing, render(t, s, s.Cwd()))
	assert.NotEqual(t, oldTree.ID(), s.Tree().ID())
	assert.Zero(t, oldTree.Len(), "old tree is disposed")
}

func TestSession_SaveOpenFailure(t *testing.T) {
	t.Parallel()

	err := New(nil).Save(filepath.Join(t.TempDir(), "missing", "fs.txt"))

	assert.ErrorIs(t, err, ErrOpenFile)
	assert.ErrorIs(t, err, filesystem.ErrIO)
}

func TestSession_ReloadOpenFailureKeepsTree(t *testing.T) {
	t.Parallel()

	s := New(nil)
	_, err := s.Mkdir("keep")
	require.NoError(t, err)
	require.NoError(t, s.Cd("keep"))
	tree := s.Tree()

	_, err = s.Reload(filepath.Join(t.TempDir(), "nope"))

	assert.ErrorIs(t, err, ErrOpenFile)
	assert.Same(t, tree, s.Tree())
	assert.Equal(t, "/keep", s.Pwd())
}

func TestSession_ReloadOddIndentation(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "bad.txt")
	require.NoError(t, os.WriteFile(file, []byte("/ 1\n  a 1\n   b 0\n"), 0o644))
	s := New(nil)
	_, err := s.Mkdir("old")
	require.NoError(t, err)

	_, err = s.Reload(file)

	assert.ErrorIs(t, err, filesystem.ErrInvalidIndentation)
	assert.Empty(t, s.Ls())
	assert.Equal(t, 1, s.Tree().Len())
	assert.Equal(t, "/", s.Pwd())
}

func TestSession_ReloadNoEntries(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "empty.txt")
	require.NoError(t, os.WriteFile(file, []byte("garbage\n"), 0o644))
	s := New(nil)
	_, err := s.Mkdir("old")
	require.NoError(t, err)

	report, err := s.Reload(file)

	require.NoError(t, err)
	assert.True(t, report.Empty)
	require.Len(t, report.LineErrors, 1)
	assert.Empty(t, s.Ls())
}

func TestSession_RmSave(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "fs.txt")
	s := New(nil)

	assert.ErrorIs(t, s.RmSave(file), filesystem.ErrNotFound)

	require.NoError(t, s.Save(file))
	require.NoError(t, s.RmSave(file))
	_, err := os.Stat(file)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSession_SetVerbose(t *testing.T) {
	t.Parallel()

	s := New(nil)
	s.SetVerbose(true)
	assert.True(t, s.Verbose())
	s.SetVerbose(false)
	assert.False(t, s.Verbose())
}

func TestSession_NodeInfo(t *testing.T) {
	t.Parallel()

	s := New(nil)
	info, err := s.AddFileNode(&nstree.FileCreateRequest{NodeRequest: nstree.NodeRequest{Path: "/x/y/z"}})
	require.NoError(t, err)

	assert.Equal(t, "z", info.Name())
	assert.Equal(t, "/x/y/z", info.Path())
	assert.False(t, info.IsDir())
	assert.NotZero(t, info.NodeID())

	root := s.Root()
	assert.Equal(t, "/", root.Name())
	assert.Equal(t, "/", root.Path())
	assert.True(t, root.IsDir())
	assert.Equal(t, uint64(filesystem.RootID), root.NodeID())

	_, err = s.AddFileNode(&nstree.FileCreateRequest{NodeRequest: nstree.NodeRequest{Path: "x/y/z"}})
	assert.ErrorIs(t, err, filesystem.ErrAlreadyExists)
	_, err = s.AddDirNode(&nstree.DirCreateRequest{NodeRequest: nstree.NodeRequest{Path: "x/y/z/w"}})
	assert.ErrorIs(t, err, filesystem.ErrNotADirectory)
}

func TestSession_ApplyNodeDefinitions(t *testing.T) {
	t.Parallel()

	set, err := requests.ParseNodes([]byte(`[
		{"type": "file", "path": "docs/notes"},
		{"type": "dir", "path": "docs"},
		{"type": "dir", "path": "src/cmd"},
		{"type": "file", "path": "docs/notes"}
	]`))
	require.NoError(t, err)
	s := New(nil)

	res := requests.Apply(s, set)

	assert.Equal(t, requests.ApplyResult{Dirs: 2, Files: 1, Failed: 1}, res)
	assert.Equal(t, []string{"docs", "src"}, names(s.Ls()))
	assert.Equal(t, ".\n├── docs/\n│   └── notes\n└── src/\n    └── cmd/\n", render(t, s, s.Cwd()))
}

func TestSession_Close(t *testing.T) {
	t.Parallel()

	s := New(nil)
	_, err := s.Mkdir("a")
	require.NoError(t, err)
	tree := s.Tree()

	s.Close()

	assert.Zero(t, tree.Len())
	assert.Equal(t, filesystem.InvalidID, s.Cwd())
}
