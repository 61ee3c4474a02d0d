package filesystem

import (
	"fmt"
	"slices"
	"strings"
	"sync/atomic"

	"github.com/brettbedarf/nstree/internal/util"
	"github.com/google/uuid"
	"github.com/puzpuzpuz/xsync/v4"
)

// Tree is an arena of nodes addressed by NodeID, rooted at a directory named "/".
//
// Lookups through the registry are safe from any goroutine but compound
// mutations are not synchronized: a Tree is driven by one actor at a time.
type Tree struct {
	id      uuid.UUID                 // Identity of this tree instance; logged for correlation
	nodes   *xsync.Map[NodeID, *Node] // Registry of every live node
	lastID  atomic.Uint64             // Last NodeID assigned
	maxName int                       // Max canonical name length in bytes
	logger  util.Logger
}

// TreeOption customizes a Tree created by NewTree
type TreeOption func(*Tree)

// WithMaxNameLen sets the maximum canonical name length; non-positive values are ignored
func WithMaxNameLen(n int) TreeOption {
	return func(t *Tree) {
		if n > 0 {
			t.maxName = n
		}
	}
}

// NewTree creates a tree containing only the root directory
func NewTree(opts ...TreeOption) *Tree {
	t := &Tree{
		id:      uuid.New(),
		nodes:   xsync.NewMap[NodeID, *Node](),
		maxName: DefaultMaxNameLen,
	}
	for _, opt := range opts {
		opt(t)
	}
	t.logger = util.GetLogger("Tree").With().Str("tree", t.id.String()).Logger()

	t.lastID.Store(uint64(RootID))
	t.nodes.Store(RootID, newNode(RootID, RootName, true, InvalidID))
	t.logger.Debug().Msg("Created tree")
	return t
}

// ID returns the tree's unique identity
func (t *Tree) ID() uuid.UUID {
	return t.id
}

// Root returns the root's ID
func (t *Tree) Root() NodeID {
	return RootID
}

// MaxNameLen returns the configured name limit
func (t *Tree) MaxNameLen() int {
	return t.maxName
}

// Len returns the number of live nodes including the root
func (t *Tree) Len() int {
	return t.nodes.Size()
}

// Node returns the live node for id
func (t *Tree) Node(id NodeID) (*Node, bool) {
	return t.nodes.Load(id)
}

// Parent returns the parent of id. The root and unknown IDs return false.
func (t *Tree) Parent(id NodeID) (NodeID, bool) {
	n, ok := t.nodes.Load(id)
	if !ok || n.IsRoot() {
		return InvalidID, false
	}
	return n.parent, true
}

// dirNode loads id and checks that it is a directory
func (t *Tree) dirNode(id NodeID) (*Node, error) {
	n, ok := t.nodes.Load(id)
	if !ok {
		return nil, fmt.Errorf("%w: node %d", ErrNotFound, id)
	}
	if !n.isDir {
		return nil, fmt.Errorf("%w: %s", ErrNotADirectory, n.name)
	}
	return n, nil
}

// findChild scans dir's children in order for an exact canonical match
func (t *Tree) findChild(dir *Node, name string) (int, *Node) {
	t.logger.Trace().Str("dir", dir.name).Str("name", name).Msg("Looking up child")
	for i, cid := range dir.children {
		if child, ok := t.nodes.Load(cid); ok && child.name == name {
			return i, child
		}
	}
	return -1, nil
}

// CreateChild normalizes name and appends a new node under dir.
func (t *Tree) CreateChild(dir NodeID, name string, isDir bool) (NodeID, error) {
	parent, err := t.dirNode(dir)
	if err != nil {
		return InvalidID, err
	}
	canon, err := NormalizeName(name, t.maxName)
	if err != nil {
		return InvalidID, err
	}
	if canon == RootName {
		return InvalidID, fmt.Errorf("%w: %q is reserved for the root", ErrInvalidName, name)
	}
	if _, existing := t.findChild(parent, canon); existing != nil {
		return InvalidID, fmt.Errorf("%w: %s", ErrAlreadyExists, canon)
	}

	id := NodeID(t.lastID.Add(1))
	t.nodes.Store(id, newNode(id, canon, isDir, parent.id))
	parent.children = append(parent.children, id)

	t.logger.Debug().
		Uint64("id", uint64(id)).
		Str("name", canon).
		Bool("dir", isDir).
		Str("parent", parent.name).
		Msg("Inserted child")
	return id, nil
}

// FindChild looks up the child of dir with the canonical form of name
func (t *Tree) FindChild(dir NodeID, name string) (NodeID, bool) {
	parent, err := t.dirNode(dir)
	if err != nil {
		return InvalidID, false
	}
	canon, err := NormalizeName(name, t.maxName)
	if err != nil {
		return InvalidID, false
	}
	if _, child := t.findChild(parent, canon); child != nil {
		return child.id, true
	}
	return InvalidID, false
}

// RemoveChild unlinks and disposes the child of dir named name.
// kind is the type the caller expects to find; directories must be empty and
// neither the root nor cwd may be removed. Remaining siblings keep their order.
func (t *Tree) RemoveChild(dir NodeID, name string, kind Kind, cwd NodeID) error {
	parent, err := t.dirNode(dir)
	if err != nil {
		return err
	}
	canon, err := NormalizeName(name, t.maxName)
	if err != nil {
		return err
	}
	if canon == RootName {
		return ErrIsRoot
	}

	idx, child := t.findChild(parent, canon)
	if child == nil {
		return fmt.Errorf("%w: %s", ErrNotFound, canon)
	}
	switch {
	case kind == KindDir && !child.isDir:
		return fmt.Errorf("%w: %s", ErrNotADirectory, canon)
	case kind == KindFile && child.isDir:
		return fmt.Errorf("%w: %s", ErrNotAFile, canon)
	}
	if child.HasChildren() {
		return fmt.Errorf("%w: %s", ErrNotEmpty, canon)
	}
	if child.id == cwd {
		return fmt.Errorf("%w: %s", ErrIsCurrentDirectory, canon)
	}

	parent.children = slices.Delete(parent.children, idx, idx+1)
	t.nodes.Delete(child.id)
	t.logger.Debug().Str("name", canon).Str("kind", kind.String()).Str("parent", parent.name).Msg("Removed child")
	return nil
}

// DisposeSubtree frees id and all of its descendants, unlinking id from its
// parent. Disposing the root empties the tree entirely. Returns the number of
// nodes freed.
func (t *Tree) DisposeSubtree(id NodeID) int {
	top, ok := t.nodes.Load(id)
	if !ok {
		return 0
	}
	if parent, ok := t.nodes.Load(top.parent); ok {
		if idx := slices.Index(parent.children, id); idx >= 0 {
			parent.children = slices.Delete(parent.children, idx, idx+1)
		}
	}

	freed := 0
	stack := []NodeID{id}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n, ok := t.nodes.LoadAndDelete(cur)
		if !ok {
			continue
		}
		stack = append(stack, n.children...)
		n.children = nil
		freed++
	}
	t.logger.Debug().Uint64("id", uint64(id)).Int("freed", freed).Msg("Disposed subtree")
	return freed
}

// Dispose frees every node in the tree. The tree must not be used afterwards.
func (t *Tree) Dispose() {
	t.DisposeSubtree(RootID)
}

// List returns a snapshot of dir's children in insertion order.
// Files and unknown IDs list as empty.
func (t *Tree) List(dir NodeID) []Entry {
	parent, err := t.dirNode(dir)
	if err != nil {
		return []Entry{}
	}
	entries := make([]Entry, 0, len(parent.children))
	for _, cid := range parent.children {
		if child, ok := t.nodes.Load(cid); ok {
			entries = append(entries, child.Entry())
		}
	}
	return entries
}

// Path returns the absolute path of id; "/" for the root
func (t *Tree) Path(id NodeID) (string, error) {
	n, ok := t.nodes.Load(id)
	if !ok {
		return "", fmt.Errorf("%w: node %d", ErrNotFound, id)
	}
	var segments []string
	for !n.IsRoot() {
		segments = append(segments, n.name)
		if n, ok = t.nodes.Load(n.parent); !ok {
			return "", fmt.Errorf("%w: detached node %d", ErrNotFound, id)
		}
	}
	if len(segments) == 0 {
		return RootName, nil
	}
	slices.Reverse(segments)
	return Separator + strings.Join(segments, Separator), nil
}

// Walk visits start and its descendants in pre-order, children in insertion
// order, passing each node's depth relative to start. A non-nil error from fn
// stops the walk and is returned.
func (t *Tree) Walk(start NodeID, fn func(n *Node, depth int) error) error {
	type frame struct {
		id    NodeID
		depth int
	}
	if _, ok := t.nodes.Load(start); !ok {
		return fmt.Errorf("%w: node %d", ErrNotFound, start)
	}

	stack := []frame{{start, 0}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n, ok := t.nodes.Load(f.id)
		if !ok {
			continue
		}
		if err := fn(n, f.depth); err != nil {
			return err
		}
		// push in reverse so the first child is visited next
		for i := len(n.children) - 1; i >= 0; i-- {
			stack = append(stack, frame{n.children[i], f.depth + 1})
		}
	}
	return nil
}

// MkdirAll creates every missing directory along path starting at the root
// and returns the leaf. It is equivalent to `mkdir -p`: existing directories
// are reused and an existing leaf is not an error.
func (t *Tree) MkdirAll(path string) (NodeID, error) {
	cur := RootID
	newCnt := 0
	for _, seg := range strings.Split(path, Separator) {
		if seg == "" {
			continue
		}
		if id, ok := t.FindChild(cur, seg); ok {
			n, _ := t.nodes.Load(id)
			if !n.isDir {
				return InvalidID, fmt.Errorf("%w: %s in %s", ErrNotADirectory, seg, path)
			}
			cur = id
			continue
		}
		id, err := t.CreateChild(cur, seg, true)
		if err != nil {
			return InvalidID, err
		}
		newCnt++
		cur = id
	}
	if newCnt > 0 {
		t.logger.Debug().Str("path", path).Int("created", newCnt).Msg("Created missing directories")
	}
	return cur, nil
}

// CreateFileAll creates a file at path, adding any missing ancestor
// directories. A node already at path fails with ErrAlreadyExists.
func (t *Tree) CreateFileAll(path string) (NodeID, error) {
	trimmed := strings.TrimRight(path, Separator)
	idx := strings.LastIndex(trimmed, Separator)
	dirPath, name := trimmed[:idx+1], trimmed[idx+1:]
	if name == "" {
		return InvalidID, fmt.Errorf("%w: no file name in %q", ErrInvalidName, path)
	}

	parent, err := t.MkdirAll(dirPath)
	if err != nil {
		return InvalidID, err
	}
	return t.CreateChild(parent, name, false)
}
