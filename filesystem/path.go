package filesystem

import (
	"fmt"
	"strings"
)

// ParentSegment is honored by Navigate to move up one directory
const ParentSegment = ".."

// Resolve walks path from start following directories only.
// An empty path resolves to start and a leading "/" restarts at the root.
// Empty segments are skipped, so "a//b" and "a/b" resolve alike. A missing
// segment or one naming a file stops the walk with ErrNotFound.
func (t *Tree) Resolve(start NodeID, path string) (NodeID, error) {
	return t.walkPath(start, path, false)
}

// Navigate resolves like [Tree.Resolve] but treats each ".." segment as a
// move to the parent directory, which is a no-op at the root.
func (t *Tree) Navigate(start NodeID, path string) (NodeID, error) {
	return t.walkPath(start, path, true)
}

func (t *Tree) walkPath(start NodeID, path string, followParent bool) (NodeID, error) {
	cur, err := t.dirNode(start)
	if err != nil {
		return InvalidID, err
	}
	if path == "" {
		return start, nil
	}
	if strings.HasPrefix(path, Separator) {
		cur, _ = t.nodes.Load(RootID)
	}

	for _, seg := range strings.Split(path, Separator) {
		if seg == "" {
			continue
		}
		if followParent && seg == ParentSegment {
			if parent, ok := t.nodes.Load(cur.parent); ok {
				cur = parent
			}
			continue
		}
		_, next := t.findChild(cur, seg)
		if next == nil {
			return InvalidID, fmt.Errorf("%w: %s", ErrNotFound, seg)
		}
		if !next.isDir {
			return InvalidID, fmt.Errorf("%w: %s is not a directory", ErrNotFound, seg)
		}
		cur = next
	}
	return cur.id, nil
}
