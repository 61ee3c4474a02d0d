package filesystem

import (
	"fmt"
	"io"
)

// Box drawing pieces used by RenderTree
const (
	branchMid   = "├── "
	branchLast  = "└── "
	prefixMid   = "│   "
	prefixLast  = "    "
	rootDisplay = "."
)

// LabelFunc formats a node's name for display
type LabelFunc func(e Entry) string

// DefaultLabel suffixes directories with "/"
func DefaultLabel(e Entry) string {
	if e.IsDir {
		return e.Name + Separator
	}
	return e.Name
}

// RenderTree draws the subtree at start, one node per line. The root is shown
// as "." with its children unindented. Any other start node is drawn as the
// last branch of an unseen parent, so its children are indented one level.
// Descendants follow in pre-order. A nil label uses DefaultLabel.
func RenderTree(w io.Writer, t *Tree, start NodeID, label LabelFunc) error {
	type frame struct {
		id     NodeID
		prefix string
		isLast bool
	}
	if label == nil {
		label = DefaultLabel
	}

	top, ok := t.Node(start)
	if !ok {
		return fmt.Errorf("%w: node %d", ErrNotFound, start)
	}
	head, indent := rootDisplay, ""
	if !top.IsRoot() {
		head, indent = branchLast+label(top.Entry()), prefixLast
	}
	if _, err := fmt.Fprintln(w, head); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}

	var stack []frame
	pushChildren := func(n *Node, prefix string) {
		for i := len(n.children) - 1; i >= 0; i-- {
			stack = append(stack, frame{n.children[i], prefix, i == len(n.children)-1})
		}
	}
	pushChildren(top, indent)

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n, ok := t.Node(f.id)
		if !ok {
			continue
		}
		branch, next := branchMid, prefixMid
		if f.isLast {
			branch, next = branchLast, prefixLast
		}
		if _, err := fmt.Fprintln(w, f.prefix+branch+label(n.Entry())); err != nil {
			return fmt.Errorf("%w: %w", ErrIO, err)
		}
		pushChildren(n, f.prefix+next)
	}
	return nil
}
