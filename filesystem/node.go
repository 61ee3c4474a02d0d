package filesystem

// NodeID addresses a node within its Tree. IDs are never reused.
type NodeID uint64

const (
	// InvalidID is the zero NodeID; it never refers to a live node
	InvalidID NodeID = 0
	// RootID is always assigned to a tree's root
	RootID NodeID = 1
)

// Kind selects which type of node an operation expects
type Kind int

const (
	KindFile Kind = iota
	KindDir
)

func (k Kind) String() string {
	if k == KindDir {
		return "directory"
	}
	return "file"
}

// Entry is a snapshot of a node as returned by listings
type Entry struct {
	Name  string
	IsDir bool
}

// Node is a directory or file in a Tree.
//
// NOTE: the parent link is a non-owning back reference by ID; children are
// owned by the node and are disposed with it.
type Node struct {
	id       NodeID
	name     string // canonical name, unique among siblings
	isDir    bool
	parent   NodeID   // InvalidID for the root
	children []NodeID // insertion order
}

func newNode(id NodeID, name string, isDir bool, parent NodeID) *Node {
	node := &Node{
		id:     id,
		name:   name,
		isDir:  isDir,
		parent: parent,
	}
	if isDir {
		node.children = make([]NodeID, 0)
	}
	return node
}

// ID returns the node's arena ID
func (n *Node) ID() NodeID {
	return n.id
}

// Name returns the node's canonical name
func (n *Node) Name() string {
	return n.name
}

func (n *Node) IsDir() bool {
	return n.isDir
}

// Parent returns the parent's ID; InvalidID for the root
func (n *Node) Parent() NodeID {
	return n.parent
}

func (n *Node) IsRoot() bool {
	return n.parent == InvalidID
}

// Children returns a copy of the child IDs in insertion order
func (n *Node) Children() []NodeID {
	out := make([]NodeID, len(n.children))
	copy(out, n.children)
	return out
}

// HasChildren reports whether the node has at least one child
func (n *Node) HasChildren() bool {
	return len(n.children) > 0
}

// Entry returns a listing snapshot of the node
func (n *Node) Entry() Entry {
	return Entry{Name: n.name, IsDir: n.isDir}
}
