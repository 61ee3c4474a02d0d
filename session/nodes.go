package session

import (
	"github.com/brettbedarf/nstree"
	"github.com/brettbedarf/nstree/filesystem"
)

// nodeInfo is a read-only view of a node in the session's current tree
type nodeInfo struct {
	tree *filesystem.Tree
	id   filesystem.NodeID
}

func (n nodeInfo) Name() string {
	if node, ok := n.tree.Node(n.id); ok {
		return node.Name()
	}
	return ""
}

func (n nodeInfo) NodeID() uint64 {
	return uint64(n.id)
}

func (n nodeInfo) Path() string {
	p, _ := n.tree.Path(n.id)
	return p
}

func (n nodeInfo) IsDir() bool {
	node, ok := n.tree.Node(n.id)
	return ok && node.IsDir()
}

// Root returns the root directory of the current tree
func (s *Session) Root() nstree.NodeInfo {
	return nodeInfo{s.tree, s.tree.Root()}
}

// AddDirNode creates the directory at req.Path and any missing ancestors.
// Paths are always taken from the root.
func (s *Session) AddDirNode(req *nstree.DirCreateRequest) (nstree.NodeInfo, error) {
	id, err := s.tree.MkdirAll(req.Path)
	if err != nil {
		return nil, err
	}
	return nodeInfo{s.tree, id}, nil
}

// AddFileNode creates the file at req.Path and any missing ancestors
func (s *Session) AddFileNode(req *nstree.FileCreateRequest) (nstree.NodeInfo, error) {
	id, err := s.tree.CreateFileAll(req.Path)
	if err != nil {
		return nil, err
	}
	return nodeInfo{s.tree, id}, nil
}
