// Package nstree holds the public types shared by the simulator's packages.
package nstree

// NodeInfo provides read-only access to node information for external consumers
type NodeInfo interface {
	// Name returns the node's canonical name (last path component)
	Name() string

	// NodeID returns the node's identifier within its tree
	NodeID() uint64

	// Path returns the absolute path to the node
	Path() string

	// IsDir reports whether the node is a directory
	IsDir() bool
}

// TreeOperator defines the node creation operations that seed loaders need
type TreeOperator interface {
	Root() NodeInfo
	AddFileNode(req *FileCreateRequest) (NodeInfo, error)
	AddDirNode(req *DirCreateRequest) (NodeInfo, error)
}
