package nstree

// NodeRequest has common fields embedded in concrete request types
type NodeRequest struct {
	Path string // Absolute or root-relative path of the node to create
	Type NodeCreateRequestType
}

// NodeCreateRequestType valid types are FileNodeType "file", DirNodeType "dir"
type NodeCreateRequestType string

const (
	FileNodeType NodeCreateRequestType = "file"
	DirNodeType  NodeCreateRequestType = "dir"
)

// FileCreateRequest asks for an empty file, creating missing ancestors
type FileCreateRequest struct {
	NodeRequest
}

// DirCreateRequest asks for a directory; behaves like `mkdir -p`
type DirCreateRequest struct {
	NodeRequest
}
