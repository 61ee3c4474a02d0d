package requests

import "github.com/brettbedarf/nstree"

// NodeRequestDTO is the JSON representation of [nstree.NodeRequest]
type NodeRequestDTO struct {
	Path string                       `json:"path"`
	Type nstree.NodeCreateRequestType `json:"type"`
}

// FileRequestDTO is the JSON representation of [nstree.FileCreateRequest]
type FileRequestDTO struct {
	NodeRequestDTO
}

// DirRequestDTO is the JSON representation of [nstree.DirCreateRequest]
type DirRequestDTO struct {
	NodeRequestDTO
}
