package requests

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/brettbedarf/nstree"
)

// ErrEmptyPath rejects node definitions without a path
var ErrEmptyPath = errors.New("node definition has no path")

// GetNodeType extracts the node type from JSON without full unmarshaling
func GetNodeType(data []byte) (nstree.NodeCreateRequestType, error) {
	var meta struct {
		Type nstree.NodeCreateRequestType `json:"type"`
	}
	if err := json.Unmarshal(data, &meta); err != nil {
		return "", err
	}
	return meta.Type, nil
}

// UnmarshalFileRequest handles file node definitions
func UnmarshalFileRequest(data []byte) (*nstree.FileCreateRequest, error) {
	var dto FileRequestDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return nil, err
	}
	node, err := convertNodeDTO(dto.NodeRequestDTO, nstree.FileNodeType)
	if err != nil {
		return nil, err
	}
	return &nstree.FileCreateRequest{NodeRequest: node}, nil
}

// UnmarshalDirRequest handles directory node definitions
func UnmarshalDirRequest(data []byte) (*nstree.DirCreateRequest, error) {
	var dto DirRequestDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return nil, err
	}
	node, err := convertNodeDTO(dto.NodeRequestDTO, nstree.DirNodeType)
	if err != nil {
		return nil, err
	}
	return &nstree.DirCreateRequest{NodeRequest: node}, nil
}

// convertNodeDTO validates the DTO and fills in the type
func convertNodeDTO(dto NodeRequestDTO, typ nstree.NodeCreateRequestType) (nstree.NodeRequest, error) {
	path := strings.TrimSpace(dto.Path)
	if path == "" {
		return nstree.NodeRequest{}, ErrEmptyPath
	}
	if dto.Type != "" && dto.Type != typ {
		return nstree.NodeRequest{}, fmt.Errorf("node type %q does not match %q", dto.Type, typ)
	}
	return nstree.NodeRequest{Path: path, Type: typ}, nil
}
