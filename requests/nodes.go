package requests

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/brettbedarf/nstree"
	"github.com/brettbedarf/nstree/internal/util"
)

// NodeSet is the parsed content of a node definitions file
type NodeSet struct {
	Dirs  []*nstree.DirCreateRequest
	Files []*nstree.FileCreateRequest
}

// ApplyResult counts what Apply created
type ApplyResult struct {
	Dirs   int
	Files  int
	Failed int
}

// LoadNodesFile reads and parses a JSON node definitions file
func LoadNodesFile(path string) (*NodeSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseNodes(data)
}

// ParseNodes parses a JSON array of node definitions such as
//
//	[{"type": "dir", "path": "docs"}, {"type": "file", "path": "docs/notes"}]
//
// Entries that cannot be parsed or have an unknown type are logged and skipped.
// Only a document that is not a JSON array is an error.
func ParseNodes(data []byte) (*NodeSet, error) {
	logger := util.GetLogger("ParseNodes")

	var rawNodes []json.RawMessage
	if err := json.Unmarshal(data, &rawNodes); err != nil {
		return nil, fmt.Errorf("failed to unmarshal node definitions: %w", err)
	}

	set := &NodeSet{}
	for _, rawNode := range rawNodes {
		nodeType, err := GetNodeType(rawNode)
		if err != nil {
			logger.Error().Err(err).Msg("Failed to get node type")
			continue
		}

		switch nodeType {
		case nstree.FileNodeType:
			fileReq, err := UnmarshalFileRequest(rawNode)
			if err != nil {
				logger.Error().Err(err).Msg("Failed to unmarshal file request")
				continue
			}
			set.Files = append(set.Files, fileReq)
			logger.Debug().Str("path", fileReq.Path).Msg("Processed file request")

		case nstree.DirNodeType:
			dirReq, err := UnmarshalDirRequest(rawNode)
			if err != nil {
				logger.Error().Err(err).Msg("Failed to unmarshal directory request")
				continue
			}
			set.Dirs = append(set.Dirs, dirReq)
			logger.Debug().Str("path", dirReq.Path).Msg("Processed directory request")

		default:
			logger.Warn().Str("type", string(nodeType)).Msg("Unknown node type")
		}
	}
	return set, nil
}

// Apply adds every directory and then every file in set to op, with paths
// taken from op's root. Failures are logged and counted; they never stop the
// remaining requests. An operator without a root is left untouched.
func Apply(op nstree.TreeOperator, set *NodeSet) ApplyResult {
	logger := util.GetLogger("ApplyNodes")
	var res ApplyResult

	root := op.Root()
	if root == nil {
		logger.Warn().Msg("Operator has no root; skipping node definitions")
		return res
	}
	logger = logger.With().Str("root", root.Path()).Logger()

	for _, req := range set.Dirs {
		if _, err := op.AddDirNode(req); err != nil {
			logger.Warn().Str("path", req.Path).Err(err).Msg("Failed to add directory request")
			res.Failed++
			continue
		}
		res.Dirs++
	}
	for _, req := range set.Files {
		if _, err := op.AddFileNode(req); err != nil {
			logger.Warn().Str("path", req.Path).Err(err).Msg("Failed to add file request")
			res.Failed++
			continue
		}
		res.Files++
	}
	logger.Info().Int("directories", res.Dirs).Int("files", res.Files).Int("failed", res.Failed).Msg("Added new nodes to tree")
	return res
}
