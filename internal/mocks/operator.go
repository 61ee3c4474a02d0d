package mocks

import (
	"github.com/brettbedarf/nstree"
	"github.com/stretchr/testify/mock"
)

// MockTreeOperator implements nstree.TreeOperator for testing across packages
type MockTreeOperator struct {
	mock.Mock
}

func (m *MockTreeOperator) Root() nstree.NodeInfo {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(nstree.NodeInfo)
}

func (m *MockTreeOperator) AddFileNode(req *nstree.FileCreateRequest) (nstree.NodeInfo, error) {
	args := m.Called(req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(nstree.NodeInfo), args.Error(1)
}

func (m *MockTreeOperator) AddDirNode(req *nstree.DirCreateRequest) (nstree.NodeInfo, error) {
	args := m.Called(req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(nstree.NodeInfo), args.Error(1)
}

// MockNodeInfo implements nstree.NodeInfo
type MockNodeInfo struct {
	mock.Mock
}

func (m *MockNodeInfo) Name() string {
	return m.Called().String(0)
}

func (m *MockNodeInfo) NodeID() uint64 {
	return m.Called().Get(0).(uint64)
}

func (m *MockNodeInfo) Path() string {
	return m.Called().String(0)
}

func (m *MockNodeInfo) IsDir() bool {
	return m.Called().Bool(0)
}
