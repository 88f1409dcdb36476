package contract

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

// MockGitClient is a testify mock for the GitClient interface.
type MockGitClient struct {
	mock.Mock
}

var _ GitClient = &MockGitClient{} // Compile-time check

// Run implements the GitClient interface.
func (m *MockGitClient) Run(ctx context.Context, repoPath string, args ...string) ([]byte, error) {
	var mockArgs []any
	mockArgs = append(mockArgs, ctx, repoPath)
	for _, arg := range args {
		mockArgs = append(mockArgs, arg)
	}
	ret := m.Called(mockArgs...)
	output, _ := ret.Get(0).([]byte)
	return output, ret.Error(1)
}

// CloneBare implements the GitClient interface.
func (m *MockGitClient) CloneBare(ctx context.Context, source, dest string) error {
	ret := m.Called(ctx, source, dest)
	return ret.Error(0)
}

// GetNameOnlyLog implements the GitClient interface.
func (m *MockGitClient) GetNameOnlyLog(ctx context.Context, repoPath string) ([]byte, error) {
	ret := m.Called(ctx, repoPath)
	output, _ := ret.Get(0).([]byte)
	return output, ret.Error(1)
}

// GetNumstatLog implements the GitClient interface.
func (m *MockGitClient) GetNumstatLog(ctx context.Context, repoPath string, since, until time.Time) ([]byte, error) {
	ret := m.Called(ctx, repoPath, since, until)
	output, _ := ret.Get(0).([]byte)
	return output, ret.Error(1)
}

// GetCommitLog implements the GitClient interface.
func (m *MockGitClient) GetCommitLog(ctx context.Context, repoPath string) ([]byte, error) {
	ret := m.Called(ctx, repoPath)
	output, _ := ret.Get(0).([]byte)
	return output, ret.Error(1)
}

// GetEmptyTreeHash implements the GitClient interface.
func (m *MockGitClient) GetEmptyTreeHash(ctx context.Context, repoPath string) (string, error) {
	ret := m.Called(ctx, repoPath)
	return ret.String(0), ret.Error(1)
}

// GetTreeNumstat implements the GitClient interface.
func (m *MockGitClient) GetTreeNumstat(ctx context.Context, repoPath string, baseRef string, targetRef string) ([]byte, error) {
	ret := m.Called(ctx, repoPath, baseRef, targetRef)
	output, _ := ret.Get(0).([]byte)
	return output, ret.Error(1)
}

// GetRevisionBefore implements the GitClient interface.
func (m *MockGitClient) GetRevisionBefore(ctx context.Context, repoPath string, at time.Time) (string, error) {
	ret := m.Called(ctx, repoPath, at)
	return ret.String(0), ret.Error(1)
}

// GetBlamePorcelain implements the GitClient interface.
func (m *MockGitClient) GetBlamePorcelain(ctx context.Context, repoPath string, rev string, path string) ([]byte, error) {
	ret := m.Called(ctx, repoPath, rev, path)
	output, _ := ret.Get(0).([]byte)
	return output, ret.Error(1)
}
