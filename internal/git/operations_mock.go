package git

// MockGitOps is a mock implementation of Operations for testing.
type MockGitOps struct {
	Branch string
	Commit string
}

// NewMockGitOps creates a mock on main.
func NewMockGitOps() *MockGitOps {
	return &MockGitOps{
		Branch: "main",
		Commit: "0123456789abcdef0123456789abcdef01234567",
	}
}

func (m *MockGitOps) CurrentBranch(projectPath string) string {
	return m.Branch
}

func (m *MockGitOps) HeadCommit(projectPath string) string {
	return m.Commit
}
