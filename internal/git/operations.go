// Package git reads the version-control position of a project so exports
// can record where they were taken.
package git

import (
	"os/exec"
	"strings"
)

// Unknown is reported when a project is not a git work tree or git is
// unavailable.
const Unknown = "unknown"

// Operations defines the git queries used by atlas.
// This allows mocking git commands in tests.
type Operations interface {
	// CurrentBranch returns the checked-out branch name.
	// For detached HEAD, returns "detached-{short-hash}".
	CurrentBranch(projectPath string) string

	// HeadCommit returns the full hash of HEAD, or Unknown.
	HeadCommit(projectPath string) string
}

// gitOps is the real implementation using exec.Command.
type gitOps struct{}

// NewOperations returns the default git operations implementation.
func NewOperations() Operations {
	return &gitOps{}
}

func run(projectPath string, args ...string) (string, bool) {
	cmd := exec.Command("git", args...)
	cmd.Dir = projectPath
	output, err := cmd.Output()
	out := strings.TrimSpace(string(output))
	if err != nil || out == "" {
		return "", false
	}
	return out, true
}

func (g *gitOps) CurrentBranch(projectPath string) string {
	if branch, ok := run(projectPath, "branch", "--show-current"); ok {
		return branch
	}
	// Might be detached HEAD
	if hash, ok := run(projectPath, "rev-parse", "--short", "HEAD"); ok {
		return "detached-" + hash
	}
	return Unknown
}

func (g *gitOps) HeadCommit(projectPath string) string {
	if hash, ok := run(projectPath, "rev-parse", "HEAD"); ok {
		return hash
	}
	return Unknown
}
