package git

import (
	"os/exec"

	"github.com/jmgilman/go/errors"
)

// ErrGitNotFound indicates git is not installed or not in PATH
var ErrGitNotFound = errors.New(errors.CodeUnavailable, "git not found: please install git (https://git-scm.com)")

// CheckGit verifies that git is available in PATH
func CheckGit() error {
	if _, err := exec.LookPath("git"); err != nil {
		return ErrGitNotFound
	}
	return nil
}
