package git

import (
	"io"
	"os"
	"path"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/jmgilman/go/errors"

	"github.com/raphi011/gitprov/internal/paths"
	"github.com/raphi011/gitprov/internal/provider"
)

// IsRepository reports whether dir holds a .git directory or a .git file
// (linked worktree or submodule).
func IsRepository(fs billy.Filesystem, dir string) bool {
	info, err := fs.Lstat(path.Join(dir, ".git"))
	if err != nil {
		return false
	}
	return info.IsDir() || info.Mode().IsRegular()
}

// ReadGitFile parses the "gitdir: <path>" line of the .git file in worktree
// and returns the cleaned, absolute git directory.
// Only the first line matters; any additional lines are ignored.
func ReadGitFile(fs billy.Filesystem, worktree string) (string, error) {
	content, err := readFile(fs, path.Join(worktree, ".git"))
	if err != nil {
		return "", errors.Wrap(err, errors.CodeNotFound, "failed to read .git file")
	}

	line, _, _ := strings.Cut(string(content), "\n")
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "gitdir: ") {
		return "", errors.New(errors.CodeInvalidInput, "invalid .git file format: expected 'gitdir: <path>'")
	}

	gitdir := strings.TrimSpace(strings.TrimPrefix(line, "gitdir: "))
	if gitdir == "" {
		return "", errors.New(errors.CodeInvalidInput, "invalid .git file format: empty gitdir path")
	}
	// gitdir can be relative to the worktree
	if !path.IsAbs(gitdir) {
		gitdir = path.Join(worktree, gitdir)
	}
	return path.Clean(gitdir), nil
}

// ResolveGitDir locates the git directory of the repository rooted at root.
// For linked worktrees the shared directory named by "commondir" is
// reported as well.
func ResolveGitDir(fs billy.Filesystem, root string) (*provider.GitDir, error) {
	dotGit := path.Join(root, ".git")
	info, err := fs.Lstat(dotGit)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WithContext(
				errors.New(errors.CodeNotFound, "not a git repository"), "root", root)
		}
		return nil, errors.Wrap(err, errors.CodeInternal, "stat .git")
	}

	if info.IsDir() {
		return &provider.GitDir{URI: paths.FileURI(dotGit)}, nil
	}

	gitdir, err := ReadGitFile(fs, root)
	if err != nil {
		return nil, err
	}
	dir := &provider.GitDir{URI: paths.FileURI(gitdir)}

	common, err := readFile(fs, path.Join(gitdir, "commondir"))
	if err == nil {
		c := strings.TrimSpace(string(common))
		if c != "" {
			if !path.IsAbs(c) {
				c = path.Join(gitdir, c)
			}
			dir.CommonURI = paths.FileURI(path.Clean(c))
		}
	}
	return dir, nil
}

func readFile(fs billy.Filesystem, name string) ([]byte, error) {
	f, err := fs.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
