package local

import (
	stderrors "errors"
	"io/fs"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/jmgilman/go/errors"

	"github.com/raphi011/gitprov/internal/provider"
)

// classifyError maps go-git errors onto platform error codes. The original
// error stays in the chain; unknown errors pass through unchanged.
func classifyError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case stderrors.Is(err, gogit.ErrRepositoryNotExists):
		return errors.Wrap(err, errors.CodeNotFound, "repository does not exist")
	case stderrors.Is(err, plumbing.ErrReferenceNotFound):
		return errors.Wrap(err, errors.CodeNotFound, "reference not found")
	case stderrors.Is(err, plumbing.ErrObjectNotFound):
		return errors.Wrap(err, errors.CodeNotFound, "object not found")
	case stderrors.Is(err, gogit.ErrRemoteNotFound):
		return errors.Wrap(err, errors.CodeNotFound, "remote not found")
	case stderrors.Is(err, gogit.ErrTagNotFound):
		return errors.Wrap(err, errors.CodeNotFound, "tag not found")
	case stderrors.Is(err, transport.ErrAuthenticationRequired),
		stderrors.Is(err, transport.ErrAuthorizationFailed):
		return errors.Wrap(err, errors.CodeUnauthorized, "authentication failed")
	case stderrors.Is(err, gogit.ErrWorktreeNotClean):
		return errors.Wrap(err, errors.CodeConflict, "worktree is not clean")
	}
	return err
}

// isNotFound reports whether err means "no such object or reference".
func isNotFound(err error) bool {
	return errors.GetCode(classifyError(err)) == errors.CodeNotFound
}

func isMissing(err error) bool {
	return stderrors.Is(err, fs.ErrNotExist)
}

// checkRef rejects values git would parse as an option.
func checkRef(field, ref string) error {
	if strings.HasPrefix(ref, "-") {
		return provider.InvalidInput(field, "must not start with '-': "+ref)
	}
	return nil
}
