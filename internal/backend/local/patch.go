package local

import (
	"context"
	"os"

	"github.com/jmgilman/go/errors"

	"github.com/raphi011/gitprov/internal/provider"
)

type patch struct{ p *Provider }

// CreatePatch returns a binary-safe diff from base to head. An empty head
// diffs base against the working tree.
func (pt patch) CreatePatch(ctx context.Context, repoPath string, base, head string) (string, error) {
	if base == "" {
		return "", provider.InvalidInput("base", "revision must not be empty")
	}
	if err := checkRef("base", base); err != nil {
		return "", err
	}
	if err := checkRef("head", head); err != nil {
		return "", err
	}

	args := []string{"diff", "--binary", base}
	if head != "" {
		args = append(args, head)
	}
	out, err := pt.p.run(ctx, repoPath, append(args, "--")...)
	if err != nil {
		return "", provider.Failure(err, provider.IDGit, repoPath, "create patch")
	}
	return string(out), nil
}

// ApplyPatch applies patch to the working tree. With opts.Check nothing is
// changed and no change events are sent.
func (pt patch) ApplyPatch(ctx context.Context, repoPath string, patch string, opts provider.ApplyPatchOptions) error {
	if patch == "" {
		return provider.InvalidInput("patch", "patch must not be empty")
	}

	f, err := os.CreateTemp("", "gitprov-*.patch")
	if err != nil {
		return errors.Wrap(err, errors.CodeInternal, "create patch file")
	}
	defer os.Remove(f.Name())

	if _, err := f.WriteString(patch); err != nil {
		f.Close()
		return errors.Wrap(err, errors.CodeInternal, "write patch file")
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(err, errors.CodeInternal, "write patch file")
	}

	args := []string{"apply"}
	if opts.ThreeWay {
		args = append(args, "--3way")
	}
	if opts.Check {
		args = append(args, "--check", f.Name())
		if _, err := pt.p.run(ctx, repoPath, args...); err != nil {
			return provider.Failure(err, provider.IDGit, repoPath, "check patch")
		}
		return nil
	}

	changes := []provider.Change{provider.ChangeStatus}
	if opts.ThreeWay {
		changes = append(changes, provider.ChangeIndex)
	}
	return pt.p.mutate(ctx, repoPath, "apply patch", changes, append(args, f.Name())...)
}
