package git

import (
	"context"

	"github.com/raphi011/gitprov/internal/cmd"
)

// Runner runs git inside dir and returns its stdout.
type Runner interface {
	Run(ctx context.Context, dir string, args ...string) ([]byte, error)
}

// RunnerFunc adapts a function to a Runner.
type RunnerFunc func(ctx context.Context, dir string, args ...string) ([]byte, error)

// Run calls f.
func (f RunnerFunc) Run(ctx context.Context, dir string, args ...string) ([]byte, error) {
	return f(ctx, dir, args...)
}

// CLI runs the git binary found in PATH.
type CLI struct{}

// Run executes git -C dir args... with context support and verbose logging.
func (CLI) Run(ctx context.Context, dir string, args ...string) ([]byte, error) {
	return cmd.OutputContext(ctx, "", "git", gitArgs(dir, args)...)
}

// gitArgs prepends -C <dir> to args if dir is non-empty.
func gitArgs(dir string, args []string) []string {
	if dir == "" {
		return args
	}
	return append([]string{"-C", dir}, args...)
}
