package provider

import "context"

// Every sub-provider method takes the repository path as its first argument
// after the context. Bound views in bound.go drop that argument.

// BranchesSubProvider reads branches.
type BranchesSubProvider interface {
	// GetBranch returns the named branch, or the current one when name is
	// empty. It returns nil when no such branch exists or HEAD is detached.
	GetBranch(ctx context.Context, repoPath string, name string) (*Branch, error)
	GetBranches(ctx context.Context, repoPath string, opts BranchOptions) ([]Branch, error)
	// GetDefaultBranchName returns the default branch of remote, without the
	// remote prefix. Empty when it cannot be determined.
	GetDefaultBranchName(ctx context.Context, repoPath string, remote string) (string, error)
	// GetMergeBase returns the best common ancestor of two refs, or empty.
	GetMergeBase(ctx context.Context, repoPath string, ref1, ref2 string) (string, error)
}

// ContributorsSubProvider aggregates history by author.
type ContributorsSubProvider interface {
	GetContributors(ctx context.Context, repoPath string, opts ContributorOptions) ([]Contributor, error)
}

// RemotesSubProvider reads configured remotes.
type RemotesSubProvider interface {
	GetRemote(ctx context.Context, repoPath string, name string) (*Remote, error)
	GetRemotes(ctx context.Context, repoPath string) ([]Remote, error)
}

// StatusSubProvider reads working-tree status.
type StatusSubProvider interface {
	// GetStatus returns nil when the backend has no working tree to report on.
	GetStatus(ctx context.Context, repoPath string) (*Status, error)
	// GetStatusForFile returns nil when the file is unchanged.
	GetStatusForFile(ctx context.Context, repoPath string, path string) (*FileStatus, error)
}

// TagsSubProvider reads tags.
type TagsSubProvider interface {
	GetTag(ctx context.Context, repoPath string, name string) (*Tag, error)
	GetTags(ctx context.Context, repoPath string) ([]Tag, error)
}

// ApplyPatchOptions controls ApplyPatch.
type ApplyPatchOptions struct {
	// Check only verifies that the patch applies.
	Check    bool
	ThreeWay bool
}

// PatchSubProvider creates and applies patches.
type PatchSubProvider interface {
	CreatePatch(ctx context.Context, repoPath string, base, head string) (string, error)
	ApplyPatch(ctx context.Context, repoPath string, patch string, opts ApplyPatchOptions) error
}

// StagingSubProvider changes the index.
type StagingSubProvider interface {
	StageFiles(ctx context.Context, repoPath string, paths []string) error
	UnstageFiles(ctx context.Context, repoPath string, paths []string) error
}

// StashSaveOptions controls SaveStash.
type StashSaveOptions struct {
	IncludeUntracked bool
	KeepIndex        bool
	// Paths limits the stash to these repository-relative paths.
	Paths []string
}

// StashSubProvider reads and changes the stash.
type StashSubProvider interface {
	// GetStash returns nil when the stash is empty.
	GetStash(ctx context.Context, repoPath string) (*Stash, error)
	SaveStash(ctx context.Context, repoPath string, message string, opts StashSaveOptions) error
	ApplyStash(ctx context.Context, repoPath string, ref string, deleteAfter bool) error
	DeleteStash(ctx context.Context, repoPath string, ref string) error
}

// WorktreeCreateOptions controls CreateWorktree.
type WorktreeCreateOptions struct {
	// Ref is checked out in the new worktree; empty means HEAD.
	Ref string
	// NewBranch, when set, is created at Ref and checked out.
	NewBranch string
	Detach    bool
	Force     bool
}

// WorktreesSubProvider lists and manages linked worktrees.
type WorktreesSubProvider interface {
	GetWorktrees(ctx context.Context, repoPath string) ([]Worktree, error)
	CreateWorktree(ctx context.Context, repoPath string, path string, opts WorktreeCreateOptions) error
	DeleteWorktree(ctx context.Context, repoPath string, path string, force bool) error
}

// CheckoutOptions controls Checkout.
type CheckoutOptions struct {
	// NewBranch, when set, is created at the ref and checked out.
	NewBranch string
}

// FetchOptions controls Fetch.
type FetchOptions struct {
	Remote string
	All    bool
	Prune  bool
}

// PullOptions controls Pull.
type PullOptions struct {
	Rebase bool
}

// PushOptions controls Push.
type PushOptions struct {
	Remote      string
	Branch      string
	Force       bool
	SetUpstream bool
}

// ResetMode selects how Reset treats the index and working tree.
type ResetMode string

const (
	ResetSoft  ResetMode = "soft"
	ResetMixed ResetMode = "mixed"
	ResetHard  ResetMode = "hard"
)

// OperationsSubProvider runs mutating repository operations.
type OperationsSubProvider interface {
	Checkout(ctx context.Context, repoPath string, ref string, opts CheckoutOptions) error
	Fetch(ctx context.Context, repoPath string, opts FetchOptions) error
	Pull(ctx context.Context, repoPath string, opts PullOptions) error
	Push(ctx context.Context, repoPath string, opts PushOptions) error
	Reset(ctx context.Context, repoPath string, ref string, mode ResetMode) error
}

// TerminalSubProvider runs a git command in a terminal owned by the host.
type TerminalSubProvider interface {
	RunGitCommandViaTerminal(ctx context.Context, repoPath string, command string, args []string) error
}
