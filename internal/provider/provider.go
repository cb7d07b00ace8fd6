package provider

import "context"

// Provider is the contract every backend implements.
//
// Methods that look something up return nil and no error when nothing was
// found. Errors are reserved for backend failures, cancellation and invalid
// input.
type Provider interface {
	Descriptor() Descriptor

	// Schemes lists the URI schemes the backend accepts. Plain paths count
	// as "file".
	Schemes() []string

	// CanHandlePathOrURI reports whether the backend owns pathOrURI and
	// returns the repository-path form it would use for it. It never
	// performs I/O.
	CanHandlePathOrURI(scheme, pathOrURI string) (string, bool)

	// DiscoverRepositories returns repository roots at or below uri. When ctx
	// is cancelled it returns the roots found so far together with ctx.Err().
	DiscoverRepositories(ctx context.Context, uri string, opts DiscoverOptions) ([]string, error)

	// OpenRepository returns nil when root is not a repository.
	OpenRepository(ctx context.Context, root string) (*RepositoryInfo, error)
	CloseRepository(root string)

	GetCommit(ctx context.Context, repoPath string, rev string) (*Commit, error)
	GetLog(ctx context.Context, repoPath string, opts LogOptions) (*Log, error)
	// GetDiffStatus lists files changed between ref1 and ref2. An empty ref2
	// compares ref1 against its first parent.
	GetDiffStatus(ctx context.Context, repoPath string, ref1, ref2 string) ([]FileChange, error)
	// GetBlame returns nil when the backend cannot attribute lines.
	GetBlame(ctx context.Context, repoPath string, path string, rev string) (*Blame, error)
	ValidateReference(ctx context.Context, repoPath string, ref string) (bool, error)
	GetGitDir(ctx context.Context, repoPath string) (*GitDir, error)

	SubProviders() SubProviders

	// Subscribe registers fn for change notifications of opened repositories.
	Subscribe(fn func(Event)) (unsubscribe func())
}

// SubProviders groups the feature areas of a backend. The first five are
// always present. The rest are nil when the backend does not support them;
// a nil group is an answer, not an error.
type SubProviders struct {
	Branches     BranchesSubProvider
	Contributors ContributorsSubProvider
	Remotes      RemotesSubProvider
	Status       StatusSubProvider
	Tags         TagsSubProvider

	Patch      PatchSubProvider
	Staging    StagingSubProvider
	Stash      StashSubProvider
	Worktrees  WorktreesSubProvider
	Operations OperationsSubProvider
	Terminal   TerminalSubProvider
}

// Capability names an optional feature group.
type Capability string

const (
	CapabilityPatch      Capability = "patch"
	CapabilityStaging    Capability = "staging"
	CapabilityStash      Capability = "stash"
	CapabilityWorktrees  Capability = "worktrees"
	CapabilityOperations Capability = "operations"
	CapabilityTerminal   Capability = "terminal"
)

// Capabilities lists the optional groups that are present.
func (s SubProviders) Capabilities() []Capability {
	var caps []Capability
	if s.Patch != nil {
		caps = append(caps, CapabilityPatch)
	}
	if s.Staging != nil {
		caps = append(caps, CapabilityStaging)
	}
	if s.Stash != nil {
		caps = append(caps, CapabilityStash)
	}
	if s.Worktrees != nil {
		caps = append(caps, CapabilityWorktrees)
	}
	if s.Operations != nil {
		caps = append(caps, CapabilityOperations)
	}
	if s.Terminal != nil {
		caps = append(caps, CapabilityTerminal)
	}
	return caps
}

// Supports reports whether the optional group c is present.
func (s SubProviders) Supports(c Capability) bool {
	for _, have := range s.Capabilities() {
		if have == c {
			return true
		}
	}
	return false
}

// Complete reports whether every required group is set.
func (s SubProviders) Complete() bool {
	return s.Branches != nil && s.Contributors != nil && s.Remotes != nil && s.Status != nil && s.Tags != nil
}
