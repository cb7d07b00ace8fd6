package provider

import (
	"strings"
	"time"
)

// Signature is an author or committer identity at a point in time.
type Signature struct {
	Name  string    `json:"name"`
	Email string    `json:"email"`
	When  time.Time `json:"when"`
}

// Commit is a single commit record.
type Commit struct {
	SHA        string    `json:"sha"`
	ParentSHAs []string  `json:"parents,omitempty"`
	Author     Signature `json:"author"`
	Committer  Signature `json:"committer"`
	Message    string    `json:"message"`
}

// Summary returns the first line of the commit message.
func (c Commit) Summary() string {
	summary, _, _ := strings.Cut(strings.TrimSpace(c.Message), "\n")
	return strings.TrimSpace(summary)
}

// ShortSHA abbreviates sha to seven characters.
func ShortSHA(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}

// LogOptions narrows a history query.
type LogOptions struct {
	// Ref to start from; empty means HEAD.
	Ref string
	// Limit caps the number of commits; zero means DefaultLogLimit.
	Limit int
	// Path restricts history to commits touching this repository-relative path.
	Path string
}

// DefaultLogLimit applies when LogOptions.Limit is zero.
const DefaultLogLimit = 100

// EffectiveLimit returns the limit to apply.
func (o LogOptions) EffectiveLimit() int {
	if o.Limit <= 0 {
		return DefaultLogLimit
	}
	return o.Limit
}

// Log is a page of history.
type Log struct {
	Commits []Commit `json:"commits"`
	// HasMore is set when the limit cut the history short.
	HasMore bool `json:"hasMore"`
}

// Branch is a local or remote-tracking branch.
type Branch struct {
	Name     string    `json:"name"`
	Remote   bool      `json:"remote"`
	Current  bool      `json:"current"`
	SHA      string    `json:"sha"`
	Upstream string    `json:"upstream,omitempty"`
	Date     time.Time `json:"date,omitzero"`
}

// BranchOptions filters a branch listing.
type BranchOptions struct {
	IncludeRemote bool
}

// Tag is a lightweight or annotated tag.
type Tag struct {
	Name      string    `json:"name"`
	SHA       string    `json:"sha"`
	Annotated bool      `json:"annotated"`
	Message   string    `json:"message,omitempty"`
	Date      time.Time `json:"date,omitzero"`
}

// Remote is a configured remote.
type Remote struct {
	Name string   `json:"name"`
	URLs []string `json:"urls"`
}

// URL returns the first configured URL.
func (r Remote) URL() string {
	if len(r.URLs) == 0 {
		return ""
	}
	return r.URLs[0]
}

// Contributor aggregates commits of one identity.
type Contributor struct {
	Name         string    `json:"name"`
	Email        string    `json:"email,omitempty"`
	Commits      int       `json:"commits"`
	LatestCommit time.Time `json:"latestCommit,omitzero"`
}

// ContributorOptions narrows a contributor query.
type ContributorOptions struct {
	Ref string
	// Limit caps how many commits are scanned; zero means no limit.
	Limit int
}

// StatusCode is a single porcelain status letter.
type StatusCode byte

const (
	StatusUnmodified StatusCode = ' '
	StatusModified   StatusCode = 'M'
	StatusTypeChange StatusCode = 'T'
	StatusAdded      StatusCode = 'A'
	StatusDeleted    StatusCode = 'D'
	StatusRenamed    StatusCode = 'R'
	StatusCopied     StatusCode = 'C'
	StatusUnmerged   StatusCode = 'U'
	StatusUntracked  StatusCode = '?'
	StatusIgnored    StatusCode = '!'
)

func (c StatusCode) String() string {
	return string(rune(c))
}

// MarshalText renders the status letter instead of its byte value.
func (c StatusCode) MarshalText() ([]byte, error) {
	return []byte{byte(c)}, nil
}

// FileStatus is the working-tree state of one file.
type FileStatus struct {
	Path         string     `json:"path"`
	OriginalPath string     `json:"originalPath,omitempty"`
	Index        StatusCode `json:"index"`
	WorkingTree  StatusCode `json:"workingTree"`
}

// Conflicted reports whether the file has unresolved merge conflicts.
func (f FileStatus) Conflicted() bool {
	if f.Index == StatusUnmerged || f.WorkingTree == StatusUnmerged {
		return true
	}
	// both added / both deleted
	return (f.Index == StatusAdded && f.WorkingTree == StatusAdded) ||
		(f.Index == StatusDeleted && f.WorkingTree == StatusDeleted)
}

// Staged reports whether the file has changes in the index.
func (f FileStatus) Staged() bool {
	return f.Index != StatusUnmodified && f.Index != StatusUntracked && f.Index != StatusIgnored && f.Index != 0
}

// Status is the working-tree state of a repository.
type Status struct {
	Branch   string       `json:"branch"`
	SHA      string       `json:"sha,omitempty"`
	Detached bool         `json:"detached"`
	Upstream string       `json:"upstream,omitempty"`
	Ahead    int          `json:"ahead"`
	Behind   int          `json:"behind"`
	Files    []FileStatus `json:"files"`
}

// HasChanges reports whether any file differs from HEAD.
func (s *Status) HasChanges() bool {
	return s != nil && len(s.Files) > 0
}

// HasConflicts reports whether any file is conflicted.
func (s *Status) HasConflicts() bool {
	if s == nil {
		return false
	}
	for _, f := range s.Files {
		if f.Conflicted() {
			return true
		}
	}
	return false
}

// FileChange is one entry of a diff between two revisions.
type FileChange struct {
	Path         string     `json:"path"`
	OriginalPath string     `json:"originalPath,omitempty"`
	Status       StatusCode `json:"status"`
}

// BlameLine attributes one line of a file.
type BlameLine struct {
	Line         int       `json:"line"`
	OriginalLine int       `json:"originalLine"`
	SHA          string    `json:"sha"`
	Author       string    `json:"author"`
	AuthorEmail  string    `json:"authorEmail,omitempty"`
	When         time.Time `json:"when"`
	Summary      string    `json:"summary,omitempty"`
}

// Blame attributes every line of a file to the commit that last touched it.
type Blame struct {
	Path  string      `json:"path"`
	Lines []BlameLine `json:"lines"`
}

// StashEntry is one stash record.
type StashEntry struct {
	Ref     string    `json:"ref"`
	SHA     string    `json:"sha"`
	Message string    `json:"message"`
	Date    time.Time `json:"date,omitzero"`
}

// Stash is the list of stash entries, newest first.
type Stash struct {
	Entries []StashEntry `json:"entries"`
}

// Worktree is a working tree attached to a repository.
type Worktree struct {
	Path     string `json:"path"`
	Branch   string `json:"branch,omitempty"`
	SHA      string `json:"sha,omitempty"`
	Main     bool   `json:"main"`
	Bare     bool   `json:"bare"`
	Detached bool   `json:"detached"`
	Locked   bool   `json:"locked"`
	Prunable bool   `json:"prunable"`
}

// GitDir locates a repository's git directory. CommonURI is set only for
// linked worktrees whose objects live in a shared store.
type GitDir struct {
	URI       string `json:"uri"`
	CommonURI string `json:"commonUri,omitempty"`
}

// RepositoryInfo is what a backend reports when it opens a repository.
type RepositoryInfo struct {
	Root   string
	GitDir *GitDir
}

// DiscoverOptions narrows repository discovery.
type DiscoverOptions struct {
	// Depth is how many directory levels below the root are searched.
	Depth int
	// Exclude holds path.Match patterns for directory names to skip.
	Exclude []string
}
