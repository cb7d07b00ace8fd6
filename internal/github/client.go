package github

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v67/github"
	"github.com/jmgilman/go/errors"

	"github.com/raphi011/gitprov/internal/provider"
)

// maxPerPage is the largest page size the REST API accepts.
const maxPerPage = 100

// Client reads repository data from the GitHub REST API.
type Client struct {
	gh *github.Client
}

type config struct {
	httpClient *http.Client
	token      string
	baseURL    string
}

// Option configures a Client.
type Option func(*config) error

// WithToken authenticates requests. Without a token only public
// repositories are readable.
func WithToken(token string) Option {
	return func(cfg *config) error {
		cfg.token = token
		return nil
	}
}

// WithBaseURL points the client at a GitHub Enterprise API or a test server.
func WithBaseURL(baseURL string) Option {
	return func(cfg *config) error {
		if baseURL == "" {
			return nil
		}
		u, err := url.Parse(baseURL)
		if err != nil || !u.IsAbs() {
			err := errors.New(errors.CodeInvalidInput, "base URL must be absolute")
			return errors.WithContext(err, "field", "base_url")
		}
		cfg.baseURL = baseURL
		return nil
	}
}

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(c *http.Client) Option {
	return func(cfg *config) error {
		cfg.httpClient = c
		return nil
	}
}

// New creates a client.
func New(opts ...Option) (*Client, error) {
	cfg := &config{}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	gh := github.NewClient(cfg.httpClient)
	if cfg.token != "" {
		gh = gh.WithAuthToken(cfg.token)
	}
	if cfg.baseURL != "" {
		base := cfg.baseURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		u, err := url.Parse(base)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeInvalidInput, "parse base URL")
		}
		gh.BaseURL = u
	}
	return &Client{gh: gh}, nil
}

// Repository is the hosting metadata of a repository.
type Repository struct {
	Owner         string
	Name          string
	DefaultBranch string
	CloneURL      string
	HTMLURL       string
	Private       bool
}

// GetRepository returns nil when the repository does not exist or is not
// visible with the configured token.
func (c *Client) GetRepository(ctx context.Context, owner, repo string) (*Repository, error) {
	r, resp, err := c.gh.Repositories.Get(ctx, owner, repo)
	if err != nil {
		if notFound(err, resp) {
			return nil, nil
		}
		return nil, wrapError(err, resp, "get repository")
	}
	return &Repository{
		Owner:         r.GetOwner().GetLogin(),
		Name:          r.GetName(),
		DefaultBranch: r.GetDefaultBranch(),
		CloneURL:      r.GetCloneURL(),
		HTMLURL:       r.GetHTMLURL(),
		Private:       r.GetPrivate(),
	}, nil
}

// ListBranches returns every branch, following pagination.
func (c *Client) ListBranches(ctx context.Context, owner, repo string) ([]provider.Branch, error) {
	opts := &github.BranchListOptions{ListOptions: github.ListOptions{PerPage: maxPerPage}}

	var out []provider.Branch
	for {
		page, resp, err := c.gh.Repositories.ListBranches(ctx, owner, repo, opts)
		if err != nil {
			return nil, wrapError(err, resp, "list branches")
		}
		for _, b := range page {
			out = append(out, provider.Branch{Name: b.GetName(), SHA: b.GetCommit().GetSHA()})
		}
		if resp.NextPage == 0 {
			return out, nil
		}
		opts.Page = resp.NextPage
	}
}

// GetBranch returns nil when the branch does not exist.
func (c *Client) GetBranch(ctx context.Context, owner, repo, name string) (*provider.Branch, error) {
	b, resp, err := c.gh.Repositories.GetBranch(ctx, owner, repo, name, 1)
	if err != nil {
		if notFound(err, resp) {
			return nil, nil
		}
		return nil, wrapError(err, resp, "get branch")
	}
	br := provider.Branch{Name: b.GetName(), SHA: b.GetCommit().GetSHA()}
	if date := b.GetCommit().GetCommit().GetCommitter().GetDate(); !date.IsZero() {
		br.Date = date.Time
	}
	return &br, nil
}

// ListTags returns every tag. The API does not say whether a tag is
// annotated, so all tags are reported as lightweight.
func (c *Client) ListTags(ctx context.Context, owner, repo string) ([]provider.Tag, error) {
	opts := &github.ListOptions{PerPage: maxPerPage}

	var out []provider.Tag
	for {
		page, resp, err := c.gh.Repositories.ListTags(ctx, owner, repo, opts)
		if err != nil {
			return nil, wrapError(err, resp, "list tags")
		}
		for _, t := range page {
			out = append(out, provider.Tag{Name: t.GetName(), SHA: t.GetCommit().GetSHA()})
		}
		if resp.NextPage == 0 {
			return out, nil
		}
		opts.Page = resp.NextPage
	}
}

// GetCommit returns nil when ref does not resolve.
func (c *Client) GetCommit(ctx context.Context, owner, repo, ref string) (*provider.Commit, error) {
	rc, resp, err := c.gh.Repositories.GetCommit(ctx, owner, repo, ref, nil)
	if err != nil {
		if notFound(err, resp) || unprocessable(resp) {
			return nil, nil
		}
		return nil, wrapError(err, resp, "get commit")
	}
	commit := convertCommit(rc)
	return &commit, nil
}

// ListCommits pages through history newest first until opts' limit is
// reached. HasMore is set when more commits exist.
func (c *Client) ListCommits(ctx context.Context, owner, repo string, opts provider.LogOptions) (*provider.Log, error) {
	limit := opts.EffectiveLimit()
	listOpts := &github.CommitsListOptions{
		SHA:         opts.Ref,
		Path:        opts.Path,
		ListOptions: github.ListOptions{PerPage: min(limit+1, maxPerPage)},
	}

	out := &provider.Log{Commits: []provider.Commit{}}
	for {
		page, resp, err := c.gh.Repositories.ListCommits(ctx, owner, repo, listOpts)
		if err != nil {
			// an empty repository answers 409
			if resp != nil && resp.StatusCode == http.StatusConflict {
				return out, nil
			}
			return nil, wrapError(err, resp, "list commits")
		}
		for _, rc := range page {
			if len(out.Commits) == limit {
				out.HasMore = true
				return out, nil
			}
			out.Commits = append(out.Commits, convertCommit(rc))
		}
		if resp.NextPage == 0 {
			return out, nil
		}
		listOpts.Page = resp.NextPage
	}
}

// Comparison is the result of comparing two refs.
type Comparison struct {
	MergeBase string
	Files     []provider.FileChange
}

// Compare compares base with head. It returns nil when either ref does not
// resolve.
func (c *Client) Compare(ctx context.Context, owner, repo, base, head string) (*Comparison, error) {
	cmp, resp, err := c.gh.Repositories.CompareCommits(ctx, owner, repo, base, head, &github.ListOptions{PerPage: maxPerPage})
	if err != nil {
		if notFound(err, resp) {
			return nil, nil
		}
		return nil, wrapError(err, resp, "compare commits")
	}

	out := &Comparison{
		MergeBase: cmp.GetMergeBaseCommit().GetSHA(),
		Files:     make([]provider.FileChange, 0, len(cmp.Files)),
	}
	for _, f := range cmp.Files {
		out.Files = append(out.Files, convertFile(f))
	}
	return out, nil
}

// ListContributors returns contributors ordered by contribution count, as
// the API reports them.
func (c *Client) ListContributors(ctx context.Context, owner, repo string, limit int) ([]provider.Contributor, error) {
	opts := &github.ListContributorsOptions{ListOptions: github.ListOptions{PerPage: maxPerPage}}

	var out []provider.Contributor
	for {
		page, resp, err := c.gh.Repositories.ListContributors(ctx, owner, repo, opts)
		if err != nil {
			return nil, wrapError(err, resp, "list contributors")
		}
		for _, ct := range page {
			name := ct.GetLogin()
			if name == "" {
				name = ct.GetName()
			}
			out = append(out, provider.Contributor{Name: name, Email: ct.GetEmail(), Commits: ct.GetContributions()})
			if limit > 0 && len(out) == limit {
				return out, nil
			}
		}
		if resp.NextPage == 0 {
			return out, nil
		}
		opts.Page = resp.NextPage
	}
}

func unprocessable(resp *github.Response) bool {
	return resp != nil && resp.StatusCode == http.StatusUnprocessableEntity
}

func convertCommit(rc *github.RepositoryCommit) provider.Commit {
	c := rc.GetCommit()
	out := provider.Commit{
		SHA:        rc.GetSHA(),
		ParentSHAs: make([]string, 0, len(rc.Parents)),
		Author:     convertAuthor(c.GetAuthor()),
		Committer:  convertAuthor(c.GetCommitter()),
		Message:    c.GetMessage(),
	}
	for _, p := range rc.Parents {
		out.ParentSHAs = append(out.ParentSHAs, p.GetSHA())
	}
	return out
}

func convertAuthor(a *github.CommitAuthor) provider.Signature {
	sig := provider.Signature{Name: a.GetName(), Email: a.GetEmail()}
	if date := a.GetDate(); !date.IsZero() {
		sig.When = date.Time
	}
	return sig
}

func convertFile(f *github.CommitFile) provider.FileChange {
	fc := provider.FileChange{Path: f.GetFilename()}
	switch f.GetStatus() {
	case "added":
		fc.Status = provider.StatusAdded
	case "removed":
		fc.Status = provider.StatusDeleted
	case "renamed":
		fc.Status = provider.StatusRenamed
		fc.OriginalPath = f.GetPreviousFilename()
	case "copied":
		fc.Status = provider.StatusCopied
		fc.OriginalPath = f.GetPreviousFilename()
	default:
		fc.Status = provider.StatusModified
	}
	return fc
}
