package provider

// ID identifies a backend.
type ID string

// Built-in backend IDs.
const (
	IDGit    ID = "git"
	IDGitHub ID = "github"
	IDVsls   ID = "vsls"
)

// Descriptor is the static identity of a backend.
//
// Virtual backends have no local working tree. They never offer staging or
// worktrees, and in gitprov they also skip stash, mutating operations and
// terminal execution.
type Descriptor struct {
	ID      ID     `json:"id"`
	Name    string `json:"name"`
	Virtual bool   `json:"virtual"`
}

func (d Descriptor) String() string {
	return string(d.ID)
}
