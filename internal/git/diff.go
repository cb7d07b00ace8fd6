package git

import (
	"strings"

	"github.com/raphi011/gitprov/internal/provider"
)

// DiffNameStatusArgs builds `git diff --name-status -z` between two refs.
// An empty ref2 compares ref1 with the working tree.
func DiffNameStatusArgs(ref1, ref2 string) []string {
	args := []string{"diff", "--name-status", "-z", "-M"}
	if ref1 != "" {
		args = append(args, ref1)
	}
	if ref2 != "" {
		args = append(args, ref2)
	}
	return append(args, "--")
}

// ParseNameStatus parses `git diff --name-status -z`.
func ParseNameStatus(out []byte) ([]provider.FileChange, error) {
	fields := strings.Split(strings.TrimSuffix(string(out), "\x00"), "\x00")
	changes := []provider.FileChange{}

	for i := 0; i < len(fields); i++ {
		code := fields[i]
		if code == "" {
			continue
		}
		status := provider.StatusCode(code[0])

		switch status {
		case provider.StatusRenamed, provider.StatusCopied:
			if i+2 >= len(fields) {
				return nil, malformed("diff", code)
			}
			changes = append(changes, provider.FileChange{
				Path:         fields[i+2],
				OriginalPath: fields[i+1],
				Status:       status,
			})
			i += 2
		default:
			if i+1 >= len(fields) {
				return nil, malformed("diff", code)
			}
			changes = append(changes, provider.FileChange{Path: fields[i+1], Status: status})
			i++
		}
	}

	return changes, nil
}
