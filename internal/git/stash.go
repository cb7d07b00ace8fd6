package git

import (
	"strconv"
	"strings"
	"time"

	"github.com/raphi011/gitprov/internal/provider"
)

// StashListArgs produces the output ParseStashList understands.
var StashListArgs = []string{"stash", "list", "--format=%gd%x1f%H%x1f%ct%x1f%gs"}

// ParseStashList parses the StashListArgs format, newest entry first.
func ParseStashList(out []byte) (*provider.Stash, error) {
	stash := &provider.Stash{Entries: []provider.StashEntry{}}

	for _, line := range strings.Split(string(out), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		parts := strings.SplitN(line, "\x1f", 4)
		if len(parts) != 4 {
			return nil, malformed("stash list", line)
		}
		entry := provider.StashEntry{
			Ref:     parts[0],
			SHA:     parts[1],
			Message: parts[3],
		}
		if secs, err := strconv.ParseInt(parts[2], 10, 64); err == nil {
			entry.Date = time.Unix(secs, 0).UTC()
		}
		stash.Entries = append(stash.Entries, entry)
	}

	return stash, nil
}

// StashPushArgs builds `git stash push` for the given options.
func StashPushArgs(message string, opts provider.StashSaveOptions) []string {
	args := []string{"stash", "push"}
	if opts.IncludeUntracked {
		args = append(args, "--include-untracked")
	}
	if opts.KeepIndex {
		args = append(args, "--keep-index")
	}
	if message != "" {
		args = append(args, "-m", message)
	}
	if len(opts.Paths) > 0 {
		args = append(args, "--")
		args = append(args, opts.Paths...)
	}
	return args
}
