package git

import (
	"strconv"
	"strings"
	"time"

	"github.com/raphi011/gitprov/internal/provider"
)

// BlameArgs builds `git blame --porcelain` for path at rev.
func BlameArgs(path, rev string) []string {
	args := []string{"blame", "--porcelain"}
	if rev != "" {
		args = append(args, rev)
	}
	return append(args, "--", path)
}

type blameCommit struct {
	author  string
	email   string
	when    time.Time
	summary string
}

// ParseBlame parses `git blame --porcelain`. Commit details are only printed
// the first time a commit appears, so they are remembered per SHA.
func ParseBlame(path string, out []byte) (*provider.Blame, error) {
	blame := &provider.Blame{Path: path, Lines: []provider.BlameLine{}}
	commits := make(map[string]*blameCommit)

	var current *provider.BlameLine
	var info *blameCommit

	for _, line := range strings.Split(string(out), "\n") {
		if line == "" {
			continue
		}

		if line[0] == '\t' {
			if current == nil {
				return nil, malformed("blame", line)
			}
			current.Author = info.author
			current.AuthorEmail = info.email
			current.When = info.when
			current.Summary = info.summary
			blame.Lines = append(blame.Lines, *current)
			current = nil
			continue
		}

		if current == nil {
			// <sha> <orig-line> <final-line> [<group-size>]
			parts := strings.Fields(line)
			if len(parts) < 3 || len(parts[0]) < 40 {
				return nil, malformed("blame", line)
			}
			orig, err1 := strconv.Atoi(parts[1])
			final, err2 := strconv.Atoi(parts[2])
			if err1 != nil || err2 != nil {
				return nil, malformed("blame", line)
			}
			sha := parts[0]
			info = commits[sha]
			if info == nil {
				info = &blameCommit{}
				commits[sha] = info
			}
			current = &provider.BlameLine{Line: final, OriginalLine: orig, SHA: sha}
			continue
		}

		key, value, _ := strings.Cut(line, " ")
		switch key {
		case "author":
			info.author = value
		case "author-mail":
			info.email = strings.Trim(value, "<>")
		case "author-time":
			if secs, err := strconv.ParseInt(value, 10, 64); err == nil {
				info.when = time.Unix(secs, 0).UTC()
			}
		case "summary":
			info.summary = value
		}
	}

	return blame, nil
}
