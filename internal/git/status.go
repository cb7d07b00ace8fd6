package git

import (
	"strconv"
	"strings"

	"github.com/jmgilman/go/errors"

	"github.com/raphi011/gitprov/internal/provider"
)

// StatusArgs produces the output ParseStatus understands.
var StatusArgs = []string{"status", "--porcelain=v2", "--branch", "-z", "--untracked-files=all"}

// ParseStatus parses `git status --porcelain=v2 --branch -z`.
func ParseStatus(out []byte) (*provider.Status, error) {
	st := &provider.Status{Files: []provider.FileStatus{}}
	fields := strings.Split(string(out), "\x00")

	for i := 0; i < len(fields); i++ {
		entry := fields[i]
		if entry == "" {
			continue
		}

		switch entry[0] {
		case '#':
			parseBranchHeader(st, entry)
		case '1':
			// 1 XY sub mH mI mW hH hI path
			parts := strings.SplitN(entry, " ", 9)
			if len(parts) != 9 {
				return nil, malformed("status", entry)
			}
			st.Files = append(st.Files, fileStatus(parts[1], parts[8], ""))
		case '2':
			// 2 XY sub mH mI mW hH hI Xscore path, followed by the original path
			parts := strings.SplitN(entry, " ", 10)
			if len(parts) != 10 || i+1 >= len(fields) {
				return nil, malformed("status", entry)
			}
			i++
			st.Files = append(st.Files, fileStatus(parts[1], parts[9], fields[i]))
		case 'u':
			// u XY sub m1 m2 m3 mW h1 h2 h3 path
			parts := strings.SplitN(entry, " ", 11)
			if len(parts) != 11 {
				return nil, malformed("status", entry)
			}
			st.Files = append(st.Files, fileStatus(parts[1], parts[10], ""))
		case '?':
			st.Files = append(st.Files, provider.FileStatus{
				Path:        strings.TrimPrefix(entry, "? "),
				Index:       provider.StatusUntracked,
				WorkingTree: provider.StatusUntracked,
			})
		case '!':
			st.Files = append(st.Files, provider.FileStatus{
				Path:        strings.TrimPrefix(entry, "! "),
				Index:       provider.StatusIgnored,
				WorkingTree: provider.StatusIgnored,
			})
		default:
			return nil, malformed("status", entry)
		}
	}

	return st, nil
}

func parseBranchHeader(st *provider.Status, line string) {
	key, value, _ := strings.Cut(strings.TrimPrefix(line, "# "), " ")
	switch key {
	case "branch.oid":
		if value != "(initial)" {
			st.SHA = value
		}
	case "branch.head":
		if value == "(detached)" {
			st.Detached = true
			return
		}
		st.Branch = value
	case "branch.upstream":
		st.Upstream = value
	case "branch.ab":
		ahead, behind, _ := strings.Cut(value, " ")
		st.Ahead, _ = strconv.Atoi(strings.TrimPrefix(ahead, "+"))
		st.Behind, _ = strconv.Atoi(strings.TrimPrefix(behind, "-"))
	}
}

func fileStatus(xy, path, orig string) provider.FileStatus {
	return provider.FileStatus{
		Path:         path,
		OriginalPath: orig,
		Index:        statusCode(xy[0]),
		WorkingTree:  statusCode(xy[1]),
	}
}

// statusCode maps a porcelain v2 letter; v2 writes '.' for unmodified.
func statusCode(c byte) provider.StatusCode {
	if c == '.' {
		return provider.StatusUnmodified
	}
	return provider.StatusCode(c)
}

func malformed(what, entry string) error {
	return errors.WithContext(
		errors.Newf(errors.CodeExecutionFailed, "malformed git %s output", what),
		"entry", entry)
}
