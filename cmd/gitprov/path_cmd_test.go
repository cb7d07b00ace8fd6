package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/raphi011/gitprov/internal/output"
)

// runPath executes "path <args>" and returns its stdout.
func runPath(t *testing.T, args ...string) string {
	t.Helper()
	var stdout bytes.Buffer
	cmd := newPathCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&bytes.Buffer{})
	if err := cmd.ExecuteContext(output.WithPrinter(t.Context(), &stdout)); err != nil {
		t.Fatalf("path %s error = %v", strings.Join(args, " "), err)
	}
	return stdout.String()
}

func TestPathCmd(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"normalize", []string{"normalize", `src\app\`}, "src/app\n"},
		{"relative", []string{"relative", "/repo", "/repo/src/a.ts"}, "src/a.ts\n"},
		{"relative unrelated", []string{"relative", "/repo", "/other/a.ts"}, "/other/a.ts\n"},
		{"within", []string{"within", "/repo/src/a.ts", "/repo"}, "true\n"},
		{"within sibling prefix", []string{"within", "/repository", "/repo"}, "false\n"},
		{"within child", []string{"within", "--child", "/repo/src/a.ts", "/repo"}, "false\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := runPath(t, tt.args...); got != tt.want {
				t.Errorf("path %v = %q, want %q", tt.args, got, tt.want)
			}
		})
	}
}

func TestPathCmd_Split(t *testing.T) {
	t.Parallel()

	// a buffer is not a terminal, so output defaults to JSON
	got := runPath(t, "split", "/repo/src/a.ts", "/repo")

	var res struct {
		Relative string `json:"relative"`
		Root     string `json:"root"`
	}
	if err := json.Unmarshal([]byte(got), &res); err != nil {
		t.Fatalf("path split output %q is not JSON: %v", got, err)
	}
	if res.Relative != "src/a.ts" || res.Root != "/repo" {
		t.Errorf("path split = %+v, want src/a.ts in /repo", res)
	}
}
