package main

import (
	"context"
	"time"

	"github.com/sahilm/fuzzy"

	"github.com/raphi011/gitprov/internal/log"
	"github.com/raphi011/gitprov/internal/output"
	"github.com/raphi011/gitprov/internal/ui/static"
)

// render writes v as JSON or rows as a table, depending on --format.
// empty is logged instead of an empty table.
func render(ctx context.Context, v any, headers []string, rows [][]string, empty string) error {
	out := output.FromContext(ctx)
	if out.Resolve(output.Format(format)) == output.FormatJSON {
		return out.JSON(v)
	}
	if len(rows) == 0 {
		if empty != "" {
			log.FromContext(ctx).Println(empty)
		}
		return nil
	}
	out.Print(static.RenderTable(headers, rows))
	return nil
}

// fuzzyFilter keeps the items whose key fuzzy-matches pattern, best match
// first. An empty pattern keeps everything in order.
func fuzzyFilter[T any](pattern string, items []T, key func(T) string) []T {
	if pattern == "" {
		return items
	}
	keys := make([]string, len(items))
	for i, item := range items {
		keys[i] = key(item)
	}
	matches := fuzzy.Find(pattern, keys)
	out := make([]T, 0, len(matches))
	for _, m := range matches {
		out = append(out, items[m.Index])
	}
	return out
}

// orDash returns "-" for empty table cells.
func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}
