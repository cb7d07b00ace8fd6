package main

import (
	"bytes"
	"fmt"
	"go/format"
	"strings"
	"text/template"
)

var boundTemplate = template.Must(template.New("bound").Funcs(template.FuncMap{
	"params":  renderParams,
	"args":    renderArgs,
	"results": renderResults,
	"bound":   func(short string) string { return "Bound" + short },
	"short":   func(iface string) string { return strings.TrimSuffix(iface, interfaceSuffix) },
}).Parse(`// Code generated by bindgen. DO NOT EDIT.

package {{.Name}}

import "context"
{{range .Interfaces}}
// {{bound .Short}} is a {{.Name}} bound to one repository.
type {{bound .Short}} struct {
	sub      {{.Name}}
	repoPath string
}

// Bind{{.Short}} binds sub to repoPath. It returns nil when sub is nil.
func Bind{{.Short}}(sub {{.Name}}, repoPath string) *{{bound .Short}} {
	if sub == nil {
		return nil
	}
	return &{{bound .Short}}{sub: sub, repoPath: repoPath}
}

// RepoPath returns the repository path every call is forwarded with.
func (b *{{bound .Short}}) RepoPath() string { return b.repoPath }
{{$short := .Short}}{{range .Methods}}
func (b *{{bound $short}}) {{.Name}}(ctx context.Context{{params .Params}}) {{results .Results}} {
	return b.sub.{{.Name}}(ctx, b.repoPath{{args .Params}})
}
{{end}}{{end}}
// BoundSubProviders holds the sub-providers of one backend bound to one
// repository. Optional groups the backend lacks stay nil.
type BoundSubProviders struct {
	RepoPath string
{{range .Fields}}	{{.Name}} *Bound{{short .Interface}}
{{end}}}

// Bind binds every group of s to repoPath.
func Bind(s SubProviders, repoPath string) *BoundSubProviders {
	return &BoundSubProviders{
		RepoPath: repoPath,
{{range .Fields}}		{{.Name}}: Bind{{short .Interface}}(s.{{.Name}}, repoPath),
{{end}}	}
}
`))

// Render produces gofmt-ed source for pkg.
func Render(pkg *Package) ([]byte, error) {
	var buf bytes.Buffer
	if err := boundTemplate.Execute(&buf, pkg); err != nil {
		return nil, err
	}
	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("format generated code: %w\n%s", err, buf.String())
	}
	return src, nil
}

func renderParams(params []Param) string {
	var b strings.Builder
	for _, p := range params {
		fmt.Fprintf(&b, ", %s %s", p.Name, p.Type)
	}
	return b.String()
}

func renderArgs(params []Param) string {
	var b strings.Builder
	for _, p := range params {
		b.WriteString(", " + p.Name)
	}
	return b.String()
}

func renderResults(results []string) string {
	switch len(results) {
	case 0:
		return ""
	case 1:
		return results[0]
	default:
		return "(" + strings.Join(results, ", ") + ")"
	}
}
