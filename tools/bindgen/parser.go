package main

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const interfaceSuffix = "SubProvider"

// Param is one method parameter.
type Param struct {
	Name string
	Type string
}

// Method is an interface method that takes ctx and repoPath first.
type Method struct {
	Name    string
	Params  []Param // parameters after ctx and repoPath
	Results []string
}

// Interface is a parsed sub-provider interface.
type Interface struct {
	Name    string // e.g. "BranchesSubProvider"
	Short   string // e.g. "Branches"
	Methods []Method
	Line    int
}

// Field maps a SubProviders struct field to its interface.
type Field struct {
	Name      string
	Interface string
}

// Package holds everything the renderer needs.
type Package struct {
	Name       string
	Interfaces []Interface
	Fields     []Field
}

// ParsePackage parses the non-test Go files in dir, skipping the output file.
func ParsePackage(dir, skip string) (*Package, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	fset := token.NewFileSet()
	pkg := &Package{}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") || name == skip {
			continue
		}

		file, err := parser.ParseFile(fset, filepath.Join(dir, name), nil, parser.ParseComments)
		if err != nil {
			return nil, err
		}
		pkg.Name = file.Name.Name

		for _, decl := range file.Decls {
			gen, ok := decl.(*ast.GenDecl)
			if !ok || gen.Tok != token.TYPE {
				continue
			}
			for _, spec := range gen.Specs {
				ts := spec.(*ast.TypeSpec)
				switch t := ts.Type.(type) {
				case *ast.InterfaceType:
					if !strings.HasSuffix(ts.Name.Name, interfaceSuffix) {
						continue
					}
					iface, err := parseInterface(fset, ts.Name.Name, t)
					if err != nil {
						return nil, err
					}
					pkg.Interfaces = append(pkg.Interfaces, iface)
				case *ast.StructType:
					if ts.Name.Name == "SubProviders" {
						pkg.Fields = parseFields(t)
					}
				}
			}
		}
	}

	sort.Slice(pkg.Interfaces, func(i, j int) bool {
		return pkg.Interfaces[i].Line < pkg.Interfaces[j].Line
	})

	if len(pkg.Fields) == 0 {
		return nil, fmt.Errorf("no SubProviders struct found in %s", dir)
	}
	return pkg, nil
}

func parseInterface(fset *token.FileSet, name string, t *ast.InterfaceType) (Interface, error) {
	iface := Interface{
		Name:  name,
		Short: strings.TrimSuffix(name, interfaceSuffix),
		Line:  fset.Position(t.Pos()).Line,
	}

	for _, m := range t.Methods.List {
		fn, ok := m.Type.(*ast.FuncType)
		if !ok || len(m.Names) == 0 {
			continue
		}

		params := flatten(fn.Params)
		if len(params) < 2 || params[0].Type != "context.Context" || params[1].Name != "repoPath" {
			return Interface{}, fmt.Errorf("%s.%s: want (ctx context.Context, repoPath string, ...)", name, m.Names[0].Name)
		}

		var results []string
		for _, r := range flatten(fn.Results) {
			results = append(results, r.Type)
		}

		iface.Methods = append(iface.Methods, Method{
			Name:    m.Names[0].Name,
			Params:  params[2:],
			Results: results,
		})
	}
	return iface, nil
}

// flatten expands grouped parameters like "ref1, ref2 string".
func flatten(fields *ast.FieldList) []Param {
	if fields == nil {
		return nil
	}
	var out []Param
	for _, f := range fields.List {
		typ := types.ExprString(f.Type)
		if len(f.Names) == 0 {
			out = append(out, Param{Type: typ})
			continue
		}
		for _, n := range f.Names {
			out = append(out, Param{Name: n.Name, Type: typ})
		}
	}
	return out
}

func parseFields(t *ast.StructType) []Field {
	var fields []Field
	for _, f := range t.Fields.List {
		ident, ok := f.Type.(*ast.Ident)
		if !ok || !strings.HasSuffix(ident.Name, interfaceSuffix) {
			continue
		}
		for _, n := range f.Names {
			fields = append(fields, Field{Name: n.Name, Interface: ident.Name})
		}
	}
	return fields
}
