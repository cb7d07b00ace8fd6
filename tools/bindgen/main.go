// Package main generates repository-bound views of the sub-provider
// interfaces in internal/provider.
//
// For every interface named *SubProvider it emits a Bound* struct whose
// methods drop the leading repoPath parameter and forward to the wrapped
// sub-provider. It also emits BoundSubProviders and Bind, mirroring the
// fields of the SubProviders struct.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
)

func main() {
	var (
		dir string
		out string
	)

	flag.StringVar(&dir, "dir", ".", "package directory containing the sub-provider interfaces")
	flag.StringVar(&out, "out", "bound.go", "output file, relative to -dir")
	flag.Parse()

	absDir, err := filepath.Abs(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error resolving directory: %v\n", err)
		os.Exit(1)
	}

	pkg, err := ParsePackage(absDir, out)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error parsing package: %v\n", err)
		os.Exit(1)
	}

	src, err := Render(pkg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error rendering bindings: %v\n", err)
		os.Exit(1)
	}

	target := filepath.Join(absDir, out)
	if err := os.WriteFile(target, src, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "error writing %s: %v\n", target, err)
		os.Exit(1)
	}

	fmt.Printf("Generated %s with %d bindings\n", target, len(pkg.Interfaces))
}
