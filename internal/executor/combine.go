package executor

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/parser"
	"go/printer"
	"go/token"
	"sort"
	"strconv"
	"strings"
)

// importRef is one import of a fragment. alias is empty for a plain import
// and for an explicit alias that matches the path's base name.
type importRef struct {
	alias string
	path  string
}

// fragment is one participant's parsed submission.
type fragment struct {
	role    string
	imports []importRef
	decls   string // top-level declarations, imports stripped
	hasMain bool
}

// parseFragment parses one submission. Submissions are plain top-level Go
// declarations; a package clause is optional and ignored if present. The
// source is parsed as-is first so a leading comment before the clause still
// counts, then retried wrapped in a package clause.
func parseFragment(role, code string) (*fragment, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, role+".go", code, 0)
	if err != nil {
		fset = token.NewFileSet()
		file, err = parser.ParseFile(fset, role+".go", "package main\n\n"+code, 0)
		if err != nil {
			return nil, fmt.Errorf("role %s does not parse: %w", role, err)
		}
	}

	f := &fragment{role: role}
	var buf bytes.Buffer
	for _, decl := range file.Decls {
		if gd, ok := decl.(*ast.GenDecl); ok && gd.Tok == token.IMPORT {
			for _, spec := range gd.Specs {
				imp := spec.(*ast.ImportSpec)
				path, err := strconv.Unquote(imp.Path.Value)
				if err != nil {
					return nil, fmt.Errorf("role %s has a malformed import: %w", role, err)
				}
				var alias string
				if imp.Name != nil {
					alias = imp.Name.Name
				}
				if alias == path[strings.LastIndex(path, "/")+1:] {
					alias = ""
				}
				f.imports = append(f.imports, importRef{alias: alias, path: path})
			}
			continue
		}
		if fd, ok := decl.(*ast.FuncDecl); ok && fd.Name.Name == "main" && fd.Recv == nil {
			f.hasMain = true
		}
		if err := printer.Fprint(&buf, fset, decl); err != nil {
			return nil, fmt.Errorf("failed to render role %s: %w", role, err)
		}
		buf.WriteString("\n\n")
	}
	f.decls = buf.String()
	return f, nil
}

// combine builds a single package-main program from the two fragments, role A
// first then role B, with imports hoisted and deduplicated. The order is
// fixed; which role defines and which calls is the challenge's own contract.
func combine(a, b *fragment) (string, error) {
	if !a.hasMain && !b.hasMain {
		return "", fmt.Errorf("neither submission declares func main")
	}
	if a.hasMain && b.hasMain {
		return "", fmt.Errorf("both submissions declare func main")
	}

	// Dedupe by path, keeping the alias. The same path aliased two different
	// ways would leave one side's references dangling, so that is rejected.
	aliasByPath := make(map[string]string)
	var paths []string
	for _, imp := range append(append([]importRef{}, a.imports...), b.imports...) {
		if alias, ok := aliasByPath[imp.path]; ok {
			if alias != imp.alias {
				return "", fmt.Errorf("import %q is aliased inconsistently across the two submissions", imp.path)
			}
			continue
		}
		aliasByPath[imp.path] = imp.alias
		paths = append(paths, imp.path)
	}
	sort.Strings(paths)

	var buf bytes.Buffer
	buf.WriteString("package main\n\n")
	if len(paths) > 0 {
		buf.WriteString("import (\n")
		for _, path := range paths {
			if alias := aliasByPath[path]; alias != "" {
				fmt.Fprintf(&buf, "\t%s %q\n", alias, path)
			} else {
				fmt.Fprintf(&buf, "\t%q\n", path)
			}
		}
		buf.WriteString(")\n\n")
	}
	fmt.Fprintf(&buf, "// role A submission\n%s", a.decls)
	fmt.Fprintf(&buf, "// role B submission\n%s", b.decls)

	// The combined unit must itself parse before it reaches the interpreter.
	fset := token.NewFileSet()
	if _, err := parser.ParseFile(fset, "combined.go", buf.String(), 0); err != nil {
		return "", fmt.Errorf("combined program does not parse: %w", err)
	}
	return buf.String(), nil
}
