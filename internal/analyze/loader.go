package analyze

import (
	"context"
	"errors"
	"fmt"
	"go/ast"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/tools/go/packages"

	"model-usage/internal/diagnostic"
)

// LoadMode specifies what information to load from packages.
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedCompiledGoFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedImports

// Loader loads Go packages into a Project.
type Loader struct {
	// Dir is the directory the patterns are resolved in (default: cwd).
	Dir string
	// Patterns are standard Go package patterns (e.g., "./...", "model-usage/store").
	Patterns []string
	// Tests also loads _test.go files.
	Tests bool
	// BuildFlags are passed to the build system (e.g., "-tags=integration").
	BuildFlags []string
	// Env overrides the environment of the build system.
	Env []string
}

// Load loads the packages and builds the Project. A failure of the build
// system itself, or any listing or parse error, aborts the load: nothing
// can be analysed without the project configuration. Type errors only
// degrade type information and are recorded as warnings.
func (l Loader) Load(ctx context.Context) (*Project, error) {
	patterns := l.Patterns
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}

	cfg := &packages.Config{
		Context:    ctx,
		Mode:       LoadMode,
		Dir:        l.Dir,
		Tests:      l.Tests,
		BuildFlags: l.BuildFlags,
		Env:        l.Env,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}

	// Check for package errors
	var errs []error

	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			if e.Kind != packages.TypeError {
				errs = append(errs, e)
			}
		}
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("package errors: %w", errors.Join(errs...))
	}

	// Deterministic order: by package path, then by file name.
	sort.Slice(pkgs, func(i, j int) bool { return pkgs[i].ID < pkgs[j].ID })

	if len(pkgs) == 0 {
		return NewProject(token.NewFileSet()), nil
	}

	proj := NewProject(pkgs[0].Fset)

	for _, pkg := range pkgs {
		if strings.HasSuffix(pkg.ID, ".test") {
			// synthesized test main
			continue
		}

		for _, e := range pkg.Errors {
			proj.Diagnostics.Add(diagnostic.Diagnostic{
				Severity: diagnostic.DiagnosticWarning,
				Code:     diagnostic.CodeTypeError,
				Message:  e.Msg,
				Pos:      parsePos(e.Pos),
			})
		}

		processPackage(proj, pkg)
	}

	return proj, nil
}

// processPackage adds the files of a loaded package to the project.
func processPackage(proj *Project, pkg *packages.Package) {
	files := make([]*SourceFile, 0, len(pkg.Syntax))

	for _, syntax := range pkg.Syntax {
		files = append(files, &SourceFile{
			Path:   pkg.Fset.Position(syntax.Pos()).Filename,
			Pkg:    pkg.Types,
			Syntax: syntax,
			Info:   pkg.TypesInfo,
		})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })

	for _, f := range files {
		proj.AddFile(f)
	}
}

// parsePos converts a "file:line:col" (or "file:line") position string
// reported by packages.Error.
func parsePos(s string) token.Position {
	rest := s

	var nums []int

	for range 2 {
		i := strings.LastIndexByte(rest, ':')
		if i < 0 {
			break
		}

		n, err := strconv.Atoi(rest[i+1:])
		if err != nil {
			break
		}

		nums = append(nums, n)
		rest = rest[:i]
	}

	switch len(nums) {
	case 2:
		return token.Position{Filename: rest, Line: nums[1], Column: nums[0]}
	case 1:
		return token.Position{Filename: rest, Line: nums[0]}
	default:
		return token.Position{Filename: s}
	}
}

// CheckSource parses and type-checks in-memory files forming one package
// with the given import path. Imports are resolved from source. Parse errors
// are returned; type errors are recorded in the project diagnostics.
func CheckSource(pkgPath string, sources map[string]string) (*Project, error) {
	fset := token.NewFileSet()

	names := make([]string, 0, len(sources))
	for name := range sources {
		names = append(names, name)
	}

	sort.Strings(names)

	files := make([]*ast.File, 0, len(names))

	for _, name := range names {
		f, err := parser.ParseFile(fset, name, sources[name], parser.ParseComments)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", name, err)
		}

		files = append(files, f)
	}

	proj := NewProject(fset)
	info := NewInfo()
	conf := types.Config{
		Importer: importer.ForCompiler(fset, "source", nil),
		Error: func(err error) {
			var te types.Error
			if errors.As(err, &te) {
				proj.Diagnostics.Add(diagnostic.Diagnostic{
					Severity: diagnostic.DiagnosticWarning,
					Code:     diagnostic.CodeTypeError,
					Message:  te.Msg,
					Pos:      fset.Position(te.Pos),
				})
			}
		},
	}

	pkg, _ := conf.Check(pkgPath, fset, files, info)

	for i, f := range files {
		proj.AddFile(&SourceFile{Path: names[i], Pkg: pkg, Syntax: f, Info: info})
	}

	return proj, nil
}
