package history

import (
	"fmt"
	"go/ast"
	"go/doc"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"sort"
	"strings"

	apperrors "gxkit/internal/errors"
)

// ScanDir builds a module from the exported API of the Go package in dir.
// Package-level funcs, including constructors grouped under a type, are
// functions; types are classes, or exceptions when they have an
// Error() string method; methods become class members.
func ScanDir(dir, moduleName string) (Module, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return Module{}, apperrors.NewResourceError(fmt.Sprintf("failed to read source dir %s", dir), err)
	}

	fset := token.NewFileSet()
	var astFiles []*ast.File
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
			continue
		}
		f, err := parser.ParseFile(fset, filepath.Join(dir, name), nil, parser.ParseComments)
		if err != nil {
			return Module{}, apperrors.NewParsingError(fmt.Sprintf("failed to parse %s", name), err)
		}
		astFiles = append(astFiles, f)
	}
	if len(astFiles) == 0 {
		return Module{}, apperrors.NewResourceError(fmt.Sprintf("no Go files in %s", dir), nil)
	}

	pkg, err := doc.NewFromFiles(fset, astFiles, moduleName)
	if err != nil {
		return Module{}, apperrors.NewParsingError(fmt.Sprintf("failed to read docs in %s", dir), err)
	}

	mod := Module{Name: moduleName}
	for _, fn := range pkg.Funcs {
		mod.Symbols = append(mod.Symbols, Symbol{Name: fn.Name, Kind: KindFunction, Doc: fn.Doc})
	}

	for _, t := range pkg.Types {
		for _, fn := range t.Funcs {
			mod.Symbols = append(mod.Symbols, Symbol{Name: fn.Name, Kind: KindFunction, Doc: fn.Doc})
		}

		sym := Symbol{Name: t.Name, Kind: KindClass, Doc: t.Doc}
		for _, m := range t.Methods {
			if isErrorMethod(m) {
				sym.Kind = KindException
			}
			sym.Members = append(sym.Members, Symbol{Name: m.Name, Kind: KindMethod, Doc: m.Doc})
		}
		mod.Symbols = append(mod.Symbols, sym)
	}

	sort.SliceStable(mod.Symbols, func(i, j int) bool {
		return mod.Symbols[i].Name < mod.Symbols[j].Name
	})
	return mod, nil
}

// isErrorMethod reports whether m has the signature Error() string
func isErrorMethod(m *doc.Func) bool {
	if m.Name != "Error" || m.Decl == nil {
		return false
	}
	ft := m.Decl.Type
	if ft.Params != nil && len(ft.Params.List) > 0 {
		return false
	}
	if ft.Results == nil || len(ft.Results.List) != 1 || len(ft.Results.List[0].Names) > 1 {
		return false
	}
	ident, ok := ft.Results.List[0].Type.(*ast.Ident)
	return ok && ident.Name == "string"
}
