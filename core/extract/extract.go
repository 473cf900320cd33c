// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package extract finds translatable strings in Go sources, the way lupdate
// does for C++, and returns them as a TS template.
//
// Recognised forms, where i18n is the tslate runtime package under any
// import name:
//
//	i18n.Tr(ctx, "Context", "Source")
//	i18n.Trf(ctx, "Context", "Source %s", args...)
//	i18n.TrN(ctx, "Context", "%n item(s)", n)
//	i18n.NewUserError(ctx, "Context", "Source", args...)
//	tr.Tr(ctx, "Source")                     // tr is a constant i18n.Scope
//	i18n.MsgKey{Context: "Context", Source: "Source"}
//
// Only constant arguments are extracted. A "//:" comment on the line above
// a call becomes the message's extra comment for translators.
package extract

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"go/ast"
	"go/constant"
	"go/token"
	"go/types"
	"maps"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/tools/go/packages"

	"codeberg.org/tslate/tslate/core/ts"
)

// ErrLoad is returned when the Go packages cannot be loaded or type-checked.
var ErrLoad = errors.New("extract: failed to load packages")

// Options configures Extract.
type Options struct {
	// Dir is the directory the package patterns are resolved in.
	// Empty means the current directory.
	Dir string
	// RelativeTo is the directory location filenames are made relative to.
	// Empty means the project root of Dir (git toplevel, else nearest go.mod).
	RelativeTo string
	// SourceLanguage is written to the template's sourcelanguage attribute.
	SourceLanguage string
	// Tests includes _test.go files.
	Tests bool
}

// key is the identity of an extracted message; locations are not part of it.
type key struct {
	context string
	source  string
}

type entry struct {
	refs         []ts.Location
	numerus      bool
	extraComment string
}

// extractor holds the shared state and context for AST analysis within a package.
type extractor struct {
	entries     map[key]*entry
	relativeTo  string
	fset        *token.FileSet
	info        *types.Info
	i18nPkgs    map[string]struct{}
	extraByLine map[string]map[int]string // file -> line of the comment's end -> text
}

// Extract loads the packages matching patterns and returns a TS template
// with every translatable message as unfinished. Contexts are sorted by
// name; messages are ordered by their first location.
func Extract(ctx context.Context, opts Options, patterns ...string) (*ts.File, error) {
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}

	dir := opts.Dir
	if dir == "" {
		dir = "."
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}

	relativeTo := opts.RelativeTo
	if relativeTo == "" {
		relativeTo = findProjectRoot(absDir)
	}

	if relativeTo, err = filepath.Abs(relativeTo); err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}

	pkgs, err := packages.Load(&packages.Config{
		Context: ctx,
		Dir:     absDir,
		Mode:    packages.LoadAllSyntax,
		Tests:   opts.Tests,
	}, patterns...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}

	if n := packages.PrintErrors(pkgs); n > 0 {
		return nil, fmt.Errorf("%w: %d errors", ErrLoad, n)
	}

	entries := extractRefs(pkgs, relativeTo, findI18nPkgPaths(pkgs))

	f := build(entries)
	f.SourceLanguage = opts.SourceLanguage

	return f, nil
}

// extractRefs traverses all Go source files in the given packages,
// looking for i18n function calls and message keys to extract.
func extractRefs(pkgs []*packages.Package, relativeTo string, i18nPkgPaths map[string]struct{}) map[key]*entry {
	entries := map[key]*entry{}
	seen := map[string]bool{}

	for _, p := range pkgs {
		if p.TypesInfo == nil {
			continue
		}

		e := &extractor{
			entries:     entries,
			relativeTo:  relativeTo,
			fset:        p.Fset,
			info:        p.TypesInfo,
			i18nPkgs:    i18nPkgPaths,
			extraByLine: map[string]map[int]string{},
		}

		for _, f := range p.Syntax {
			// With Tests, a package's files are also part of its test variant.
			name := p.Fset.Position(f.Pos()).Filename
			if seen[name] {
				continue
			}

			seen[name] = true

			e.collectExtraComments(f)

			ast.Inspect(f, func(n ast.Node) bool {
				switch x := n.(type) {
				case *ast.CallExpr:
					e.handleCallExpr(x)
				case *ast.CompositeLit:
					e.handleCompositeLit(x)
				}

				return true
			})
		}
	}

	return entries
}

// build turns the collected entries into a deterministic TS template.
func build(entries map[key]*entry) *ts.File {
	byContext := map[string][]ts.Message{}

	for k, e := range entries {
		slices.SortFunc(e.refs, compareLocations)
		e.refs = slices.Compact(e.refs)

		byContext[k.context] = append(byContext[k.context], ts.Message{
			Numerus:      e.numerus,
			Locations:    e.refs,
			Source:       k.source,
			ExtraComment: e.extraComment,
			Translation:  ts.Translation{Type: ts.Unfinished},
		})
	}

	f := &ts.File{Version: ts.DefaultVersion}

	for _, name := range slices.Sorted(maps.Keys(byContext)) {
		msgs := byContext[name]
		slices.SortFunc(msgs, func(a, b ts.Message) int {
			if c := compareLocations(a.Locations[0], b.Locations[0]); c != 0 {
				return c
			}

			return strings.Compare(a.Source, b.Source)
		})

		f.Contexts = append(f.Contexts, ts.Context{Name: name, Messages: msgs})
	}

	return f
}

func compareLocations(a, b ts.Location) int {
	return cmp.Or(strings.Compare(a.Filename, b.Filename), cmp.Compare(a.Line, b.Line))
}

// findI18nPkgPaths returns the set of package paths in this build, including
// dependencies, that define the i18n runtime: a package named "i18n" with a
// Scope string type and a MsgKey struct.
// This lets us require that matched calls come from our i18n package,
// regardless of how it is imported or aliased.
func findI18nPkgPaths(pkgs []*packages.Package) map[string]struct{} {
	out := make(map[string]struct{})

	packages.Visit(pkgs, nil, func(p *packages.Package) {
		if p.Name != "i18n" || p.Types == nil {
			return
		}

		scope := p.Types.Scope()

		if !isNamedWithUnderlying[*types.Basic](scope.Lookup("Scope")) {
			return
		}

		if isNamedWithUnderlying[*types.Struct](scope.Lookup("MsgKey")) {
			out[p.PkgPath] = struct{}{}
		}
	})

	return out
}

func isNamedWithUnderlying[U types.Type](obj types.Object) bool {
	tn, ok := obj.(*types.TypeName)
	if !ok {
		return false
	}

	named, ok := tn.Type().(*types.Named)
	if !ok {
		return false
	}

	_, ok = named.Underlying().(U)

	return ok
}

// constString evaluates expr to a constant string if possible using types.Info.
// Handles string literals, const identifiers, and constant expressions like "a" + "b".
// Non-constant expressions return false.
func constString(info *types.Info, expr ast.Expr) (string, bool) {
	tv, ok := info.Types[expr]
	if !ok || tv.Value == nil || tv.Value.Kind() != constant.String {
		return "", false
	}

	return constant.StringVal(tv.Value), true
}

// isI18nType reports whether t is exactly the named type i18n.<name>.
// Type aliases resolve to the named type, so they match too.
func (e *extractor) isI18nType(t types.Type, name string) bool {
	if p, ok := t.(*types.Pointer); ok {
		t = p.Elem()
	}

	named, ok := t.(*types.Named)
	if !ok {
		return false
	}

	obj := named.Obj()
	if obj == nil || obj.Pkg() == nil {
		return false
	}

	if _, ok := e.i18nPkgs[obj.Pkg().Path()]; !ok {
		return false
	}

	return obj.Name() == name
}

// handleCompositeLit extracts i18n.MsgKey literals, keyed or positional.
// Elements of slices and maps of MsgKey are literals themselves, so they
// are found with their element type elided too.
func (e *extractor) handleCompositeLit(x *ast.CompositeLit) {
	tv, ok := e.info.Types[x]
	if !ok || tv.Type == nil || !e.isI18nType(tv.Type, "MsgKey") {
		return
	}

	st, ok := tv.Type.Underlying().(*types.Struct)
	if !ok {
		return
	}

	fields := map[string]ast.Expr{}

	for i, elt := range x.Elts {
		if kv, ok := elt.(*ast.KeyValueExpr); ok {
			if id, ok := kv.Key.(*ast.Ident); ok {
				fields[id.Name] = kv.Value
			}

			continue
		}

		if i < st.NumFields() {
			fields[st.Field(i).Name()] = elt
		}
	}

	source, ok := fields["Source"]
	if !ok {
		return
	}

	var contextName string

	if c, ok := fields["Context"]; ok {
		if contextName, ok = constString(e.info, c); !ok {
			return
		}
	}

	if msg, ok := constString(e.info, source); ok {
		e.addRef(x.Pos(), source.Pos(), contextName, msg, false)
	}
}

// handleCallExpr inspects function and Scope method calls to find i18n messages.
func (e *extractor) handleCallExpr(x *ast.CallExpr) {
	sel, ok := x.Fun.(*ast.SelectorExpr)
	if !ok {
		return
	}

	fn, ok := e.info.Uses[sel.Sel].(*types.Func)
	if !ok || fn.Pkg() == nil {
		return
	}

	if _, ok := e.i18nPkgs[fn.Pkg().Path()]; !ok {
		return
	}

	sig, ok := fn.Type().(*types.Signature)
	if !ok {
		return
	}

	// Method on Scope: tr.Tr(ctx, "source", ...), the receiver is the context.
	if recv := sig.Recv(); recv != nil {
		if !e.isI18nType(recv.Type(), "Scope") || len(x.Args) < 2 {
			return
		}

		contextName, ok1 := constString(e.info, sel.X)
		msg, ok2 := constString(e.info, x.Args[1])

		if ok1 && ok2 {
			e.addRef(x.Pos(), x.Args[1].Pos(), contextName, msg, fn.Name() == "TrN")
		}

		return
	}

	switch fn.Name() {
	case "Tr", "Trf", "TrN", "NewUserError": // Tr(ctx, "context", "source", ...)
		if len(x.Args) < 3 {
			return
		}

		contextName, ok1 := constString(e.info, x.Args[1])
		msg, ok2 := constString(e.info, x.Args[2])

		if ok1 && ok2 {
			e.addRef(x.Pos(), x.Args[2].Pos(), contextName, msg, fn.Name() == "TrN")
		}
	}
}

// collectExtraComments records "//:" comment groups of f by their last line.
func (e *extractor) collectExtraComments(f *ast.File) {
	for _, group := range f.Comments {
		var lines []string

		for _, c := range group.List {
			if text, ok := strings.CutPrefix(c.Text, "//:"); ok {
				lines = append(lines, strings.TrimSpace(text))
			}
		}

		if len(lines) == 0 {
			continue
		}

		end := e.fset.Position(group.End())
		if e.extraByLine[end.Filename] == nil {
			e.extraByLine[end.Filename] = map[int]string{}
		}

		e.extraByLine[end.Filename][end.Line] = strings.Join(lines, " ")
	}
}

// addRef records a reference to a message. The location is the line of
// pos, relative to the extractor's base directory; a "//:" comment ending
// on the line before start becomes the extra comment.
func (e *extractor) addRef(start, pos token.Pos, contextName, msg string, numerus bool) {
	p := e.fset.Position(pos)

	file := p.Filename
	if rel, err := filepath.Rel(e.relativeTo, file); err == nil {
		file = rel
	}

	k := key{context: contextName, source: msg}

	ent := e.entries[k]
	if ent == nil {
		ent = &entry{}
		e.entries[k] = ent
	}

	ent.refs = append(ent.refs, ts.Location{Filename: filepath.ToSlash(file), Line: p.Line})
	ent.numerus = ent.numerus || numerus

	s := e.fset.Position(start)
	if extra := e.extraByLine[s.Filename][s.Line-1]; extra != "" && ent.extraComment == "" {
		ent.extraComment = extra
	}
}
