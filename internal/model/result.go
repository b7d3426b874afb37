package model

import (
	"slices"
	"strings"
)

// NamespaceGroup collects the enums and class-like declarations of one
// namespace path, each in encounter order.
type NamespaceGroup struct {
	Path         string
	Enums        []*EnumDeclaration
	Declarations []*Declaration
}

// Segments splits the dotted path.
func (g *NamespaceGroup) Segments() []string {
	return splitPath(g.Path)
}

func (g *NamespaceGroup) clone() *NamespaceGroup {
	return &NamespaceGroup{
		Path:         g.Path,
		Enums:        slices.Clone(g.Enums),
		Declarations: slices.Clone(g.Declarations),
	}
}

// SkippedFile records a file that contributed nothing because it failed.
type SkippedFile struct {
	Path string
	Err  error
}

// Result is the accumulated discovery output. Values are never mutated in
// place; Fold and Skip return new results.
type Result struct {
	Groups  []*NamespaceGroup
	Files   []string
	Skipped []SkippedFile
}

// Outcome is what parsing one file produced: a FileResult, or Err when the
// file is to be skipped.
type Outcome struct {
	Path string
	File FileResult
	Err  error
}

// Merge returns a result that additionally contains every outcome, applied in
// order. r is copied once, and a group is cloned only the first time an
// outcome adds to it. Namespace groups keep their first-encounter order.
func (r Result) Merge(outcomes ...Outcome) Result {
	out := Result{
		Groups:  slices.Clone(r.Groups),
		Files:   slices.Clone(r.Files),
		Skipped: slices.Clone(r.Skipped),
	}
	index := make(map[string]int, len(out.Groups))
	for i, g := range out.Groups {
		index[g.Path] = i
	}
	owned := map[int]bool{}
	group := func(path string) *NamespaceGroup {
		if path == "" {
			path = GlobalNamespace
		}
		i, ok := index[path]
		if !ok {
			out.Groups = append(out.Groups, &NamespaceGroup{Path: path})
			i = len(out.Groups) - 1
			index[path] = i
			owned[i] = true
		}
		if !owned[i] {
			out.Groups[i] = out.Groups[i].clone()
			owned[i] = true
		}
		return out.Groups[i]
	}

	for _, o := range outcomes {
		if o.Err != nil {
			out.Skipped = append(out.Skipped, SkippedFile{Path: o.Path, Err: o.Err})
			continue
		}
		out.Files = append(out.Files, o.File.Path)
		for _, e := range o.File.Enums {
			g := group(e.Namespace)
			g.Enums = append(g.Enums, e)
		}
		for _, d := range o.File.Declarations {
			g := group(d.Namespace)
			g.Declarations = append(g.Declarations, d)
		}
	}
	return out
}

// Fold returns a result that additionally contains f.
func (r Result) Fold(f FileResult) Result {
	return r.Merge(Outcome{Path: f.Path, File: f})
}

// Skip returns a result that records path as skipped.
func (r Result) Skip(path string, err error) Result {
	return r.Merge(Outcome{Path: path, Err: err})
}

// Counts returns the number of class-like declarations (nested included) and
// enums (nested included).
func (r Result) Counts() (decls, enums int) {
	var walk func(ds []*Declaration)
	walk = func(ds []*Declaration) {
		for _, d := range ds {
			decls++
			enums += len(d.NestedEnums)
			walk(d.Nested)
		}
	}
	for _, g := range r.Groups {
		enums += len(g.Enums)
		walk(g.Declarations)
	}
	return decls, enums
}

func splitPath(path string) []string {
	return strings.FieldsFunc(path, func(r rune) bool { return r == '.' })
}
