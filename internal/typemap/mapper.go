package typemap

import (
	"fmt"
	"strings"

	"github.com/cmmoran/cstsgen/internal/model"
)

// Context is where a type expression is referenced from.
type Context struct {
	DeclaringType string // simple name of the enclosing declaration
	Namespace     string // dotted namespace of the enclosing declaration
}

// MappedType is a TypeScript type plus whether the value may be absent.
// Optional is only ever set at the top level; nested absent values are
// spelled as a union with null inside Type.
type MappedType struct {
	Type     string
	Optional bool
}

func (m MappedType) String() string {
	if m.Optional {
		return m.Type + "?"
	}
	return m.Type
}

// Mapper translates C# type expressions to TypeScript. It holds no mutable
// state and is safe for concurrent use.
type Mapper struct {
	registry *Registry
}

// NewMapper returns a mapper resolving declared names against reg, which may
// be nil.
func NewMapper(reg *Registry) *Mapper {
	return &Mapper{registry: reg}
}

// Map parses expr and maps it.
func (m *Mapper) Map(expr string, ctx Context) MappedType {
	return m.MapExpr(Parse(expr), ctx)
}

// MapExpr maps a parsed expression.
func (m *Mapper) MapExpr(t *model.TypeExpr, ctx Context) MappedType {
	switch t.Kind {
	case model.KindOptional:
		inner := m.MapExpr(t.Elem, ctx)
		return MappedType{Type: inner.Type, Optional: true}
	case model.KindArray:
		// T[,] has no TypeScript counterpart; rank n flattens to n nested
		// arrays and the rectangular shape is lost.
		return MappedType{Type: arrayOf(m.nested(t.Elem, ctx), t.Rank)}
	case model.KindTuple:
		elems := make([]*model.TypeExpr, len(t.Elems))
		for i, e := range t.Elems {
			elems[i] = e.Type
		}
		return MappedType{Type: "[" + m.joinNested(elems, ctx) + "]"}
	case model.KindName:
		if t.Opaque {
			return MappedType{Type: t.Name}
		}
		return m.mapName(t, ctx)
	}
	return MappedType{Type: t.String()}
}

// nested maps a type in an inner position, where absence becomes "| null".
func (m *Mapper) nested(t *model.TypeExpr, ctx Context) string {
	mt := m.MapExpr(t, ctx)
	if mt.Optional {
		return mt.Type + " | " + tsNull
	}
	return mt.Type
}

func (m *Mapper) joinNested(ts []*model.TypeExpr, ctx Context) string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = m.nested(t, ctx)
	}
	return strings.Join(parts, ", ")
}

func (m *Mapper) mapName(t *model.TypeExpr, ctx Context) MappedType {
	name := t.Name
	if root, _, found := strings.Cut(name, "."); found && baseLibraryRoots[root] {
		name = t.SimpleName()
	}
	args := t.Args

	if len(args) > 0 {
		switch {
		case name == "Nullable" && len(args) == 1:
			inner := m.MapExpr(args[0], ctx)
			return MappedType{Type: inner.Type, Optional: true}
		case orderedCollections[name] && len(args) == 1:
			return MappedType{Type: arrayOf(m.nested(args[0], ctx), 1)}
		case keyedCollections[name] && len(args) == 2:
			return MappedType{Type: "Record<" + m.joinNested(args, ctx) + ">"}
		case passThroughGenerics[name] && len(args) == 1:
			return MappedType{Type: name + "<" + m.nested(args[0], ctx) + ">"}
		case name == "Tuple" || name == "ValueTuple":
			return MappedType{Type: "[" + m.joinNested(args, ctx) + "]"}
		case (name == "Task" || name == "ValueTask") && len(args) == 1:
			return MappedType{Type: "Promise<" + m.nested(args[0], ctx) + ">"}
		case name == "Func":
			last := len(args) - 1
			return MappedType{Type: m.function(args[:last], m.nested(args[last], ctx), ctx)}
		case name == "Action":
			return MappedType{Type: m.function(args, tsVoid, ctx)}
		case name == "Predicate" && len(args) == 1:
			return MappedType{Type: "(value: " + m.nested(args[0], ctx) + ") => " + tsBoolean}
		}
		return MappedType{Type: m.resolve(name, ctx) + "<" + m.joinNested(args, ctx) + ">"}
	}

	switch name {
	case "Task", "ValueTask":
		return MappedType{Type: "Promise<" + tsVoid + ">"}
	case "Action":
		return MappedType{Type: "() => " + tsVoid}
	}
	if ts, ok := scalars[name]; ok {
		return MappedType{Type: ts}
	}
	return MappedType{Type: m.resolve(name, ctx)}
}

func (m *Mapper) function(params []*model.TypeExpr, ret string, ctx Context) string {
	var b strings.Builder
	b.WriteByte('(')
	for i, p := range params {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "p%d: %s", i, m.nested(p, ctx))
	}
	b.WriteString(") => ")
	b.WriteString(ret)
	return b.String()
}

// resolve decides how a declared (non-library) name is spelled at the
// reference site.
func (m *Mapper) resolve(name string, ctx Context) string {
	qualifier, simple, qualified := cutLast(name)
	if !qualified {
		if m.registry.IsNested(ctx.DeclaringType, name) {
			return ctx.DeclaringType + "." + name
		}
		return name
	}
	if m.registry.IsEnum(qualifier, simple) {
		return simple
	}
	_, owner, _ := cutLast(qualifier)
	if m.registry.IsNested(owner, simple) {
		if m.registry.IsNested(ctx.DeclaringType, simple) {
			return ctx.DeclaringType + "." + simple
		}
		return owner + "." + simple
	}
	if ctx.Namespace != "" && ctx.Namespace != qualifier {
		return name
	}
	return simple
}

// cutLast splits a dotted name at its last separator.
func cutLast(name string) (qualifier, simple string, found bool) {
	i := strings.LastIndexByte(name, '.')
	if i < 0 {
		return "", name, false
	}
	return name[:i], name[i+1:], true
}

// arrayOf appends rank array markers, parenthesising element types that
// would otherwise bind looser than the brackets.
func arrayOf(elem string, rank int) string {
	if needsParens(elem) {
		elem = "(" + elem + ")"
	}
	return elem + strings.Repeat("[]", max(rank, 1))
}

func needsParens(ts string) bool {
	depth := 0
	for i := 0; i < len(ts); i++ {
		switch ts[i] {
		case '<', '(', '[', '{':
			depth++
		case '>':
			if i > 0 && ts[i-1] == '=' {
				// arrow
				if depth == 0 {
					return true
				}
				continue
			}
			depth--
		case ')', ']', '}':
			depth--
		case '|':
			if depth == 0 {
				return true
			}
		}
	}
	return false
}
