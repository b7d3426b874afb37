// Package emitter renders discovered declarations as a TypeScript
// declaration file.
package emitter

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cmmoran/cstsgen/internal/docs"
	"github.com/cmmoran/cstsgen/internal/model"
	"github.com/cmmoran/cstsgen/internal/typemap"
)

const (
	// DefaultEnumSuffix names the numeric enum emitted next to each string
	// union alias.
	DefaultEnumSuffix = "Enum"

	// Wrapper is declared once so mapped DbSet<T> references resolve.
	Wrapper = "interface DbSet<T> extends Array<T> {}"

	indentUnit = "  "
)

// Banner opens every generated file. It carries no timestamp so identical
// input gives identical output.
var Banner = []string{
	"// <auto-generated>",
	"//   This file was generated by cstsgen from C# sources.",
	"//   Changes to this file will be lost when it is regenerated.",
	"// </auto-generated>",
}

// Options tune rendering.
type Options struct {
	EnumSuffix string
}

// Emitter renders a model.Result. It is stateless between Emit calls.
type Emitter struct {
	opts Options
}

func New(opts Options) *Emitter {
	if opts.EnumSuffix == "" {
		opts.EnumSuffix = DefaultEnumSuffix
	}
	return &Emitter{opts: opts}
}

// Emit renders res. Namespace groups and the declarations inside them keep
// the order of res; within a group enums come before interfaces.
func (e *Emitter) Emit(res model.Result) string {
	r := &render{
		opts:   e.opts,
		mapper: typemap.NewMapper(typemap.NewRegistry(res.Groups)),
	}
	for _, l := range Banner {
		r.line("%s", l)
	}
	r.blank()
	r.line("%s", Wrapper)
	for _, g := range res.Groups {
		r.blank()
		r.group(g)
	}
	return r.b.String()
}

type render struct {
	b      strings.Builder
	opts   Options
	mapper *typemap.Mapper
	depth  int
}

func (r *render) line(format string, args ...any) {
	r.b.WriteString(strings.Repeat(indentUnit, r.depth))
	fmt.Fprintf(&r.b, format, args...)
	r.b.WriteByte('\n')
}

func (r *render) blank() { r.b.WriteByte('\n') }

func (r *render) group(g *model.NamespaceGroup) {
	segments := g.Segments()
	for i, s := range segments {
		if i == 0 {
			r.line("declare namespace %s {", s)
		} else {
			r.line("export namespace %s {", s)
		}
		r.depth++
	}

	first := true
	sep := func() {
		if !first {
			r.blank()
		}
		first = false
	}
	for _, en := range g.Enums {
		sep()
		r.enum(en)
	}
	for _, d := range g.Declarations {
		r.declaration(d, g.Path, "", sep)
	}

	for range segments {
		r.depth--
		r.line("}")
	}
}

// declaration renders d and then everything nested in it at the same level.
// owner is the enclosing declaration's name, used as mapping context for
// d's members; a top-level declaration is its own context.
func (r *render) declaration(d *model.Declaration, namespace, owner string, sep func()) {
	if owner == "" {
		owner = d.Name
	}
	sep()

	msg, deprecated := d.Attributes.Obsolete()
	r.comment(deprecated, msg, docs.Extract(d.Trivia))

	name := d.Name
	if len(d.TypeParams) > 0 {
		name += "<" + strings.Join(d.TypeParams, ", ") + ">"
	}
	members := instanceMembers(d.Members)
	if len(members) == 0 {
		r.line("export interface %s {}", name)
	} else {
		r.line("export interface %s {", name)
		r.depth++
		ctx := typemap.Context{DeclaringType: owner, Namespace: namespace}
		for _, m := range members {
			r.member(m, ctx)
		}
		r.depth--
		r.line("}")
	}

	for _, en := range d.NestedEnums {
		sep()
		r.enum(en)
	}
	for _, n := range d.Nested {
		r.declaration(n, namespace, d.Name, sep)
	}
}

func instanceMembers(ms []*model.Member) []*model.Member {
	out := make([]*model.Member, 0, len(ms))
	for _, m := range ms {
		if m == nil || m.Static {
			continue
		}
		out = append(out, m)
	}
	return out
}

func (r *render) member(m *model.Member, ctx typemap.Context) {
	mt := r.mapper.Map(m.TypeExpr, ctx)
	optional := ""
	if mt.Optional || m.Attributes.Has("AllowNull") {
		optional = "?"
	}
	msg, deprecated := m.Attributes.Obsolete()
	r.comment(deprecated, msg, docs.Extract(m.Trivia))
	r.line("%s%s: %s;", CamelCase(m.Name), optional, mt.Type)
}

func (r *render) enum(en *model.EnumDeclaration) {
	msg, deprecated := en.Attributes.Obsolete()
	r.comment(deprecated, msg, docs.Extract(en.Trivia))

	enumName := en.Name + r.opts.EnumSuffix
	if len(en.Members) == 0 {
		r.line("export type %s = never;", en.Name)
		r.line("export enum %s {}", enumName)
		return
	}
	quoted := make([]string, len(en.Members))
	for i, m := range en.Members {
		quoted[i] = "'" + m + "'"
	}
	r.line("export type %s = %s;", en.Name, strings.Join(quoted, " | "))
	r.line("export enum %s { %s }", enumName, strings.Join(enumMembers(en), ", "))
}

// enumMembers renders the numeric enum members, keeping the initializers
// TypeScript can evaluate.
func enumMembers(en *model.EnumDeclaration) []string {
	known := make(map[string]bool, len(en.Members))
	for _, m := range en.Members {
		known[m] = true
	}
	out := make([]string, len(en.Members))
	for i, m := range en.Members {
		out[i] = m
		if expr, ok := en.Values[m]; ok {
			if ts, ok := enumInitializer(expr, en.Name, known); ok {
				out[i] = m + " = " + ts
			}
		}
	}
	return out
}

// comment writes a /** */ block when there is something to say. The
// deprecation tag always leads.
func (r *render) comment(deprecated bool, msg string, doc *model.DocBlock) {
	var lines []string
	if deprecated {
		lines = append(lines, strings.TrimSpace("@deprecated "+firstLine(msg)))
	}
	lines = append(lines, docs.Render(doc)...)
	if len(lines) == 0 {
		return
	}
	r.line("/**")
	for _, l := range lines {
		l = strings.ReplaceAll(l, "*/", "*\\/")
		if l == "" {
			r.line(" *")
			continue
		}
		r.line(" * %s", l)
	}
	r.line(" */")
}

func firstLine(s string) string {
	s, _, _ = strings.Cut(s, "\n")
	return strings.TrimSpace(s)
}

// CamelCase lowercases the first character of a member name, dropping a
// verbatim-identifier '@'. Nothing else changes: URLValue becomes uRLValue.
func CamelCase(name string) string {
	name = strings.TrimPrefix(name, "@")
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return name
	}
	return string(unicode.ToLower(r)) + name[size:]
}
