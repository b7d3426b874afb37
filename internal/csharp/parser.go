// Package csharp extracts type declarations from C# source with the
// tree-sitter C# grammar.
package csharp

import (
	"context"
	"strings"
	"sync"

	"github.com/alexaandru/go-sitter-forest/c_sharp"
	sitter "github.com/alexaandru/go-tree-sitter-bare"
	"github.com/cockroachdb/errors"

	"github.com/cmmoran/cstsgen/internal/logger"
	"github.com/cmmoran/cstsgen/internal/model"
)

var (
	// ErrSyntax is returned in strict mode for a file whose tree has errors.
	ErrSyntax = errors.New("syntax error")

	errPoolType = errors.New("unexpected parser type in pool")
	errNoRoot   = errors.New("no root node")
)

// Parser parses C# files. It is safe for concurrent use; tree-sitter parsers
// are pooled.
type Parser struct {
	lang   *sitter.Language
	pool   sync.Pool
	strict bool
}

type Option func(*Parser)

// WithStrict makes a tree with syntax errors a failure instead of a warning.
func WithStrict(strict bool) Option { return func(p *Parser) { p.strict = strict } }

func NewParser(opts ...Option) *Parser {
	p := &Parser{lang: sitter.NewLanguage(c_sharp.GetLanguage())}
	for _, o := range opts {
		o(p)
	}
	p.pool = sync.Pool{
		New: func() any {
			tsParser := sitter.NewParser()
			tsParser.SetLanguage(p.lang)
			return tsParser
		},
	}
	return p
}

// ParseFile extracts the declarations of one source file.
func (p *Parser) ParseFile(ctx context.Context, path string, src []byte) (model.FileResult, error) {
	tsParser, ok := p.pool.Get().(*sitter.Parser)
	if !ok {
		return model.FileResult{}, errPoolType
	}
	defer p.pool.Put(tsParser)

	tree, err := tsParser.ParseString(ctx, nil, src)
	if err != nil {
		return model.FileResult{}, errors.Wrapf(err, "parse %s", path)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.IsNull() {
		return model.FileResult{}, errors.Wrapf(errNoRoot, "parse %s", path)
	}
	if row, found := firstError(root); found {
		if p.strict {
			return model.FileResult{}, errors.Wrapf(ErrSyntax, "%s:%d", path, row+1)
		}
		logger.Logger.Warnw("syntax error, keeping recoverable declarations", "file", path, "line", row+1)
	}

	w := &walker{src: src, file: path}
	w.scope(root, "", -1)
	return model.FileResult{Path: path, Declarations: w.decls, Enums: w.enums}, nil
}

func firstError(n sitter.Node) (int, bool) {
	if n.Type() == "ERROR" {
		return int(n.StartPoint().Row), true
	}
	for i := range n.ChildCount() {
		if row, found := firstError(n.Child(i)); found {
			return row, true
		}
	}
	return 0, false
}

var classLike = map[string]model.DeclKind{
	"class_declaration":         model.DeclClass,
	"struct_declaration":        model.DeclStruct,
	"record_declaration":        model.DeclRecord,
	"record_struct_declaration": model.DeclRecord,
	"interface_declaration":     model.DeclInterface,
}

type walker struct {
	src   []byte
	file  string
	decls []*model.Declaration
	enums []*model.EnumDeclaration
}

// leading is what precedes a declaration among its siblings.
type leading struct {
	trivia     model.Trivia
	attrs      model.Attributes
	commentEnd int
}

// children visits the named children of n that are not comments or
// attribute lists, handing each the comments and attributes in front of it.
// openRow is the row on which n's content opens; a comment starting on the
// same row as the end of the previous sibling trails that sibling.
func (w *walker) children(n sitter.Node, openRow int, visit func(child sitter.Node, lead leading)) {
	var lead leading
	lastRow := openRow
	for idx := range n.NamedChildCount() {
		child := n.NamedChild(idx)
		start, end := int(child.StartPoint().Row), int(child.EndPoint().Row)
		switch child.Type() {
		case "comment":
			if start == lastRow {
				continue
			}
			if len(lead.trivia) > 0 && start > lead.commentEnd+1 {
				lead.trivia = nil
			}
			lead.trivia = append(lead.trivia, w.text(child))
			lead.commentEnd = end
		case "attribute_list":
			lead.attrs = append(lead.attrs, w.attributes(child)...)
			lastRow = end
		default:
			visit(child, lead)
			lead = leading{}
			lastRow = end
		}
	}
}

func (w *walker) scope(n sitter.Node, ns string, openRow int) {
	w.children(n, openRow, func(child sitter.Node, lead leading) {
		switch typ := child.Type(); typ {
		case "namespace_declaration":
			body := child.ChildByFieldName("body")
			if !body.IsNull() {
				w.scope(body, joinNamespace(ns, w.fieldText(child, "name")), int(body.StartPoint().Row))
			}
		case "file_scoped_namespace_declaration":
			// Applies to the rest of the file whether the grammar nests the
			// declarations under this node or leaves them as siblings.
			ns = joinNamespace(ns, w.fieldText(child, "name"))
			w.scope(child, ns, int(child.StartPoint().Row))
		case "declaration_list":
			w.scope(child, ns, int(child.StartPoint().Row))
		case "enum_declaration":
			w.enums = append(w.enums, w.enum(child, ns, lead))
		default:
			if kind, ok := classLike[typ]; ok {
				w.decls = append(w.decls, w.declaration(child, kind, ns, lead))
			}
		}
	})
}

func (w *walker) declaration(n sitter.Node, kind model.DeclKind, ns string, lead leading) *model.Declaration {
	d := &model.Declaration{
		Name:       w.fieldText(n, "name"),
		Namespace:  namespaceOrGlobal(ns),
		Kind:       kind,
		Attributes: lead.attrs,
		Trivia:     lead.trivia,
		File:       w.file,
	}
	for idx := range n.NamedChildCount() {
		c := n.NamedChild(idx)
		switch c.Type() {
		case "attribute_list":
			d.Attributes = append(d.Attributes, w.attributes(c)...)
		case "type_parameter_list":
			d.TypeParams = w.typeParams(c)
		case "parameter_list":
			if kind == model.DeclRecord {
				d.Members = append(d.Members, w.recordParams(c)...)
			}
		}
	}

	body := n.ChildByFieldName("body")
	if body.IsNull() {
		return d
	}
	w.children(body, int(body.StartPoint().Row), func(c sitter.Node, lead leading) {
		switch typ := c.Type(); typ {
		case "property_declaration":
			if m := w.property(c, lead); m != nil {
				d.Members = append(d.Members, m)
			}
		case "enum_declaration":
			d.NestedEnums = append(d.NestedEnums, w.enum(c, ns, lead))
		default:
			if nestedKind, ok := classLike[typ]; ok {
				d.Nested = append(d.Nested, w.declaration(c, nestedKind, ns, lead))
			}
		}
	})
	return d
}

func (w *walker) property(n sitter.Node, lead leading) *model.Member {
	typ, name := n.ChildByFieldName("type"), n.ChildByFieldName("name")
	if typ.IsNull() || name.IsNull() {
		return nil
	}
	m := &model.Member{
		Name:       w.text(name),
		TypeExpr:   w.text(typ),
		Attributes: lead.attrs,
		Trivia:     lead.trivia,
	}
	for idx := range n.ChildCount() {
		c := n.Child(idx)
		if c.StartByte() >= typ.StartByte() {
			break
		}
		switch c.Type() {
		case "attribute_list":
			m.Attributes = append(m.Attributes, w.attributes(c)...)
		case "modifier":
			if strings.TrimSpace(w.text(c)) == "static" {
				m.Static = true
			}
		case "static":
			m.Static = true
		case "comment":
			m.Trivia = append(m.Trivia, w.text(c))
		}
	}
	return m
}

func (w *walker) recordParams(n sitter.Node) []*model.Member {
	var out []*model.Member
	for idx := range n.NamedChildCount() {
		c := n.NamedChild(idx)
		if c.Type() != "parameter" {
			continue
		}
		typ, name := c.ChildByFieldName("type"), c.ChildByFieldName("name")
		if typ.IsNull() || name.IsNull() {
			continue
		}
		m := &model.Member{Name: w.text(name), TypeExpr: w.text(typ)}
		for j := range c.NamedChildCount() {
			if a := c.NamedChild(j); a.Type() == "attribute_list" {
				m.Attributes = append(m.Attributes, w.attributes(a)...)
			}
		}
		out = append(out, m)
	}
	return out
}

func (w *walker) enum(n sitter.Node, ns string, lead leading) *model.EnumDeclaration {
	e := &model.EnumDeclaration{
		Name:       w.fieldText(n, "name"),
		Namespace:  namespaceOrGlobal(ns),
		Attributes: lead.attrs,
		Trivia:     lead.trivia,
		File:       w.file,
	}
	for idx := range n.NamedChildCount() {
		if c := n.NamedChild(idx); c.Type() == "attribute_list" {
			e.Attributes = append(e.Attributes, w.attributes(c)...)
		}
	}
	body := n.ChildByFieldName("body")
	if body.IsNull() {
		return e
	}
	for idx := range body.NamedChildCount() {
		c := body.NamedChild(idx)
		if c.Type() != "enum_member_declaration" {
			continue
		}
		name := w.fieldText(c, "name")
		if name == "" {
			name = w.firstOfType(c, "identifier")
		}
		if name == "" {
			continue
		}
		e.Members = append(e.Members, name)
		if value := strings.TrimSpace(w.fieldText(c, "value")); value != "" {
			if e.Values == nil {
				e.Values = map[string]string{}
			}
			e.Values[name] = value
		}
	}
	return e
}

func (w *walker) attributes(list sitter.Node) model.Attributes {
	var out model.Attributes
	for idx := range list.NamedChildCount() {
		c := list.NamedChild(idx)
		if c.Type() != "attribute" {
			continue
		}
		name := w.fieldText(c, "name")
		if name == "" {
			name = w.firstOfType(c, "identifier")
		}
		a := model.Attribute{Name: model.NormalizeAttributeName(name)}
		for j := range c.NamedChildCount() {
			if args := c.NamedChild(j); args.Type() == "attribute_argument_list" {
				text := strings.TrimSpace(w.text(args))
				a.Args = strings.TrimSuffix(strings.TrimPrefix(text, "("), ")")
			}
		}
		out = append(out, a)
	}
	return out
}

func (w *walker) typeParams(list sitter.Node) []string {
	var out []string
	for idx := range list.NamedChildCount() {
		c := list.NamedChild(idx)
		if c.Type() != "type_parameter" {
			continue
		}
		name := w.fieldText(c, "name")
		if name == "" {
			// "out T", "[Attr] in T": the identifier is last
			fields := strings.Fields(w.text(c))
			if len(fields) == 0 {
				continue
			}
			name = fields[len(fields)-1]
		}
		out = append(out, name)
	}
	return out
}

func (w *walker) firstOfType(n sitter.Node, typ string) string {
	for idx := range n.NamedChildCount() {
		if c := n.NamedChild(idx); c.Type() == typ {
			return w.text(c)
		}
	}
	return ""
}

func (w *walker) text(n sitter.Node) string {
	start, end := n.StartByte(), n.EndByte()
	if end > uint(len(w.src)) || start > end {
		return ""
	}
	return string(w.src[start:end])
}

// fieldText returns the text of a field child with whitespace removed, as
// wanted for names like "MyApp . Models".
func (w *walker) fieldText(n sitter.Node, field string) string {
	c := n.ChildByFieldName(field)
	if c.IsNull() {
		return ""
	}
	return strings.Join(strings.Fields(w.text(c)), "")
}

func joinNamespace(outer, inner string) string {
	switch {
	case outer == "":
		return inner
	case inner == "":
		return outer
	}
	return outer + "." + inner
}

func namespaceOrGlobal(ns string) string {
	if ns == "" {
		return model.GlobalNamespace
	}
	return ns
}
