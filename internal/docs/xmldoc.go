package docs

import (
	"context"
	"html"
	"strings"
	"sync"

	"github.com/alexaandru/go-sitter-forest/xml"
	sitter "github.com/alexaandru/go-tree-sitter-bare"
)

// element is a node of a documentation comment. Text nodes have an empty
// name. Raw-text elements (code) keep their content verbatim in text.
type element struct {
	name     string
	attrs    map[string]string
	text     string
	children []*element
}

// rawText elements end only at their own closing tag; markup inside is text.
var rawText = map[string]bool{"code": true}

// Documentation comments hold several top-level sections, so the body is
// parsed inside a synthetic root element.
const (
	wrapOpen  = "<doc>"
	wrapClose = "</doc>"
)

var (
	xmlLang    = sitter.NewLanguage(xml.GetLanguage())
	xmlParsers = sync.Pool{
		New: func() any {
			p := sitter.NewParser()
			p.SetLanguage(xmlLang)
			return p
		},
	}
)

// parseDoc builds a tree from documentation XML. It never fails: tags the
// grammar could not parse are kept as text, unmatched closing tags are
// dropped and unclosed elements end at the end of input.
func parseDoc(body string) *element {
	src := []byte(wrapOpen + body + wrapClose)
	b := &docBuilder{
		src:   src,
		pos:   uint(len(wrapOpen)),
		limit: uint(len(src) - len(wrapClose)),
	}
	b.root = &element{name: "#doc"}
	b.stack = []*element{b.root}

	defer b.finish()

	tsParser, ok := xmlParsers.Get().(*sitter.Parser)
	if !ok {
		return b.root
	}
	defer xmlParsers.Put(tsParser)

	tree, err := tsParser.ParseString(context.Background(), nil, src)
	if err != nil {
		return b.root
	}
	defer tree.Close()

	b.walk(tree.RootNode())
	return b.root
}

// docBuilder turns the syntax tree into elements in source order. pos is the
// first byte not yet consumed; bytes between tags are text, unescaped once a
// run of it ends.
type docBuilder struct {
	src     []byte
	pos     uint
	limit   uint
	pending strings.Builder
	root    *element
	stack   []*element
}

// finish takes whatever the walk did not reach as text.
func (b *docBuilder) finish() {
	b.gap(b.limit)
	b.flush()
}

func (b *docBuilder) top() *element { return b.stack[len(b.stack)-1] }

func (b *docBuilder) walk(n sitter.Node) {
	for i := range n.ChildCount() {
		c := n.Child(i)
		if c.IsNull() || c.EndByte() <= b.pos || c.StartByte() >= b.limit {
			continue
		}
		if c.StartByte() < b.pos {
			// partly consumed by a raw-text element
			if c.ChildCount() > 0 {
				b.walk(c)
			} else {
				b.gap(c.EndByte())
			}
			continue
		}
		b.gap(c.StartByte())
		b.node(c)
	}
}

func (b *docBuilder) node(n sitter.Node) {
	switch n.Type() {
	case "STag", "EmptyElemTag", "ETag":
		if n.HasError() {
			b.gap(n.EndByte())
			return
		}
		b.pos = n.EndByte()
		name := b.tagName(n)
		switch n.Type() {
		case "STag":
			b.open(name, b.attrs(n), false)
		case "EmptyElemTag":
			b.open(name, b.attrs(n), true)
		default:
			b.close(name)
		}
	case "Comment", "PI":
		b.pos = n.EndByte()
	case "CDSect":
		raw := n.Content(b.src)
		b.pos = n.EndByte()
		b.flush()
		b.literal(strings.TrimSuffix(strings.TrimPrefix(raw, "<![CDATA["), "]]>"))
	default:
		if n.ChildCount() > 0 {
			b.walk(n)
		}
		b.gap(n.EndByte())
	}
}

// gap consumes source up to end as text.
func (b *docBuilder) gap(end uint) {
	end = min(end, b.limit)
	if end <= b.pos {
		return
	}
	b.pending.Write(b.src[b.pos:end])
	b.pos = end
}

func (b *docBuilder) flush() {
	if b.pending.Len() == 0 {
		return
	}
	b.literal(html.UnescapeString(b.pending.String()))
	b.pending.Reset()
}

func (b *docBuilder) literal(s string) {
	if s == "" {
		return
	}
	parent := b.top()
	if n := len(parent.children); n > 0 && parent.children[n-1].name == "" {
		parent.children[n-1].text += s
		return
	}
	parent.children = append(parent.children, &element{text: s})
}

func (b *docBuilder) open(name string, attrs map[string]string, selfClosing bool) {
	b.flush()
	el := &element{name: name, attrs: attrs}
	b.top().children = append(b.top().children, el)
	switch {
	case selfClosing:
	case rawText[name]:
		b.rawContent(el)
	default:
		b.stack = append(b.stack, el)
	}
}

// rawContent takes everything up to the closing tag of el verbatim, whatever
// the grammar made of it.
func (b *docBuilder) rawContent(el *element) {
	rest := string(b.src[b.pos:b.limit])
	end := strings.Index(rest, "</"+el.name)
	if end < 0 {
		el.text = html.UnescapeString(rest)
		b.pos = b.limit
		return
	}
	el.text = html.UnescapeString(rest[:end])
	b.pos += uint(end)
	if gt := strings.IndexByte(rest[end:], '>'); gt >= 0 {
		b.pos += uint(gt + 1)
	} else {
		b.pos = b.limit
	}
}

func (b *docBuilder) close(name string) {
	b.flush()
	for j := len(b.stack) - 1; j > 0; j-- {
		if b.stack[j].name == name {
			b.stack = b.stack[:j]
			return
		}
	}
}

func (b *docBuilder) tagName(tag sitter.Node) string {
	for i := range tag.NamedChildCount() {
		if c := tag.NamedChild(i); c.Type() == "Name" {
			return c.Content(b.src)
		}
	}
	raw := strings.TrimLeft(tag.Content(b.src), "</")
	if end := strings.IndexAny(raw, " \t\r\n/>"); end >= 0 {
		raw = raw[:end]
	}
	return raw
}

func (b *docBuilder) attrs(tag sitter.Node) map[string]string {
	attrs := map[string]string{}
	for i := range tag.NamedChildCount() {
		a := tag.NamedChild(i)
		if a.Type() != "Attribute" {
			continue
		}
		var name, value string
		for j := range a.NamedChildCount() {
			switch c := a.NamedChild(j); c.Type() {
			case "Name":
				name = c.Content(b.src)
			case "AttValue":
				v := c.Content(b.src)
				if len(v) >= 2 {
					v = v[1 : len(v)-1]
				}
				value = html.UnescapeString(v)
			}
		}
		if name != "" {
			attrs[name] = value
		}
	}
	return attrs
}

// find returns direct children named name.
func (e *element) find(name string) []*element {
	var out []*element
	for _, c := range e.children {
		if c.name == name {
			out = append(out, c)
		}
	}
	return out
}

// descendants returns every element named name below e, in document order.
func (e *element) descendants(name string) []*element {
	var out []*element
	for _, c := range e.children {
		if c.name == name {
			out = append(out, c)
		}
		out = append(out, c.descendants(name)...)
	}
	return out
}
