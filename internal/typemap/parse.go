package typemap

import (
	"strings"
	"unicode"

	"github.com/cmmoran/cstsgen/internal/model"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokDot
	tokLess
	tokGreater
	tokComma
	tokLParen
	tokRParen
	tokLBracket
	tokRBracket
	tokQuestion
	tokStar
	tokInvalid
)

type token struct {
	kind tokenKind
	text string
}

func tokenize(s string) []token {
	var toks []token
	rs := []rune(s)
	for i := 0; i < len(rs); {
		r := rs[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case r == '@' || r == '_' || unicode.IsLetter(r):
			j := i + 1
			for j < len(rs) && (rs[j] == '_' || unicode.IsLetter(rs[j]) || unicode.IsDigit(rs[j])) {
				j++
			}
			toks = append(toks, token{kind: tokIdent, text: strings.TrimPrefix(string(rs[i:j]), "@")})
			i = j
		case r == ':' && i+1 < len(rs) && rs[i+1] == ':':
			toks = append(toks, token{kind: tokDot, text: "::"})
			i += 2
		default:
			kind := tokInvalid
			switch r {
			case '.':
				kind = tokDot
			case '<':
				kind = tokLess
			case '>':
				kind = tokGreater
			case ',':
				kind = tokComma
			case '(':
				kind = tokLParen
			case ')':
				kind = tokRParen
			case '[':
				kind = tokLBracket
			case ']':
				kind = tokRBracket
			case '?':
				kind = tokQuestion
			case '*':
				kind = tokStar
			}
			toks = append(toks, token{kind: kind, text: string(r)})
			i++
		}
	}
	return append(toks, token{kind: tokEOF})
}

type parser struct {
	toks []token
	pos  int
	ok   bool
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) expect(k tokenKind) token {
	t := p.next()
	if t.kind != k {
		p.ok = false
	}
	return t
}

// Parse turns a C# type expression into a tree. It never fails: text that is
// not a well-formed type comes back as an opaque name holding the trimmed
// input.
func Parse(expr string) *model.TypeExpr {
	raw := strings.TrimSpace(expr)
	p := &parser{toks: tokenize(raw), ok: true}
	t := p.parseType()
	if !p.ok || p.peek().kind != tokEOF || t == nil {
		return &model.TypeExpr{Kind: model.KindName, Name: raw, Opaque: true}
	}
	return t
}

func (p *parser) parseType() *model.TypeExpr {
	var t *model.TypeExpr
	switch p.peek().kind {
	case tokLParen:
		t = p.parseTuple()
	case tokIdent:
		t = p.parseName()
	default:
		p.ok = false
		return nil
	}
	if !p.ok {
		return nil
	}
	for {
		switch p.peek().kind {
		case tokQuestion:
			p.next()
			t = &model.TypeExpr{Kind: model.KindOptional, Elem: t}
		case tokStar:
			p.next()
		case tokLBracket:
			p.next()
			rank := 1
			for p.peek().kind == tokComma {
				p.next()
				rank++
			}
			p.expect(tokRBracket)
			t = &model.TypeExpr{Kind: model.KindArray, Elem: t, Rank: rank}
		default:
			return t
		}
		if !p.ok {
			return nil
		}
	}
}

func (p *parser) parseName() *model.TypeExpr {
	var segs []string
	for {
		id := p.expect(tokIdent)
		if !p.ok {
			return nil
		}
		if p.peek().kind == tokDot && p.peek().text == "::" {
			// alias qualifier: global::System.String
			p.next()
			if id.text != "global" {
				segs = append(segs, id.text)
			}
			continue
		}
		segs = append(segs, id.text)
		if p.peek().kind != tokDot {
			break
		}
		p.next()
	}
	t := &model.TypeExpr{Kind: model.KindName, Name: strings.Join(segs, ".")}
	if p.peek().kind == tokLess {
		p.next()
		for {
			arg := p.parseType()
			if !p.ok {
				return nil
			}
			t.Args = append(t.Args, arg)
			if p.peek().kind != tokComma {
				break
			}
			p.next()
		}
		p.expect(tokGreater)
		if !p.ok {
			return nil
		}
		// Outer<T>.Inner keeps the generic outer as a qualifier.
		if p.peek().kind == tokDot {
			p.next()
			rest := p.parseName()
			if rest == nil {
				return nil
			}
			rest.Name = t.String() + "." + rest.Name
			return rest
		}
	}
	return t
}

func (p *parser) parseTuple() *model.TypeExpr {
	p.expect(tokLParen)
	t := &model.TypeExpr{Kind: model.KindTuple}
	for {
		elem := p.parseType()
		if !p.ok {
			return nil
		}
		te := model.TupleElem{Type: elem}
		if p.peek().kind == tokIdent {
			te.Label = p.next().text
		}
		t.Elems = append(t.Elems, te)
		if p.peek().kind != tokComma {
			break
		}
		p.next()
	}
	p.expect(tokRParen)
	if !p.ok {
		return nil
	}
	if len(t.Elems) < 2 {
		// (T) is a parenthesised type, not a tuple
		return t.Elems[0].Type
	}
	return t
}
