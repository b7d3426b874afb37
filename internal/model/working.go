package model

import (
	"strings"
)

type Kind int

const (
	KindInvalid  Kind = iota
	KindName          // identifier, possibly dotted, possibly generic: List<int>
	KindArray         // T[] or the rectangular T[,]
	KindOptional      // T?
	KindTuple         // (T1 a, T2 b)
)

func (k Kind) String() string {
	switch k {
	case KindName:
		return "name"
	case KindArray:
		return "array"
	case KindOptional:
		return "optional"
	case KindTuple:
		return "tuple"
	default:
		return "invalid"
	}
}

// TypeExpr is a parsed C# type expression.
type TypeExpr struct {
	Kind Kind

	// KindName ------------------------------------------------------------
	Name   string      // dotted name without type arguments, "System.Collections.Generic.List"
	Args   []*TypeExpr // generic arguments
	Opaque bool        // Name holds unparsed source text

	// KindArray, KindOptional ---------------------------------------------
	Elem *TypeExpr
	Rank int // 1 for T[], 2 for T[,]

	// KindTuple -----------------------------------------------------------
	Elems []TupleElem
}

// TupleElem is one position of a parenthesised tuple.
type TupleElem struct {
	Type  *TypeExpr
	Label string
}

// SimpleName is the last dotted segment of Name.
func (t *TypeExpr) SimpleName() string {
	if i := strings.LastIndexByte(t.Name, '.'); i >= 0 {
		return t.Name[i+1:]
	}
	return t.Name
}

// Qualifier is everything before the last dotted segment of Name.
func (t *TypeExpr) Qualifier() string {
	if i := strings.LastIndexByte(t.Name, '.'); i >= 0 {
		return t.Name[:i]
	}
	return ""
}

// String renders the expression back in C# syntax.
func (t *TypeExpr) String() string {
	if t == nil {
		return ""
	}
	var b strings.Builder
	t.write(&b)
	return b.String()
}

func (t *TypeExpr) write(b *strings.Builder) {
	switch t.Kind {
	case KindName:
		b.WriteString(t.Name)
		if len(t.Args) > 0 {
			b.WriteByte('<')
			for i, a := range t.Args {
				if i > 0 {
					b.WriteString(", ")
				}
				a.write(b)
			}
			b.WriteByte('>')
		}
	case KindArray:
		t.Elem.write(b)
		b.WriteByte('[')
		b.WriteString(strings.Repeat(",", max(t.Rank-1, 0)))
		b.WriteByte(']')
	case KindOptional:
		t.Elem.write(b)
		b.WriteByte('?')
	case KindTuple:
		b.WriteByte('(')
		for i, e := range t.Elems {
			if i > 0 {
				b.WriteString(", ")
			}
			e.Type.write(b)
			if e.Label != "" {
				b.WriteByte(' ')
				b.WriteString(e.Label)
			}
		}
		b.WriteByte(')')
	}
}
