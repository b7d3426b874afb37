package model

import (
	"strings"
)

// GlobalNamespace holds declarations that sit outside any namespace block.
const GlobalNamespace = "Global"

// Attribute is a bracketed marker on a declaration or member, e.g. [Obsolete("x")].
type Attribute struct {
	Name string // simple name, qualifier and "Attribute" suffix removed
	Args string // argument list text without the surrounding parentheses
}

// Message returns the first string literal in the argument list, or "".
func (a Attribute) Message() string {
	s := a.Args
	start := strings.IndexByte(s, '"')
	if start < 0 {
		return ""
	}
	verbatim := start > 0 && s[start-1] == '@'
	var b strings.Builder
	for i := start + 1; i < len(s); i++ {
		c := s[i]
		switch {
		case verbatim && c == '"':
			if i+1 < len(s) && s[i+1] == '"' {
				b.WriteByte('"')
				i++
				continue
			}
			return b.String()
		case !verbatim && c == '\\' && i+1 < len(s):
			i++
			switch s[i] {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			default:
				b.WriteByte(s[i])
			}
		case c == '"':
			return b.String()
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// Attributes is an ordered attribute set.
type Attributes []Attribute

// Find returns the first attribute matching one of names, case-sensitively,
// after normalization of the lookup names.
func (as Attributes) Find(names ...string) (Attribute, bool) {
	for _, a := range as {
		for _, n := range names {
			if a.Name == NormalizeAttributeName(n) {
				return a, true
			}
		}
	}
	return Attribute{}, false
}

// Has reports whether any of names is present.
func (as Attributes) Has(names ...string) bool {
	_, ok := as.Find(names...)
	return ok
}

// Obsolete returns the deprecation message and whether [Obsolete] is present.
func (as Attributes) Obsolete() (string, bool) {
	a, ok := as.Find("Obsolete")
	if !ok {
		return "", false
	}
	return a.Message(), true
}

// NormalizeAttributeName strips any qualifier and the conventional
// "Attribute" suffix: System.ObsoleteAttribute becomes Obsolete.
func NormalizeAttributeName(name string) string {
	name = strings.TrimSpace(name)
	if i := strings.LastIndex(name, "::"); i >= 0 {
		name = name[i+2:]
	}
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	if trimmed := strings.TrimSuffix(name, "Attribute"); trimmed != "" {
		name = trimmed
	}
	return name
}

// Trivia is the comment text that precedes a declaration or member, one entry
// per comment token in source order, comment markers included.
type Trivia []string

// Member is a property-shaped member of a class-like declaration.
type Member struct {
	Name       string
	TypeExpr   string
	Attributes Attributes
	Static     bool
	Trivia     Trivia
}

// DeclKind distinguishes the class-like forms.
type DeclKind int

const (
	DeclClass DeclKind = iota
	DeclStruct
	DeclRecord
	DeclInterface
)

func (k DeclKind) String() string {
	switch k {
	case DeclStruct:
		return "struct"
	case DeclRecord:
		return "record"
	case DeclInterface:
		return "interface"
	default:
		return "class"
	}
}

// Declaration is a class, struct or record.
type Declaration struct {
	Name        string
	Namespace   string
	Kind        DeclKind
	TypeParams  []string
	Attributes  Attributes
	Trivia      Trivia
	Members     []*Member
	Nested      []*Declaration
	NestedEnums []*EnumDeclaration
	File        string
}

// EnumDeclaration is an enum with its member names in declaration order.
// Values holds the initializer expression of the members that have one.
type EnumDeclaration struct {
	Name       string
	Namespace  string
	Members    []string
	Values     map[string]string
	Attributes Attributes
	Trivia     Trivia
	File       string
}

// FileResult is what one source file contributes.
type FileResult struct {
	Path         string
	Declarations []*Declaration
	Enums        []*EnumDeclaration
}

// Empty reports whether the file declared nothing emit-worthy.
func (f FileResult) Empty() bool {
	return len(f.Declarations) == 0 && len(f.Enums) == 0
}

// CodeSample is a fenced code block inside documentation.
type CodeSample struct {
	Language string
	Lines    []string
}

// DocBlock is normalized documentation: summary lines, code samples and the
// remarks lines (empty when remarks were suppressed).
type DocBlock struct {
	Summary []string
	Samples []CodeSample
	Remarks []string
}
