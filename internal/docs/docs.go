// Package docs turns the comment trivia in front of a C# declaration into
// normalized documentation lines.
package docs

import (
	"strings"

	"github.com/cmmoran/cstsgen/internal/model"
)

const (
	// RemarksIntro introduces the remarks text in rendered documentation.
	RemarksIntro = "Remarks:"
	// CodeLanguage labels fenced code samples.
	CodeLanguage = "csharp"
)

// Extract normalizes trivia. Structured (///) documentation wins over plain
// comments; plain comments are used only when there is no structured
// documentation at all. A nil result means there is nothing to document.
func Extract(trivia model.Trivia) *model.DocBlock {
	var structured, plain []string
	for _, c := range trivia {
		switch {
		case isLineDoc(c):
			structured = append(structured, stripLineDoc(c))
		case strings.HasPrefix(c, "/**") && !strings.HasPrefix(c, "/**/"):
			structured = append(structured, blockLines(strings.TrimPrefix(c, "/**"))...)
		case strings.HasPrefix(c, "//"):
			plain = append(plain, strings.TrimSpace(strings.TrimLeft(c, "/")))
		case strings.HasPrefix(c, "/*"):
			plain = append(plain, blockLines(strings.TrimPrefix(c, "/*"))...)
		}
	}
	if len(structured) > 0 {
		return fromXML(strings.Join(structured, "\n"))
	}
	lines := tidy(plain)
	if len(lines) == 0 {
		return nil
	}
	return &model.DocBlock{Summary: lines}
}

func isLineDoc(c string) bool {
	return strings.HasPrefix(c, "///") && !strings.HasPrefix(c, "////")
}

// stripLineDoc removes the marker and at most one following space so code
// samples keep their own indentation.
func stripLineDoc(c string) string {
	c = strings.TrimRight(strings.TrimPrefix(c, "///"), "\r")
	return strings.TrimPrefix(c, " ")
}

func blockLines(body string) []string {
	body = strings.TrimSuffix(strings.TrimSpace(body), "*/")
	var out []string
	for _, l := range strings.Split(body, "\n") {
		l = strings.TrimSpace(strings.TrimRight(l, "\r"))
		l = strings.TrimPrefix(l, "*")
		out = append(out, strings.TrimPrefix(l, " "))
	}
	return out
}

func fromXML(src string) *model.DocBlock {
	root := parseDoc(src)
	b := &model.DocBlock{}

	if summary := root.find("summary"); len(summary) > 0 {
		b.Summary = textLines(summary[0])
	} else if value := root.find("value"); len(value) > 0 {
		b.Summary = textLines(value[0])
	} else {
		b.Summary = textLines(loose(root))
	}
	for _, code := range root.descendants("code") {
		if lines := codeLines(code.text); len(lines) > 0 {
			b.Samples = append(b.Samples, model.CodeSample{Language: CodeLanguage, Lines: lines})
		}
	}
	if remarks := root.find("remarks"); len(remarks) > 0 && len(remarks[0].descendants("code")) == 0 {
		b.Remarks = textLines(remarks[0])
	}

	if len(b.Summary) == 0 && len(b.Samples) == 0 && len(b.Remarks) == 0 {
		return nil
	}
	return b
}

// Render flattens a block into comment lines: summary, then each code sample
// fenced, then the remarks behind RemarksIntro.
func Render(b *model.DocBlock) []string {
	if b == nil {
		return nil
	}
	lines := append([]string(nil), b.Summary...)
	for _, s := range b.Samples {
		lines = append(lines, "", "```"+s.Language)
		lines = append(lines, s.Lines...)
		lines = append(lines, "```")
	}
	if len(b.Remarks) > 0 {
		lines = append(lines, "", RemarksIntro)
		lines = append(lines, b.Remarks...)
	}
	for len(lines) > 0 && lines[0] == "" {
		lines = lines[1:]
	}
	return lines
}

// sectionTags are the top-level documentation sections.
var sectionTags = map[string]bool{
	"summary": true, "remarks": true, "value": true, "returns": true, "param": true,
	"typeparam": true, "exception": true, "example": true, "code": true,
	"inheritdoc": true, "include": true, "permission": true, "seealso": true,
}

// loose keeps the text written outside any section, as in "/// Gets the id".
func loose(root *element) *element {
	out := &element{name: root.name}
	for _, c := range root.children {
		if !sectionTags[c.name] {
			out.children = append(out.children, c)
		}
	}
	return out
}

func textLines(e *element) []string {
	var sb strings.Builder
	writeInline(&sb, e)
	return tidy(strings.Split(sb.String(), "\n"))
}

func writeInline(sb *strings.Builder, e *element) {
	for _, c := range e.children {
		switch c.name {
		case "":
			sb.WriteString(c.text)
		case "code":
			// rendered as a fenced sample
		case "see", "seealso":
			if len(c.children) > 0 {
				writeInline(sb, c)
			} else {
				sb.WriteString(reference(c))
			}
		case "paramref", "typeparamref":
			sb.WriteString(c.attrs["name"])
		case "c":
			sb.WriteString("`")
			writeInline(sb, c)
			sb.WriteString("`")
		case "para", "br":
			sb.WriteString("\n")
			writeInline(sb, c)
			sb.WriteString("\n")
		case "item":
			var item strings.Builder
			writeInline(&item, c)
			sb.WriteString("\n- ")
			sb.WriteString(strings.Join(strings.Fields(item.String()), " "))
			sb.WriteString("\n")
		default:
			writeInline(sb, c)
		}
	}
}

// reference renders the target of a see/seealso tag.
func reference(e *element) string {
	for _, key := range []string{"cref", "href", "langword"} {
		v, ok := e.attrs[key]
		if !ok {
			continue
		}
		if len(v) > 2 && v[1] == ':' {
			v = v[2:] // T:, P:, M: member id prefix
		}
		return v
	}
	return ""
}

// tidy trims each line and drops blank ones.
func tidy(lines []string) []string {
	var out []string
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}

func codeLines(raw string) []string {
	var out []string
	for _, l := range strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n") {
		l = strings.TrimRight(l, " \t\r")
		if l == "" && len(out) == 0 {
			continue
		}
		out = append(out, l)
	}
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return out
}
