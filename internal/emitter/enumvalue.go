package emitter

import (
	"strings"
)

// enumOperators are the C# constant operators TypeScript enums also accept,
// longest first.
var enumOperators = []string{"<<", ">>", "|", "&", "^", "~", "+", "-", "*", "(", ")"}

// enumInitializer converts a C# enum member initializer to TypeScript. Only
// integer literals, the operators above and members of the same enum are
// accepted; anything else (casts, char literals, other types' constants)
// reports false and the member falls back to an implicit value.
func enumInitializer(expr, enumName string, members map[string]bool) (string, bool) {
	var (
		b       strings.Builder
		operand bool
		seen    bool
	)
	for i := 0; i < len(expr); {
		c := expr[i]
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			i++
		case c >= '0' && c <= '9':
			j := i
			for j < len(expr) && isWordByte(expr[j]) {
				j++
			}
			lit, ok := integerLiteral(expr[i:j])
			if !ok {
				return "", false
			}
			b.WriteString(lit)
			operand, seen, i = true, true, j
		case isWordByte(c):
			j := i
			for j < len(expr) && (isWordByte(expr[j]) || expr[j] == '.') {
				j++
			}
			name := strings.TrimPrefix(expr[i:j], enumName+".")
			if !members[name] {
				return "", false
			}
			b.WriteString(name)
			operand, seen, i = true, true, j
		default:
			op := ""
			for _, o := range enumOperators {
				if strings.HasPrefix(expr[i:], o) {
					op = o
					break
				}
			}
			switch {
			case op == "":
				return "", false
			case op == ")":
				b.WriteString(op)
				operand = true
			case op == "(" || !operand:
				// grouping or unary
				b.WriteString(op)
				operand = false
			default:
				b.WriteString(" " + op + " ")
				operand = false
			}
			i += len(op)
		}
	}
	return b.String(), seen
}

func isWordByte(c byte) bool {
	return c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

// integerLiteral normalizes a C# integer literal: type suffixes and digit
// separators are dropped, hex and binary prefixes kept.
func integerLiteral(lit string) (string, bool) {
	lit = strings.TrimRight(lit, "uUlL")
	prefix, digits := "", lit
	valid := func(c byte) bool { return c >= '0' && c <= '9' }
	if len(lit) > 2 && lit[0] == '0' {
		switch lit[1] {
		case 'x', 'X':
			prefix, digits = "0x", lit[2:]
			valid = func(c byte) bool { return c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F' }
		case 'b', 'B':
			prefix, digits = "0b", lit[2:]
			valid = func(c byte) bool { return c == '0' || c == '1' }
		}
	}
	digits = strings.ReplaceAll(digits, "_", "")
	if digits == "" {
		return "", false
	}
	for i := 0; i < len(digits); i++ {
		if !valid(digits[i]) {
			return "", false
		}
	}
	return prefix + digits, true
}
