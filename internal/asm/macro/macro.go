// Package macro implements the textual pre-pass that expands `.macro`
// invocations before the lexer ever sees the source (§4.1 of the
// assembler specification). Expansion is purely textual: it does not
// re-lex substituted arguments, so an argument like "[r1+4]" lands in the
// body verbatim, with no hygiene.
package macro

import (
	"errors"
	"strconv"
	"strings"

	"github.com/okvm/vm8/internal/utils"
)

var (
	ErrUnterminated = errors.New("unterminated macro definition")
	ErrNestedMacro  = errors.New("nested macro definition")
	ErrArity        = errors.New("wrong macro argument count")
	ErrMissingName  = errors.New("macro definition missing name")
)

// Macro is a named parameterized source-text template.
type Macro struct {
	Name  string
	Arity int
	Body  []string
}

// Expand runs the macro pre-pass over src and returns the fully expanded
// source text. Macros are usable only below their `.endm`; a line is an
// invocation of the nearest-preceding matching definition, first match
// wins among same-named macros (later definitions shadow invocations
// below them, per §4.1's "Ordering").
func Expand(src string) (string, error) {
	lines := strings.Split(src, "\n")

	var macros []*Macro
	var out []string

	for i := 0; i < len(lines); i++ {
		line := lines[i]
		trimmed := strings.TrimSpace(line)

		if isDirectiveStart(trimmed, ".macro") {
			def, consumed, err := parseDefinition(lines, i)
			if err != nil {
				return "", err
			}
			macros = append(macros, def)
			i += consumed
			continue
		}

		if isDirectiveStart(trimmed, ".endm") {
			return "", utils.MakeError(ErrNestedMacro, "'.endm' with no matching '.macro' at line %d", i+1)
		}

		if m, args, ok := matchInvocation(trimmed, macros); ok {
			expanded, err := expandBody(m, args, i+1)
			if err != nil {
				return "", err
			}
			out = append(out, expanded...)
			continue
		}

		out = append(out, line)
	}

	return strings.Join(out, "\n"), nil
}

func isDirectiveStart(trimmed, directive string) bool {
	if trimmed == directive {
		return true
	}
	return strings.HasPrefix(trimmed, directive+" ") || strings.HasPrefix(trimmed, directive+"\t")
}

// parseDefinition reads a `.macro NAME ARITY` header and its body up to
// `.endm`, starting at lines[start]. It returns the parsed macro and the
// number of extra lines consumed beyond the header line itself.
func parseDefinition(lines []string, start int) (*Macro, int, error) {
	header := strings.Fields(strings.TrimSpace(lines[start]))
	if len(header) < 2 {
		return nil, 0, utils.MakeError(ErrMissingName, "'.macro' at line %d needs a name and arity", start+1)
	}

	name := header[1]
	arity := 0
	if len(header) >= 3 {
		n, err := strconv.Atoi(header[2])
		if err != nil {
			return nil, 0, utils.MakeError(ErrMissingName, "invalid arity %q at line %d", header[2], start+1)
		}
		arity = n
	}

	var body []string
	i := start + 1
	for {
		if i >= len(lines) {
			return nil, 0, utils.MakeError(ErrUnterminated, "'.macro %s' at line %d never closed with '.endm'", name, start+1)
		}
		trimmed := strings.TrimSpace(lines[i])
		if isDirectiveStart(trimmed, ".macro") {
			return nil, 0, utils.MakeError(ErrNestedMacro, "nested '.macro' at line %d inside '.macro %s'", i+1, name)
		}
		if isDirectiveStart(trimmed, ".endm") {
			break
		}
		body = append(body, lines[i])
		i++
	}

	return &Macro{Name: name, Arity: arity, Body: body}, i - start, nil
}

// matchInvocation checks whether trimmed is an invocation of one of the
// known macros, scanning in reverse definition order so later
// (shadowing) definitions win, as the spec's "first match wins" ordering
// requires once macros are restricted to being usable only below their
// `.endm`.
func matchInvocation(trimmed string, macros []*Macro) (*Macro, []string, bool) {
	for i := len(macros) - 1; i >= 0; i-- {
		m := macros[i]
		if trimmed == m.Name {
			return m, nil, true
		}
		if strings.HasPrefix(trimmed, m.Name+" ") || strings.HasPrefix(trimmed, m.Name+"\t") {
			rest := strings.TrimSpace(trimmed[len(m.Name):])
			return m, splitArgs(rest), true
		}
	}
	return nil, nil, false
}

// splitArgs splits an argument list on top-level commas; commas nested
// inside `[...]` do not split.
func splitArgs(rest string) []string {
	if rest == "" {
		return nil
	}

	var args []string
	depth := 0
	last := 0
	for i, r := range rest {
		switch r {
		case '[':
			depth++
		case ']':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				args = append(args, strings.TrimSpace(rest[last:i]))
				last = i + 1
			}
		}
	}
	args = append(args, strings.TrimSpace(rest[last:]))
	return args
}

// expandBody substitutes $1..$N in each body line with the literal
// invocation argument text, scanning left to right with an advancing
// cursor so substituted text is never re-scanned for further $k markers.
func expandBody(m *Macro, args []string, invocationLine int) ([]string, error) {
	if len(args) != m.Arity {
		return nil, utils.MakeError(ErrArity, "macro '%s' expects %d argument(s), got %d (invocation at line %d)", m.Name, m.Arity, len(args), invocationLine)
	}

	out := make([]string, len(m.Body))
	for i, line := range m.Body {
		out[i] = substitute(line, args)
	}
	return out, nil
}

func substitute(line string, args []string) string {
	var b strings.Builder
	i := 0
	for i < len(line) {
		if line[i] == '$' && i+1 < len(line) && line[i+1] >= '1' && line[i+1] <= '9' {
			k := int(line[i+1] - '0')
			if k <= len(args) {
				b.WriteString(args[k-1])
				i += 2
				continue
			}
		}
		b.WriteByte(line[i])
		i++
	}
	return b.String()
}
