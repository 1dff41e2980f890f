package lexer

import (
	"errors"
	"regexp"

	"github.com/okvm/vm8/internal/utils"
)

// ErrUnknownToken is the sentinel for "no lexical rule matched at this
// position" (§7: Lex error).
var ErrUnknownToken = errors.New("unknown token")

// rule pairs a lexical category with the regex that recognizes it.
// Rules are tried in this exact order at every cursor position; the first
// whose pattern matches anchored at the cursor wins (§4.2).
type rule struct {
	kind  Kind
	re    *regexp.Regexp
	skip  bool // discarded (whitespace, comment)
	strip int  // bytes to drop after a successful match when building Text (e.g. trailing ':')
}

var rules = []rule{
	{kind: -1, re: regexp.MustCompile(`^[ \t]+`), skip: true},
	{kind: -1, re: regexp.MustCompile(`^;[^\n]*`), skip: true},
	{kind: Directive, re: regexp.MustCompile(`^\.[A-Za-z_][A-Za-z0-9_]*`)},
	{kind: Label, re: regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*:`), strip: 1},
	// Matches any digit run after r/x, not just 0-31: an out-of-range
	// register (r32, x99, ...) must still lex as Register so the parser's
	// range check (ErrRegisterRange) is the one that reports it, rather
	// than it falling through to Ident and surfacing as a confusing
	// "expected register, got identifier" error.
	{kind: Register, re: regexp.MustCompile(`^[rx][0-9]+\b`)},
	{kind: HexInt, re: regexp.MustCompile(`^0x[0-9A-Fa-f]+`)},
	{kind: BinInt, re: regexp.MustCompile(`^0b[01]+`)},
	{kind: DecInt, re: regexp.MustCompile(`^-?[0-9]+`)},
	{kind: Ident, re: regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*`)},
	{kind: Comma, re: regexp.MustCompile(`^,`)},
	{kind: LBrack, re: regexp.MustCompile(`^\[`)},
	{kind: RBrack, re: regexp.MustCompile(`^\]`)},
	{kind: Plus, re: regexp.MustCompile(`^\+`)},
	{kind: String, re: regexp.MustCompile(`^"(?:\\.|[^"\\])*"`)},
	{kind: Newline, re: regexp.MustCompile(`^\n+`)},
}

// Lex tokenizes src in full, returning a token list terminated by exactly
// one Eof token (invariant 1, §8).
func Lex(src string) ([]Token, error) {
	var tokens []Token
	line, col := 1, 1
	pos := 0

	for pos < len(src) {
		rest := src[pos:]
		matched := false

		for _, r := range rules {
			loc := r.re.FindStringIndex(rest)
			if loc == nil || loc[0] != 0 {
				continue
			}
			matched = true
			text := rest[:loc[1]]

			if r.kind == Newline {
				count := len(text)
				tokens = append(tokens, Token{Kind: Newline, Text: text, Line: line, Column: col})
				line += count
				col = 1
			} else if !r.skip {
				lexeme := text
				if r.strip > 0 {
					lexeme = text[:len(text)-r.strip]
				}
				tokens = append(tokens, Token{Kind: r.kind, Text: lexeme, Line: line, Column: col})
				col += len(text)
			} else {
				col += len(text)
			}

			pos += len(text)
			break
		}

		if !matched {
			return nil, utils.MakeError(ErrUnknownToken, "unknown token at %d:%d", line, col)
		}
	}

	tokens = append(tokens, Token{Kind: Eof, Line: line, Column: col})
	return tokens, nil
}
