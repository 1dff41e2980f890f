// Package lexer turns macro-expanded assembly source text into a token
// stream, trying a fixed ordered set of lexical rules at each cursor
// position (§4.2 of the assembler specification).
package lexer

// Kind tags a Token's lexical category.
type Kind int

const (
	Directive Kind = iota
	Label
	Register
	HexInt
	BinInt
	DecInt
	Ident
	Comma
	LBrack
	RBrack
	Plus
	Newline
	String
	Eof
)

func (k Kind) String() string {
	switch k {
	case Directive:
		return "directive"
	case Label:
		return "label"
	case Register:
		return "register"
	case HexInt:
		return "hex-int"
	case BinInt:
		return "bin-int"
	case DecInt:
		return "dec-int"
	case Ident:
		return "identifier"
	case Comma:
		return "comma"
	case LBrack:
		return "'['"
	case RBrack:
		return "']'"
	case Plus:
		return "'+'"
	case Newline:
		return "newline"
	case String:
		return "string"
	case Eof:
		return "eof"
	default:
		return "?"
	}
}

// Token is a tagged lexeme with its source position (1-based line/column).
type Token struct {
	Kind   Kind
	Text   string
	Line   int
	Column int
}
