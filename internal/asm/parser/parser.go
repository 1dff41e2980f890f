package parser

import (
	"errors"
	"strconv"
	"strings"

	"github.com/okvm/vm8/internal/asm/lexer"
	"github.com/okvm/vm8/internal/isa"
	"github.com/okvm/vm8/internal/utils"
)

// Sentinels for the §7 "Parse error" category.
var (
	ErrUnexpectedToken = errors.New("unexpected token")
	ErrRegisterRange   = errors.New("register out of range")
	ErrSymbolicByte    = errors.New(".byte with symbolic operand")
)

// Parse runs the single-pass parser over tokens (as produced by
// lexer.Lex) and returns the assembled module.
func Parse(tokens []lexer.Token) (*Module, error) {
	p := &parser{toks: tokens, section: isa.SectionText, syms: newSymtab()}
	return p.run()
}

type parser struct {
	toks    []lexer.Token
	pos     int
	section isa.Section

	instructions []isa.Instruction
	data         []byte
	syms         *symtab
	relocs       []Relocation
}

func (p *parser) run() (*Module, error) {
	for p.cur().Kind != lexer.Eof {
		tok := p.cur()
		switch tok.Kind {
		case lexer.Newline:
			p.advance()
		case lexer.Label:
			if err := p.syms.define(tok.Text, p.section, p.sectionSize()); err != nil {
				return nil, err
			}
			p.advance()
		case lexer.Directive:
			if err := p.directive(); err != nil {
				return nil, err
			}
		case lexer.Ident:
			if p.section == isa.SectionText {
				if err := p.instruction(); err != nil {
					return nil, err
				}
			} else {
				p.advance()
			}
		default:
			p.advance()
		}
	}

	return &Module{
		Instructions: p.instructions,
		Data:         p.data,
		Symbols:      p.syms.symbols(),
		Relocs:       p.relocs,
	}, nil
}

func (p *parser) sectionSize() uint32 {
	if p.section == isa.SectionText {
		return uint32(len(p.instructions)) * isa.InstructionSize
	}
	return uint32(len(p.data))
}

func (p *parser) cur() lexer.Token {
	if p.pos >= len(p.toks) {
		return lexer.Token{Kind: lexer.Eof}
	}
	return p.toks[p.pos]
}

func (p *parser) advance() lexer.Token {
	tok := p.cur()
	if p.pos < len(p.toks) {
		p.pos++
	}
	return tok
}

func (p *parser) expect(kind lexer.Kind) (lexer.Token, error) {
	tok := p.cur()
	if tok.Kind != kind {
		return tok, utils.MakeError(ErrUnexpectedToken, "expected %s, got %s at %d:%d", kind, tok.Kind, tok.Line, tok.Column)
	}
	return p.advance(), nil
}

// skipToNewline discards tokens until (but not including) the next
// Newline or Eof — used for directives this parser does not recognize
// (§4.3: "Any unrecognized directive — skip tokens up to the next
// newline").
func (p *parser) skipToNewline() {
	for p.cur().Kind != lexer.Newline && p.cur().Kind != lexer.Eof {
		p.advance()
	}
}

func (p *parser) directive() error {
	name := strings.ToLower(p.advance().Text)
	switch name {
	case ".text":
		p.section = isa.SectionText
	case ".data":
		p.section = isa.SectionData
	case ".global":
		return p.globalDirective()
	case ".byte":
		return p.byteDirective()
	case ".word":
		return p.wordDirective()
	default:
		p.skipToNewline()
	}
	return nil
}

func (p *parser) globalDirective() error {
	for {
		tok, err := p.expect(lexer.Ident)
		if err != nil {
			return err
		}
		p.syms.declareGlobal(tok.Text)
		if p.cur().Kind != lexer.Comma {
			break
		}
		p.advance()
	}
	return nil
}

// byteDirective parses `.byte V [, V]*`, emitting each value's low 8
// bits. §4.3: a symbolic operand is a hard error here — single-byte
// relocations are not supported.
func (p *parser) byteDirective() error {
	for {
		tok := p.cur()
		if tok.Kind == lexer.Ident {
			return utils.MakeError(ErrSymbolicByte, "%q at %d:%d", tok.Text, tok.Line, tok.Column)
		}
		v, err := p.intLiteral()
		if err != nil {
			return err
		}
		p.data = append(p.data, byte(v))
		if p.cur().Kind != lexer.Comma {
			break
		}
		p.advance()
	}
	return nil
}

// wordDirective parses `.word V [, V]*`. Each V that is an identifier
// emits a 4-byte zero placeholder plus a Data relocation at that offset
// (§4.3); each V that is an integer emits its 4 little-endian bytes
// directly.
func (p *parser) wordDirective() error {
	for {
		tok := p.cur()
		if tok.Kind == lexer.Ident {
			p.advance()
			offset := uint32(len(p.data))
			p.data = append(p.data, 0, 0, 0, 0)
			p.relocs = append(p.relocs, Relocation{Section: isa.SectionData, Type: RelocAbs32, Offset: offset, Name: tok.Text})
		} else {
			v, err := p.intLiteral()
			if err != nil {
				return err
			}
			u := uint32(v)
			p.data = append(p.data, byte(u), byte(u>>8), byte(u>>16), byte(u>>24))
		}
		if p.cur().Kind != lexer.Comma {
			break
		}
		p.advance()
	}
	return nil
}

// intLiteral consumes one HexInt, BinInt or DecInt token and returns its
// value.
func (p *parser) intLiteral() (int32, error) {
	tok := p.cur()
	switch tok.Kind {
	case lexer.HexInt:
		p.advance()
		n, err := strconv.ParseUint(tok.Text[2:], 16, 32)
		if err != nil {
			return 0, utils.MakeError(ErrUnexpectedToken, "bad hex literal %q at %d:%d", tok.Text, tok.Line, tok.Column)
		}
		return int32(uint32(n)), nil
	case lexer.BinInt:
		p.advance()
		n, err := strconv.ParseUint(tok.Text[2:], 2, 32)
		if err != nil {
			return 0, utils.MakeError(ErrUnexpectedToken, "bad binary literal %q at %d:%d", tok.Text, tok.Line, tok.Column)
		}
		return int32(uint32(n)), nil
	case lexer.DecInt:
		p.advance()
		n, err := strconv.ParseInt(tok.Text, 10, 32)
		if err != nil {
			return 0, utils.MakeError(ErrUnexpectedToken, "bad decimal literal %q at %d:%d", tok.Text, tok.Line, tok.Column)
		}
		return int32(n), nil
	default:
		return 0, utils.MakeError(ErrUnexpectedToken, "expected integer literal, got %s at %d:%d", tok.Kind, tok.Line, tok.Column)
	}
}

func (p *parser) register() (uint8, error) {
	tok, err := p.expect(lexer.Register)
	if err != nil {
		return 0, err
	}
	n, convErr := strconv.Atoi(tok.Text[1:])
	if convErr != nil || n < 0 || n > 31 {
		return 0, utils.MakeError(ErrRegisterRange, "%q at %d:%d", tok.Text, tok.Line, tok.Column)
	}
	return uint8(n), nil
}

func (p *parser) comma() error {
	_, err := p.expect(lexer.Comma)
	return err
}

// labelOrInt consumes an identifier (deferred to a relocation) or an
// integer literal, per §4.3.1.
func (p *parser) labelOrInt() (imm int32, labelRef string, err error) {
	if p.cur().Kind == lexer.Ident {
		tok := p.advance()
		return 0, tok.Text, nil
	}
	v, err := p.intLiteral()
	return v, "", err
}

// instruction parses one mnemonic plus its operands according to the
// opcode's OperandShape (§4.3.1) and appends the resulting record.
func (p *parser) instruction() error {
	mnemTok := p.advance()
	op, err := isa.ParseMnemonic(mnemTok.Text)
	if err != nil {
		return err
	}

	instr := isa.Instruction{Op: op, Line: mnemTok.Line}

	switch op.Shape() {
	case isa.ShapeNone:
		// no operands

	case isa.ShapeRegImm: // ldi rd, imm
		rd, err := p.register()
		if err != nil {
			return err
		}
		if err := p.comma(); err != nil {
			return err
		}
		imm, err := p.intLiteral()
		if err != nil {
			return err
		}
		instr.Rd, instr.Imm = rd, imm

	case isa.ShapeRegReg: // mov rd, rs1
		rd, err := p.register()
		if err != nil {
			return err
		}
		if err := p.comma(); err != nil {
			return err
		}
		rs1, err := p.register()
		if err != nil {
			return err
		}
		instr.Rd, instr.Rs1 = rd, rs1

	case isa.ShapeRegRegReg: // add/sub/and/or/xor rd, rs1, rs2
		rd, err := p.register()
		if err != nil {
			return err
		}
		if err := p.comma(); err != nil {
			return err
		}
		rs1, err := p.register()
		if err != nil {
			return err
		}
		if err := p.comma(); err != nil {
			return err
		}
		rs2, err := p.register()
		if err != nil {
			return err
		}
		instr.Rd, instr.Rs1, instr.Rs2 = rd, rs1, rs2

	case isa.ShapeRegIndirect: // lw rd, [rs1]
		rd, err := p.register()
		if err != nil {
			return err
		}
		if err := p.comma(); err != nil {
			return err
		}
		rs1, err := p.bracketedRegister()
		if err != nil {
			return err
		}
		instr.Rd, instr.Rs1 = rd, rs1

	case isa.ShapeIndirectReg: // sw rs2, [rs1]
		rs2, err := p.register()
		if err != nil {
			return err
		}
		if err := p.comma(); err != nil {
			return err
		}
		rs1, err := p.bracketedRegister()
		if err != nil {
			return err
		}
		instr.Rs1, instr.Rs2 = rs1, rs2

	case isa.ShapeLabel: // jmp/call label-or-int
		imm, ref, err := p.labelOrInt()
		if err != nil {
			return err
		}
		instr.Imm, instr.LabelRef = imm, ref

	case isa.ShapeRegRegLabel: // beq/bne rs1, rs2, label-or-int
		rs1, err := p.register()
		if err != nil {
			return err
		}
		if err := p.comma(); err != nil {
			return err
		}
		rs2, err := p.register()
		if err != nil {
			return err
		}
		if err := p.comma(); err != nil {
			return err
		}
		imm, ref, err := p.labelOrInt()
		if err != nil {
			return err
		}
		instr.Rs1, instr.Rs2, instr.Imm, instr.LabelRef = rs1, rs2, imm, ref
	}

	idx := len(p.instructions)
	p.instructions = append(p.instructions, instr)
	if instr.LabelRef != "" {
		p.relocs = append(p.relocs, Relocation{
			Section: isa.SectionText,
			Type:    RelocAbs32,
			Offset:  uint32(idx)*isa.InstructionSize + isa.ImmOffset,
			Name:    instr.LabelRef,
		})
	}
	return nil
}

// bracketedRegister parses `[` reg `]`, as used by lw/sw.
func (p *parser) bracketedRegister() (uint8, error) {
	if _, err := p.expect(lexer.LBrack); err != nil {
		return 0, err
	}
	reg, err := p.register()
	if err != nil {
		return 0, err
	}
	if _, err := p.expect(lexer.RBrack); err != nil {
		return 0, err
	}
	return reg, nil
}
