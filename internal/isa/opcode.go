// Package isa describes the instruction set of the target virtual machine:
// its opcodes, the fixed 8-byte instruction encoding, and the sections an
// assembled program is split into. It has no knowledge of source text or
// object-file framing; those live in internal/asm and internal/objfile.
package isa

import (
	"errors"
	"strings"

	"github.com/okvm/vm8/internal/utils"
)

// OpCode is one of the fifteen machine instruction tags.
type OpCode uint8

const (
	OpLDI  OpCode = 1
	OpMOV  OpCode = 2
	OpADD  OpCode = 3
	OpSUB  OpCode = 4
	OpAND  OpCode = 5
	OpOR   OpCode = 6
	OpXOR  OpCode = 7
	OpLW   OpCode = 8
	OpSW   OpCode = 9
	OpJMP  OpCode = 10
	OpBEQ  OpCode = 11
	OpBNE  OpCode = 12
	OpCALL OpCode = 13
	OpRET  OpCode = 14
	OpHALT OpCode = 15
)

var ErrUnknownMnemonic = errors.New("unknown mnemonic")

var mnemonics = map[OpCode]string{
	OpLDI:  "ldi",
	OpMOV:  "mov",
	OpADD:  "add",
	OpSUB:  "sub",
	OpAND:  "and",
	OpOR:   "or",
	OpXOR:  "xor",
	OpLW:   "lw",
	OpSW:   "sw",
	OpJMP:  "jmp",
	OpBEQ:  "beq",
	OpBNE:  "bne",
	OpCALL: "call",
	OpRET:  "ret",
	OpHALT: "halt",
}

var byMnemonic = utils.InvertedMap(mnemonics)

// Mnemonic returns the lowercase assembly mnemonic for op, or "" if op is
// not one of the fifteen defined opcodes.
func (op OpCode) Mnemonic() string {
	return mnemonics[op]
}

func (op OpCode) String() string {
	if m := op.Mnemonic(); m != "" {
		return m
	}
	return "?"
}

// ParseMnemonic resolves a case-insensitive mnemonic to its opcode.
func ParseMnemonic(s string) (OpCode, error) {
	if op, ok := byMnemonic[strings.ToLower(s)]; ok {
		return op, nil
	}
	return 0, utils.MakeError(ErrUnknownMnemonic, "%q", s)
}

// AllOpCodes returns the fifteen defined opcodes, sorted by value, mainly
// for documentation output (see cmd/vmasm's describe subcommand).
func AllOpCodes() []OpCode {
	ops := utils.Keys(mnemonics)
	// Insertion-sort-by-value: the table is small and this keeps the
	// dependency surface to utils.Keys instead of pulling in "sort" here.
	for i := 1; i < len(ops); i++ {
		for j := i; j > 0 && ops[j] < ops[j-1]; j-- {
			ops[j], ops[j-1] = ops[j-1], ops[j]
		}
	}
	return ops
}

// OperandShape describes the operand syntax accepted for an opcode (§4.3.1
// of the assembler specification), used by the parser to decide how many
// and what kind of operands to consume and by describe tooling to render
// documentation.
type OperandShape int

const (
	ShapeNone        OperandShape = iota // ret, halt
	ShapeRegImm                          // ldi rd, imm
	ShapeRegReg                          // mov rd, rs1
	ShapeRegRegReg                       // add/sub/and/or/xor rd, rs1, rs2
	ShapeRegIndirect                     // lw rd, [rs1]
	ShapeIndirectReg                     // sw rs2, [rs1]
	ShapeLabel                           // jmp/call label-or-int
	ShapeRegRegLabel                     // beq/bne rs1, rs2, label-or-int
)

var operandShapes = map[OpCode]OperandShape{
	OpLDI:  ShapeRegImm,
	OpMOV:  ShapeRegReg,
	OpADD:  ShapeRegRegReg,
	OpSUB:  ShapeRegRegReg,
	OpAND:  ShapeRegRegReg,
	OpOR:   ShapeRegRegReg,
	OpXOR:  ShapeRegRegReg,
	OpLW:   ShapeRegIndirect,
	OpSW:   ShapeIndirectReg,
	OpJMP:  ShapeLabel,
	OpCALL: ShapeLabel,
	OpBEQ:  ShapeRegRegLabel,
	OpBNE:  ShapeRegRegLabel,
	OpRET:  ShapeNone,
	OpHALT: ShapeNone,
}

// Shape returns the operand syntax for op.
func (op OpCode) Shape() OperandShape {
	return operandShapes[op]
}

func (s OperandShape) String() string {
	switch s {
	case ShapeNone:
		return "—"
	case ShapeRegImm:
		return "rd, imm"
	case ShapeRegReg:
		return "rd, rs1"
	case ShapeRegRegReg:
		return "rd, rs1, rs2"
	case ShapeRegIndirect:
		return "rd, [rs1]"
	case ShapeIndirectReg:
		return "rs2, [rs1]"
	case ShapeLabel:
		return "label-or-int"
	case ShapeRegRegLabel:
		return "rs1, rs2, label-or-int"
	default:
		return "?"
	}
}
