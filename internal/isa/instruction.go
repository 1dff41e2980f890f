package isa

import "github.com/okvm/vm8/internal/wire"

// InstructionSize is the fixed encoded width of a machine instruction, in
// bytes: one opcode byte, three register bytes, one signed 32-bit
// immediate.
const InstructionSize = 8

// Instruction is a single decoded machine instruction. Register slots that
// an opcode does not use are zero. Imm holds whatever the operand encoding
// placed there; for jmp/call/beq/bne operands that referenced a symbol,
// Imm is 0 until LabelRef is resolved by the linker and patched via a
// relocation — the assembler itself never resolves it.
type Instruction struct {
	Op       OpCode
	Rd       uint8
	Rs1      uint8
	Rs2      uint8
	Imm      int32
	LabelRef string // name of the referenced symbol, "" if none
	Line     int    // 1-based source line, for diagnostics
}

// Encode serializes the instruction to its fixed 8-byte wire form. LabelRef
// and Line carry no encoded representation: LabelRef drives relocation
// emission during parsing and Line is kept for diagnostics.
func (i Instruction) Encode() [InstructionSize]byte {
	var out [InstructionSize]byte
	buf := out[:0]
	buf = wire.PutU8(buf, uint8(i.Op))
	buf = wire.PutU8(buf, i.Rd)
	buf = wire.PutU8(buf, i.Rs1)
	buf = wire.PutU8(buf, i.Rs2)
	buf = wire.PutI32(buf, i.Imm)
	return out
}

// DecodeInstruction parses a single 8-byte instruction record. It performs
// no validation beyond what the byte layout implies; opcode validity is
// the concern of callers that care (the reference VM, not this toolchain).
func DecodeInstruction(b []byte) Instruction {
	return Instruction{
		Op:  OpCode(wire.GetU8(b, 0)),
		Rd:  wire.GetU8(b, 1),
		Rs1: wire.GetU8(b, 2),
		Rs2: wire.GetU8(b, 3),
		Imm: wire.GetI32(b, 4),
	}
}

// ImmOffset is the byte offset of the immediate field within an encoded
// instruction — relocations generated from a symbolic operand always
// target this offset relative to the instruction's start (§3, §4.3.1).
const ImmOffset = 4
