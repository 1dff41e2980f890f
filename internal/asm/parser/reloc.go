package parser

import "github.com/okvm/vm8/internal/isa"

// RelocType identifies how a relocation's target field is patched. Only
// one kind exists (§3, §6.1): the 32-bit field at the recorded offset is
// overwritten with the referenced symbol's absolute address.
type RelocType uint16

const RelocAbs32 RelocType = 0

// Relocation is a pending "patch this 4-byte field with symbol's
// address" instruction, resolved by the linker, never by the assembler
// itself (§9 "Single-pass parsing").
type Relocation struct {
	Section isa.Section
	Type    RelocType
	Offset  uint32
	Name    string
}
