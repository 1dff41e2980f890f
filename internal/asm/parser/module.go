// Package parser consumes a lexer.Token stream and produces the
// in-memory form of a single assembled module: an instruction list,
// data bytes, a symbol table and a relocation list (§4.3 of the
// assembler specification). It never touches source text or object-file
// framing directly.
package parser

import "github.com/okvm/vm8/internal/isa"

// Module is everything the parser extracts from one source file, ready
// to be handed to the object-file writer.
type Module struct {
	Instructions []isa.Instruction
	Data         []byte
	Symbols      []Symbol
	Relocs       []Relocation
}

// TextSize is the byte length of the module's text section.
func (m *Module) TextSize() uint32 {
	return uint32(len(m.Instructions)) * isa.InstructionSize
}

// DataSize is the byte length of the module's data section.
func (m *Module) DataSize() uint32 {
	return uint32(len(m.Data))
}
