package objfile

import "github.com/okvm/vm8/internal/isa"

// Symbol is the on-disk symbol record (§6.1), decoupled from the
// assembler's own symtab type so this package has no dependency on
// internal/asm/parser.
type Symbol struct {
	Name    string
	Section isa.Section
	Value   uint32
	Global  bool
}

// Relocation is the on-disk relocation record (§6.1).
type Relocation struct {
	Section isa.Section
	Type    uint16
	Offset  uint32
	Name    string
}

// Object is the in-memory form of a parsed object or executable file
// (§3 "Object file (in-memory)"): its source path, the raw bytes it was
// read from (empty for one not yet written), and its decoded sections.
type Object struct {
	Path    string
	Raw     []byte
	Text    []byte
	Data    []byte
	Symbols []Symbol
	Relocs  []Relocation
}
