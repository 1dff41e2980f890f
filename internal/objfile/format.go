// Package objfile serializes and parses the two on-disk container
// formats the toolchain uses: the relocatable object file (.vmo, §6.1)
// produced by the assembler and consumed by the linker, and the linked
// executable (.vmc, §6.2) produced by the linker and consumed by the
// loader. Both share a 40-byte header layout; the executable additionally
// carries an 8-byte entry-point trailer and always has zero relocations.
package objfile

const (
	MagicObject     uint32 = 0x564D4F46 // "VMOF"
	MagicExecutable uint32 = 0x564D4345 // "VMCE"

	Version = 2

	HeaderSize  = 40
	TrailerSize = 8 // "ENTR" + u32 entry point

	symbolFixedSize = 2 + 2 + 4 + 2 // section + flags + value + namelen
	relocFixedSize  = 2 + 2 + 4 + 2 // section + type + offset + namelen

	flagGlobal uint16 = 1 << 0
)
