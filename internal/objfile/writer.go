package objfile

import "github.com/okvm/vm8/internal/wire"

// WriteObject serializes text, data, symbols and relocs into a .vmo byte
// image, in the fixed layout order header, text, data, symbols,
// relocations (§4.4): offsets are computed from the actual section
// sizes, never padded or aligned.
func WriteObject(text, data []byte, symbols []Symbol, relocs []Relocation) []byte {
	return writeContainer(MagicObject, text, data, symbols, relocs, 0)
}

// writeContainer implements the shared header+sections+symtab(+relocs)
// layout used by both the object writer and the executable writer
// (§4.4, §4.7); entry is only meaningful (and only written, as a
// trailer) when magic is MagicExecutable.
func writeContainer(magic uint32, text, data []byte, symbols []Symbol, relocs []Relocation, entry uint32) []byte {
	symBlob := encodeSymbols(symbols)
	relBlob := encodeRelocs(relocs)

	textOff := uint32(HeaderSize)
	textSize := uint32(len(text))
	dataOff := textOff + textSize
	dataSize := uint32(len(data))
	symOff := dataOff + dataSize
	relOff := symOff + uint32(len(symBlob))

	var buf []byte
	buf = wire.PutU32(buf, magic)
	buf = wire.PutU16(buf, Version)
	buf = wire.PutU16(buf, 0) // flags
	buf = wire.PutU32(buf, textOff)
	buf = wire.PutU32(buf, textSize)
	buf = wire.PutU32(buf, dataOff)
	buf = wire.PutU32(buf, dataSize)
	buf = wire.PutU32(buf, symOff)
	buf = wire.PutU32(buf, uint32(len(symbols)))
	buf = wire.PutU32(buf, relOff)
	buf = wire.PutU32(buf, uint32(len(relocs)))

	buf = append(buf, text...)
	buf = append(buf, data...)
	buf = append(buf, symBlob...)
	buf = append(buf, relBlob...)

	if magic == MagicExecutable {
		buf = append(buf, 'E', 'N', 'T', 'R')
		buf = wire.PutU32(buf, entry)
	}

	return buf
}

func encodeSymbols(symbols []Symbol) []byte {
	var buf []byte
	for _, s := range symbols {
		var flags uint16
		if s.Global {
			flags |= flagGlobal
		}
		buf = wire.PutU16(buf, uint16(s.Section))
		buf = wire.PutU16(buf, flags)
		buf = wire.PutU32(buf, s.Value)
		buf = wire.PutU16(buf, uint16(len(s.Name)))
		buf = append(buf, s.Name...)
	}
	return buf
}

func encodeRelocs(relocs []Relocation) []byte {
	var buf []byte
	for _, r := range relocs {
		buf = wire.PutU16(buf, uint16(r.Section))
		buf = wire.PutU16(buf, r.Type)
		buf = wire.PutU32(buf, r.Offset)
		buf = wire.PutU16(buf, uint16(len(r.Name)))
		buf = append(buf, r.Name...)
	}
	return buf
}
