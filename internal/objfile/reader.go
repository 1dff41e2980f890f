package objfile

import (
	"errors"

	"github.com/okvm/vm8/internal/isa"
	"github.com/okvm/vm8/internal/utils"
	"github.com/okvm/vm8/internal/wire"
)

// Sentinels for the §7 "Format error (linker)" category.
var (
	ErrBadMagic           = errors.New("bad magic")
	ErrUnsupportedVersion = errors.New("unsupported object version")
	ErrTruncated          = errors.New("truncated object file")
)

// ReadObject parses a .vmo byte image. path is carried through only for
// error messages.
func ReadObject(path string, raw []byte) (*Object, error) {
	return readContainer(path, raw, MagicObject)
}

// ReadExecutable parses a .vmc byte image, including its entry-point
// trailer. Returned as an Object plus the entry point; a linked
// executable always has zero relocations.
func ReadExecutable(path string, raw []byte) (*Object, uint32, error) {
	obj, err := readContainer(path, raw, MagicExecutable)
	if err != nil {
		return nil, 0, err
	}

	trailerOff := HeaderSize + len(obj.Text) + len(obj.Data) + symbolsBlobSize(obj.Symbols)
	if err := wire.NeedBytes(raw, trailerOff, TrailerSize, path+": entry trailer"); err != nil {
		return nil, 0, utils.MakeError(ErrTruncated, "%s", err)
	}
	if string(raw[trailerOff:trailerOff+4]) != "ENTR" {
		return nil, 0, utils.MakeError(ErrBadMagic, "%s: missing ENTR trailer", path)
	}
	entry := wire.GetU32(raw, trailerOff+4)
	return obj, entry, nil
}

func readContainer(path string, raw []byte, wantMagic uint32) (*Object, error) {
	if err := wire.NeedBytes(raw, 0, HeaderSize, path+": header"); err != nil {
		return nil, utils.MakeError(ErrTruncated, "%s", err)
	}

	magic := wire.GetU32(raw, 0)
	if magic != wantMagic {
		return nil, utils.MakeError(ErrBadMagic, "%s: got %#08x, want %#08x", path, magic, wantMagic)
	}
	version := wire.GetU16(raw, 4)
	if version != Version {
		return nil, utils.MakeError(ErrUnsupportedVersion, "%s: version %d", path, version)
	}

	textOff := int(wire.GetU32(raw, 8))
	textSize := int(wire.GetU32(raw, 12))
	dataOff := int(wire.GetU32(raw, 16))
	dataSize := int(wire.GetU32(raw, 20))
	symOff := int(wire.GetU32(raw, 24))
	symCount := int(wire.GetU32(raw, 28))
	relOff := int(wire.GetU32(raw, 32))
	relCount := int(wire.GetU32(raw, 36))

	if err := wire.NeedBytes(raw, textOff, textSize, path+": text section"); err != nil {
		return nil, utils.MakeError(ErrTruncated, "%s", err)
	}
	if err := wire.NeedBytes(raw, dataOff, dataSize, path+": data section"); err != nil {
		return nil, utils.MakeError(ErrTruncated, "%s", err)
	}

	text := raw[textOff : textOff+textSize]
	data := raw[dataOff : dataOff+dataSize]

	symbols, symEnd, err := decodeSymbols(path, raw, symOff, symCount)
	if err != nil {
		return nil, err
	}
	if symEnd != relOff {
		// The declared rel_off disagrees with the actual symbol blob
		// length; this is rejected and reported as truncation.
		return nil, utils.MakeError(ErrTruncated, "%s: rel_off %d does not follow symbol blob (ends at %d)", path, relOff, symEnd)
	}

	relocs, err := decodeRelocs(path, raw, relOff, relCount)
	if err != nil {
		return nil, err
	}

	return &Object{Path: path, Raw: raw, Text: text, Data: data, Symbols: symbols, Relocs: relocs}, nil
}

func decodeSymbols(path string, raw []byte, off, count int) ([]Symbol, int, error) {
	out := make([]Symbol, 0, count)
	pos := off
	for i := 0; i < count; i++ {
		if err := wire.NeedBytes(raw, pos, symbolFixedSize, path+": symbol record"); err != nil {
			return nil, 0, utils.MakeError(ErrTruncated, "%s", err)
		}
		section := isa.Section(wire.GetU16(raw, pos))
		flags := wire.GetU16(raw, pos+2)
		value := wire.GetU32(raw, pos+4)
		nameLen := int(wire.GetU16(raw, pos+8))
		pos += symbolFixedSize

		if err := wire.NeedBytes(raw, pos, nameLen, path+": symbol name"); err != nil {
			return nil, 0, utils.MakeError(ErrTruncated, "%s", err)
		}
		name := string(raw[pos : pos+nameLen])
		pos += nameLen

		out = append(out, Symbol{Name: name, Section: section, Value: value, Global: flags&flagGlobal != 0})
	}
	return out, pos, nil
}

func decodeRelocs(path string, raw []byte, off, count int) ([]Relocation, error) {
	out := make([]Relocation, 0, count)
	pos := off
	for i := 0; i < count; i++ {
		if err := wire.NeedBytes(raw, pos, relocFixedSize, path+": relocation record"); err != nil {
			return nil, utils.MakeError(ErrTruncated, "%s", err)
		}
		section := isa.Section(wire.GetU16(raw, pos))
		typ := wire.GetU16(raw, pos+2)
		offset := wire.GetU32(raw, pos+4)
		nameLen := int(wire.GetU16(raw, pos+8))
		pos += relocFixedSize

		if err := wire.NeedBytes(raw, pos, nameLen, path+": relocation name"); err != nil {
			return nil, utils.MakeError(ErrTruncated, "%s", err)
		}
		name := string(raw[pos : pos+nameLen])
		pos += nameLen

		out = append(out, Relocation{Section: section, Type: typ, Offset: offset, Name: name})
	}
	return out, nil
}

func symbolsBlobSize(symbols []Symbol) int {
	n := 0
	for _, s := range symbols {
		n += symbolFixedSize + len(s.Name)
	}
	return n
}
