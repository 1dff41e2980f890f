package objfile

// WriteExecutable serializes a linked text/data/symbol image into a
// .vmc byte image (§4.7): same header layout as an object file, magic
// VMCE, zero relocations, followed by the 8-byte "ENTR"+entry trailer.
func WriteExecutable(text, data []byte, symbols []Symbol, entry uint32) []byte {
	return writeContainer(MagicExecutable, text, data, symbols, nil, entry)
}
