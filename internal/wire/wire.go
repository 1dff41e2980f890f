// Package wire encodes and decodes the little-endian primitives the object
// and executable file formats are built from.
package wire

import (
	"encoding/binary"
	"fmt"
)

// PutU8 appends a byte to buf and returns the grown slice.
func PutU8(buf []byte, v uint8) []byte {
	return append(buf, v)
}

// PutU16 appends a little-endian uint16 to buf and returns the grown slice.
func PutU16(buf []byte, v uint16) []byte {
	var tmp [2]byte
	binary.LittleEndian.PutUint16(tmp[:], v)
	return append(buf, tmp[:]...)
}

// PutU32 appends a little-endian uint32 to buf and returns the grown slice.
func PutU32(buf []byte, v uint32) []byte {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	return append(buf, tmp[:]...)
}

// PutI32 appends a little-endian signed 32-bit value to buf and returns the
// grown slice.
func PutI32(buf []byte, v int32) []byte {
	return PutU32(buf, uint32(v))
}

// GetU8 reads a byte at off. The caller must ensure off < len(buf).
func GetU8(buf []byte, off int) uint8 {
	return buf[off]
}

// GetU16 reads a little-endian uint16 at off. The caller must ensure
// off+2 <= len(buf).
func GetU16(buf []byte, off int) uint16 {
	return binary.LittleEndian.Uint16(buf[off : off+2])
}

// GetU32 reads a little-endian uint32 at off. The caller must ensure
// off+4 <= len(buf).
func GetU32(buf []byte, off int) uint32 {
	return binary.LittleEndian.Uint32(buf[off : off+4])
}

// GetI32 reads a little-endian signed 32-bit value at off. The caller must
// ensure off+4 <= len(buf).
func GetI32(buf []byte, off int) int32 {
	return int32(GetU32(buf, off))
}

// PutU32At overwrites the 4 bytes at off with the little-endian encoding of
// v. Used by the linker to patch relocations in place.
func PutU32At(buf []byte, off int, v uint32) {
	binary.LittleEndian.PutUint32(buf[off:off+4], v)
}

// NeedBytes reports an error if buf does not hold at least n bytes starting
// at off, naming what was being read for the error message.
func NeedBytes(buf []byte, off, n int, what string) error {
	if off < 0 || n < 0 || off+n > len(buf) {
		return fmt.Errorf("truncated: %s needs %d bytes at offset %d, have %d", what, n, off, len(buf))
	}
	return nil
}
