package objfile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okvm/vm8/internal/isa"
)

func TestWriteObjectS1Header(t *testing.T) {
	// S1: ldi r1, 0x2A; halt -> 16 bytes of text, zero data/symbols/relocs.
	text := []byte{0x01, 0x01, 0x00, 0x00, 0x2A, 0x00, 0x00, 0x00, 0x0F, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}
	raw := WriteObject(text, nil, nil, nil)

	require.Len(t, raw, HeaderSize+len(text))
	assert.Equal(t, []byte{0x46, 0x4F, 0x4D, 0x56}, raw[0:4])
	assert.Equal(t, byte(Version), raw[4])
	assert.Equal(t, text, raw[HeaderSize:])
}

func TestWriteReadObjectRoundTrip(t *testing.T) {
	symbols := []Symbol{
		{Name: "L", Section: isa.SectionText, Value: 0, Global: false},
		{Name: "ext", Section: isa.SectionUndef, Value: 0, Global: true},
	}
	relocs := []Relocation{
		{Section: isa.SectionText, Type: 0, Offset: 4, Name: "L"},
	}
	text := make([]byte, isa.InstructionSize)
	data := []byte{1, 2, 3, 4}

	raw := WriteObject(text, data, symbols, relocs)

	obj, err := ReadObject("test.vmo", raw)
	require.NoError(t, err)
	assert.Equal(t, text, obj.Text)
	assert.Equal(t, data, obj.Data)
	assert.Equal(t, symbols, obj.Symbols)
	assert.Equal(t, relocs, obj.Relocs)
}

func TestReadObjectRejectsBadMagic(t *testing.T) {
	raw := WriteObject(nil, nil, nil, nil)
	raw[0] = 0xFF
	_, err := ReadObject("bad.vmo", raw)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBadMagic)
}

func TestReadObjectRejectsTruncatedHeader(t *testing.T) {
	_, err := ReadObject("short.vmo", make([]byte, 10))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTruncated)
}

func TestReadObjectRejectsTruncatedSection(t *testing.T) {
	raw := WriteObject([]byte{1, 2, 3, 4, 5, 6, 7, 8}, nil, nil, nil)
	truncated := raw[:len(raw)-4]
	_, err := ReadObject("truncated.vmo", truncated)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTruncated)
}

func TestWriteReadExecutableTrailer(t *testing.T) {
	symbols := []Symbol{{Name: "main", Section: isa.SectionText, Value: 0, Global: true}}
	raw := WriteExecutable([]byte{1, 2, 3, 4, 5, 6, 7, 8}, nil, symbols, 0x2A)

	assert.Equal(t, []byte{0x45, 0x43, 0x4D, 0x56}, raw[0:4]) // MagicExecutable, little-endian

	obj, entry, err := ReadExecutable("out.vmc", raw)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x2A), entry)
	assert.Equal(t, symbols, obj.Symbols)
	assert.Equal(t, "ENTR", string(raw[len(raw)-8:len(raw)-4]))
}
