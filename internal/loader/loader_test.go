package loader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okvm/vm8/internal/isa"
	"github.com/okvm/vm8/internal/objfile"
)

func TestLoadCopiesTextAndDataAtBase(t *testing.T) {
	text := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	data := []byte{9, 9}
	symbols := []objfile.Symbol{{Name: "main", Section: isa.SectionText, Value: 0, Global: true}}
	raw := objfile.WriteExecutable(text, data, symbols, 0)

	result, err := Load("out.vmc", raw, &Options{BaseAddress: 0x100})
	require.NoError(t, err)

	assert.Len(t, result.Image, 0x100+len(text)+len(data))
	assert.Equal(t, text, result.Image[0x100:0x100+len(text)])
	assert.Equal(t, data, result.Image[0x100+len(text):])
	assert.Equal(t, uint32(0x100), result.EntryPoint)
	assert.Equal(t, FormatExecutable, result.Format)
}

func TestLoadRejectsBadFormat(t *testing.T) {
	_, err := Load("bad.vmc", []byte("not an executable"), nil)
	require.Error(t, err)
}

func TestLoadDefaultOptionsZeroBase(t *testing.T) {
	raw := objfile.WriteExecutable([]byte{1, 2, 3, 4, 5, 6, 7, 8}, nil, nil, 4)
	result, err := Load("out.vmc", raw, nil)
	require.NoError(t, err)
	assert.Equal(t, uint32(4), result.EntryPoint)
}
