package linker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okvm/vm8/internal/isa"
	"github.com/okvm/vm8/internal/objfile"
)

func TestLinkS5TwoObjectLink(t *testing.T) {
	a := &objfile.Object{
		Path: "a.vmo",
		Text: make([]byte, 16),
		Symbols: []objfile.Symbol{
			{Name: "main", Section: isa.SectionText, Value: 0, Global: true},
		},
	}
	b := &objfile.Object{
		Path: "b.vmo",
		Text: make([]byte, 8),
		Symbols: []objfile.Symbol{
			{Name: "helper", Section: isa.SectionText, Value: 0, Global: true},
		},
		Relocs: []objfile.Relocation{
			{Section: isa.SectionText, Type: 0, Offset: 4, Name: "main"},
		},
	}

	result, err := Link([]*objfile.Object{a, b})
	require.NoError(t, err)

	assert.Len(t, result.Text, 24)
	assert.Equal(t, uint32(0), result.Entry)

	var helperAddr uint32
	for _, s := range result.Symbols {
		if s.Name == "helper" {
			helperAddr = s.Value
		}
	}
	assert.Equal(t, uint32(16), helperAddr)

	patched := result.Text[20:24]
	assert.Equal(t, []byte{0, 0, 0, 0}, patched)
}

func TestLinkS6DuplicateSymbol(t *testing.T) {
	a := &objfile.Object{Path: "a.vmo", Text: make([]byte, 8), Symbols: []objfile.Symbol{{Name: "main", Section: isa.SectionText, Global: true}}}
	b := &objfile.Object{Path: "b.vmo", Text: make([]byte, 8), Symbols: []objfile.Symbol{{Name: "main", Section: isa.SectionText, Global: true}}}

	_, err := Link([]*objfile.Object{a, b})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateSymbol)
	assert.Contains(t, err.Error(), "a.vmo")
	assert.Contains(t, err.Error(), "b.vmo")
}

func TestLinkS6UndefinedSymbol(t *testing.T) {
	b := &objfile.Object{
		Path: "b.vmo",
		Text: make([]byte, 8),
		Relocs: []objfile.Relocation{
			{Section: isa.SectionText, Type: 0, Offset: 4, Name: "main"},
		},
	}

	_, err := Link([]*objfile.Object{b})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUndefinedSymbol)
	assert.Contains(t, err.Error(), "main")
}

func TestLinkEntryPointDefaultsToZeroWithoutMain(t *testing.T) {
	a := &objfile.Object{Path: "a.vmo", Text: make([]byte, 8)}
	result, err := Link([]*objfile.Object{a})
	require.NoError(t, err)
	assert.Equal(t, uint32(0), result.Entry)
}

func TestLinkDataRelocationResolvesAcrossSections(t *testing.T) {
	obj := &objfile.Object{
		Path: "one.vmo",
		Text: make([]byte, 8),
		Data: []byte{0, 0, 0, 0},
		Symbols: []objfile.Symbol{
			{Name: "main", Section: isa.SectionText, Value: 0, Global: true},
		},
		Relocs: []objfile.Relocation{
			{Section: isa.SectionData, Type: 0, Offset: 0, Name: "main"},
		},
	}

	result, err := Link([]*objfile.Object{obj})
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0, 0, 0}, result.Data)
}

func TestLinkRelocOutOfBounds(t *testing.T) {
	obj := &objfile.Object{
		Path: "one.vmo",
		Text: make([]byte, 8),
		Symbols: []objfile.Symbol{
			{Name: "main", Section: isa.SectionText, Value: 0, Global: true},
		},
		Relocs: []objfile.Relocation{
			{Section: isa.SectionText, Type: 0, Offset: 8, Name: "main"},
		},
	}

	_, err := Link([]*objfile.Object{obj})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRelocOutOfBounds)
}

func TestLinkUnsupportedRelocType(t *testing.T) {
	obj := &objfile.Object{
		Path: "one.vmo",
		Text: make([]byte, 8),
		Symbols: []objfile.Symbol{
			{Name: "main", Section: isa.SectionText, Value: 0, Global: true},
		},
		Relocs: []objfile.Relocation{
			{Section: isa.SectionText, Type: 1, Offset: 0, Name: "main"},
		},
	}

	_, err := Link([]*objfile.Object{obj})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedRelocType)
}
