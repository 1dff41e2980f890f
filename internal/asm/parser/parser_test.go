package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okvm/vm8/internal/asm/lexer"
	"github.com/okvm/vm8/internal/isa"
)

func parse(t *testing.T, src string) *Module {
	t.Helper()
	toks, err := lexer.Lex(src)
	require.NoError(t, err)
	mod, err := Parse(toks)
	require.NoError(t, err)
	return mod
}

func TestParseS1AssemblerSmoke(t *testing.T) {
	mod := parse(t, "ldi r1, 0x2A\nhalt\n")
	require.Len(t, mod.Instructions, 2)
	assert.Equal(t, isa.Instruction{Op: isa.OpLDI, Rd: 1, Imm: 0x2A, Line: 1}, mod.Instructions[0])
	assert.Equal(t, isa.OpHALT, mod.Instructions[1].Op)
	assert.Empty(t, mod.Data)
	assert.Empty(t, mod.Symbols)
	assert.Empty(t, mod.Relocs)
}

func TestParseS2LabelAndBranch(t *testing.T) {
	mod := parse(t, "L: beq r0, r0, L\n")
	require.Len(t, mod.Instructions, 1)
	instr := mod.Instructions[0]
	assert.Equal(t, isa.OpBEQ, instr.Op)
	assert.Equal(t, uint8(0), instr.Rs1)
	assert.Equal(t, uint8(0), instr.Rs2)
	assert.Equal(t, "L", instr.LabelRef)

	require.Len(t, mod.Symbols, 1)
	assert.Equal(t, Symbol{Name: "L", Section: isa.SectionText, Value: 0, Global: false}, mod.Symbols[0])

	require.Len(t, mod.Relocs, 1)
	assert.Equal(t, Relocation{Section: isa.SectionText, Type: RelocAbs32, Offset: 4, Name: "L"}, mod.Relocs[0])
}

func TestParseS4DataRelocation(t *testing.T) {
	mod := parse(t, ".data\nptr:\n.word main\n.text\nmain:\nhalt\n")

	require.Len(t, mod.Data, 4)
	assert.Equal(t, []byte{0, 0, 0, 0}, mod.Data)

	require.Len(t, mod.Relocs, 1)
	assert.Equal(t, Relocation{Section: isa.SectionData, Type: RelocAbs32, Offset: 0, Name: "main"}, mod.Relocs[0])

	syms := map[string]Symbol{}
	for _, s := range mod.Symbols {
		syms[s.Name] = s
	}
	assert.Equal(t, isa.SectionData, syms["ptr"].Section)
	assert.Equal(t, uint32(0), syms["ptr"].Value)
	assert.Equal(t, isa.SectionText, syms["main"].Section)
	assert.Equal(t, uint32(0), syms["main"].Value)
}

func TestParseByteDirective(t *testing.T) {
	mod := parse(t, ".data\n.byte 1, 0x02, 0b11\n")
	assert.Equal(t, []byte{1, 2, 3}, mod.Data)
}

func TestParseByteRejectsSymbolicOperand(t *testing.T) {
	toks, err := lexer.Lex(".data\n.byte main\n")
	require.NoError(t, err)
	_, err = Parse(toks)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSymbolicByte)
}

func TestParseGlobalBeforeDefinitionUpgradesInPlace(t *testing.T) {
	mod := parse(t, ".global L\nL:\nhalt\n")
	require.Len(t, mod.Symbols, 1)
	assert.Equal(t, Symbol{Name: "L", Section: isa.SectionText, Value: 0, Global: true}, mod.Symbols[0])
}

func TestParseGlobalNeverDefinedBecomesUndef(t *testing.T) {
	mod := parse(t, ".global missing\nhalt\n")
	require.Len(t, mod.Symbols, 1)
	assert.Equal(t, Symbol{Name: "missing", Section: isa.SectionUndef, Value: 0, Global: true}, mod.Symbols[0])
}

func TestParseDuplicateSymbolIsError(t *testing.T) {
	toks, err := lexer.Lex("L:\nhalt\nL:\nhalt\n")
	require.NoError(t, err)
	_, err = Parse(toks)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateSymbol)
}

func TestParseRegisterOutOfRange(t *testing.T) {
	// r32 lexes as a Register token (the lexer doesn't bound-check), so
	// the parser's own range check is what rejects it.
	toks, err := lexer.Lex("mov r32, r1\n")
	require.NoError(t, err)
	_, err = Parse(toks)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRegisterRange)
}

func TestParseMissingComma(t *testing.T) {
	toks, err := lexer.Lex("mov r0 r1\n")
	require.NoError(t, err)
	_, err = Parse(toks)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnexpectedToken)
}

func TestParseLoadStoreIndirect(t *testing.T) {
	mod := parse(t, "lw r1, [r2]\nsw r3, [r4]\n")
	require.Len(t, mod.Instructions, 2)

	lw := mod.Instructions[0]
	assert.Equal(t, isa.OpLW, lw.Op)
	assert.Equal(t, uint8(1), lw.Rd)
	assert.Equal(t, uint8(2), lw.Rs1)

	sw := mod.Instructions[1]
	assert.Equal(t, isa.OpSW, sw.Op)
	assert.Equal(t, uint8(3), sw.Rs2)
	assert.Equal(t, uint8(4), sw.Rs1)
}

func TestParseJumpWithIntegerTarget(t *testing.T) {
	mod := parse(t, "jmp 16\n")
	require.Len(t, mod.Instructions, 1)
	assert.Equal(t, int32(16), mod.Instructions[0].Imm)
	assert.Empty(t, mod.Relocs)
}

func TestParseUnrecognizedDirectiveIsSkipped(t *testing.T) {
	mod := parse(t, ".section foo bar\nhalt\n")
	require.Len(t, mod.Instructions, 1)
	assert.Equal(t, isa.OpHALT, mod.Instructions[0].Op)
}
