package utils

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMap(t *testing.T) {
	out := Map([]int{1, 2, 3}, func(v int) int { return v * 2 })
	assert.Equal(t, []int{2, 4, 6}, out)
}

func TestInvertedMap(t *testing.T) {
	in := map[string]int{"a": 1, "b": 2}
	out := InvertedMap(in)
	assert.Equal(t, map[int]string{1: "a", 2: "b"}, out)
}

func TestZipMapAndPairString(t *testing.T) {
	pairs := ZipMap(map[string]int{"x": 1})
	assert.Len(t, pairs, 1)
	assert.Equal(t, "x", pairs[0].First)
	assert.Equal(t, 1, pairs[0].Second)
	assert.Equal(t, "(x, 1)", pairs[0].String())
}

func TestFormatUintHex(t *testing.T) {
	assert.Equal(t, "0x002a", FormatUintHex(0x2A, 4))
}

func TestFormatUintBinary(t *testing.T) {
	assert.Equal(t, "00001111", FormatUintBinary(15, 8))
}

func TestFormatSlice(t *testing.T) {
	assert.Equal(t, "1, 2, 3", FormatSlice([]int{1, 2, 3}, ", "))
	assert.Equal(t, "", FormatSlice([]int{}, ", "))
}

func TestMakeErrorWrapsSentinelAndFormatsArgs(t *testing.T) {
	sentinel := errors.New("boom")
	err := MakeError(sentinel, "at %d:%d", 3, 7)
	assert.ErrorIs(t, err, sentinel)
	assert.Equal(t, "boom: at 3:7", err.Error())
}

func TestMax(t *testing.T) {
	assert.Equal(t, 9, Max([]int{3, 9, 1}))
}

func TestAsciiFrameProducesFiveLines(t *testing.T) {
	out := AsciiFrame([]AsciiFrameField{
		{Name: "op", Begin: 0, Width: 1},
		{Name: "imm", Begin: 1, Width: 4},
	}, 8, "byte", AsciiFrameUnitLayout_LeftToRight, 0)
	assert.NotEmpty(t, out)
	assert.Equal(t, 5, strings.Count(out, "\n"))
}
