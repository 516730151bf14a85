package link

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gmofishsauce/m430/internal/asm"
)

func TestMergedConcatenatesInModuleNameOrder(t *testing.T) {
	a, err := asm.Assemble(".text\nNOP\n")
	require.NoError(t, err)
	b, err := asm.Assemble(".text\nNOP\nNOP\n")
	require.NoError(t, err)

	res, err := Link(map[string]*asm.Object{"zzz": a.Object, "aaa": b.Object})
	require.NoError(t, err)

	merged := Merged(res)
	assert.Equal(t, 3, len(merged.Text), "aaa (2 words) must precede zzz (1 word)")
	assert.Equal(t, "aaa", res.Modules[0].Name)
	assert.Equal(t, "zzz", res.Modules[1].Name)
}

func TestMergedExportsCarryResolvedAddresses(t *testing.T) {
	a, err := asm.Assemble(".text\n.def entry\nentry: NOP\n")
	require.NoError(t, err)

	res, err := Link(map[string]*asm.Object{"a": a.Object})
	require.NoError(t, err)

	merged := Merged(res)
	addr, ok := merged.Exports.Address("entry")
	require.True(t, ok)
	require.NotNil(t, addr)
	assert.Equal(t, uint16(0), *addr)
}

func TestWriteLinkedOmitsExportsAndRelocations(t *testing.T) {
	a, err := asm.Assemble(".text\n.def entry\nentry: NOP\nNOP\n")
	require.NoError(t, err)
	b, err := asm.Assemble(".data\nvalue: .word 0x00FF\n")
	require.NoError(t, err)

	res, err := Link(map[string]*asm.Object{"a": a.Object, "b": b.Object})
	require.NoError(t, err)
	merged := Merged(res)

	var buf strings.Builder
	require.NoError(t, WriteLinked(&buf, merged))
	out := buf.String()

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.NotEmpty(t, lines)
	assert.Equal(t, "COFF_LINKED EXECUTABLE FILE", lines[0])
	assert.Equal(t, "EOF", lines[len(lines)-1])

	assert.Contains(t, out, "SECTION .text")
	assert.Contains(t, out, "SECTION .data")
	assert.NotContains(t, out, "COFF\n")
	assert.NotContains(t, out, "EXPORTS")
	assert.NotContains(t, out, "RELOCATIONS")

	for _, word := range merged.Text {
		assert.Contains(t, out, word.Hex())
	}
	for _, word := range merged.Data {
		assert.Contains(t, out, word.Hex())
	}
}
