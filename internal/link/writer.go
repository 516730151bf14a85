package link

import (
	"bufio"
	"fmt"
	"io"

	"github.com/gmofishsauce/m430/internal/asm"
)

// Merged flattens a link Result into a single object: every module's
// .text and .data words concatenated in the same deterministic module
// order Link used, and the global export table. A fully linked object
// carries no outstanding relocations or imports — everything resolved.
func Merged(res *Result) *asm.Object {
	out := &asm.Object{
		Exports: asm.NewResolvedExports(res.Exports),
	}
	for _, mod := range res.Modules {
		out.Text = append(out.Text, mod.Object.Text...)
		out.Data = append(out.Data, mod.Object.Data...)
	}
	return out
}

// WriteLinked renders a fully linked program in the linker's own
// output format: identical structure to an assembler object, but with
// the header replaced by COFF_LINKED EXECUTABLE FILE and no EXPORTS or
// RELOCATIONS regions — a linked program has nothing left unresolved.
func WriteLinked(w io.Writer, merged *asm.Object) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, "COFF_LINKED EXECUTABLE FILE")

	fmt.Fprintln(bw, "SECTION .text")
	for _, word := range merged.Text {
		fmt.Fprintln(bw, word.Hex())
	}

	fmt.Fprintln(bw, "SECTION .data")
	for _, word := range merged.Data {
		fmt.Fprintln(bw, word.Hex())
	}

	fmt.Fprintln(bw, "EOF")

	return bw.Flush()
}
