package asm

import (
	"fmt"
	"strings"
)

// Result bundles everything a caller — the CLI's assemble and dump
// subcommands alike — needs after assembling one source file.
type Result struct {
	Module *Module
	Object *Object
}

// Assemble runs both passes over src and returns the resolved module
// and the encoded object. src is split into lines and classified
// internally; callers never call ClassifyLine/Pass1/Pass2 directly.
func Assemble(src string) (*Result, error) {
	rawLines := strings.Split(src, "\n")
	lines := make([]Line, 0, len(rawLines))
	for i, raw := range rawLines {
		lines = append(lines, ClassifyLine(raw, i+1))
	}

	m, err := Pass1(lines)
	if err != nil {
		return nil, fmt.Errorf("pass 1: %w", err)
	}

	obj, err := Pass2(m)
	if err != nil {
		return nil, fmt.Errorf("pass 2: %w", err)
	}

	return &Result{Module: m, Object: obj}, nil
}

// MachineCode returns the combined word stream a GUI's "machine code"
// view shows: .data words in source order followed by .text words in
// source order.
func (r *Result) MachineCode() []Word {
	out := make([]Word, 0, len(r.Object.Data)+len(r.Object.Text))
	out = append(out, r.Object.Data...)
	out = append(out, r.Object.Text...)
	return out
}

// ListingLine is one row of the host-facing per-line listing: the
// original source text annotated with the words it emitted, matching
// the original tool's "<16-bit binary> -> 0xHEX" reconstruction for
// code/data lines and an empty annotation for everything else.
type ListingLine struct {
	LineNo int
	Source string
	Words  []Word
}

// Listing reconstructs a line-by-line view of what each source line
// assembled to, for the `m430 dump` CLI view.
func Listing(src string, res *Result) []ListingLine {
	rawLines := strings.Split(src, "\n")
	out := make([]ListingLine, 0, len(rawLines))

	textIdx, dataIdx := 0, 0
	current := SecText
	for i, raw := range rawLines {
		ln := ClassifyLine(raw, i+1)
		row := ListingLine{LineNo: i + 1, Source: raw}

		switch ln.Kind {
		case KindSectionSwitch:
			current = SectionName(ln.Directive)

		case KindMnemonic:
			if current == SecText {
				n := instructionWords(ln, res.Module.Imports)
				if textIdx+n <= len(res.Object.Text) {
					row.Words = res.Object.Text[textIdx : textIdx+n]
				}
				textIdx += n
			}

		case KindData:
			if current == SecData {
				n := len(ln.Operands)
				if ln.Directive == ".byte" || ln.Directive == ".word" {
					if dataIdx+n <= len(res.Object.Data) {
						row.Words = res.Object.Data[dataIdx : dataIdx+n]
					}
					dataIdx += n
				}
			}
		}

		out = append(out, row)
	}
	return out
}

// String renders a listing row as the source line followed by
// "  ; <bits> -> 0xHEX" for each emitted word (comma-separated), or as
// the source line alone when the line emitted nothing.
func (l ListingLine) String() string {
	if len(l.Words) == 0 {
		return l.Source
	}
	var parts []string
	for _, w := range l.Words {
		parts = append(parts, fmt.Sprintf("%s -> %s", w.Bits, w.Hex()))
	}
	return l.Source + "  ; " + strings.Join(parts, ", ")
}
