package asm

import "fmt"

// Object is the fully assembled module: the emitted words for .text and
// .data, plus everything a link editor needs to merge it with others.
type Object struct {
	Text        []Word
	Data        []Word
	Exports     *ExportTable
	Imports     *ImportTable
	Relocations []Relocation
}

// Pass2 walks the classified lines a second time, now with a complete
// symbol table, encoding every .text instruction and .data initializer
// into words. It assumes Pass1 already ran over the same lines and
// returned m.
func Pass2(m *Module) (*Object, error) {
	obj := &Object{
		Exports:     m.Exports,
		Imports:     m.Imports,
		Relocations: m.Relocations,
	}

	current := SecText
	textIdx := 0

	for _, ln := range m.Lines {
		switch ln.Kind {
		case KindSectionSwitch:
			current = SectionName(ln.Directive)

		case KindData:
			if current != SecData {
				continue
			}
			words, err := EncodeData(ln, current, m.Symbols)
			if err != nil {
				return nil, err
			}
			obj.Data = append(obj.Data, words...)

		case KindMnemonic:
			if current != SecText {
				continue
			}
			addr := m.TextAddresses[textIdx]
			textIdx++
			words, err := EncodeInstruction(ln, m.Symbols, m.Imports, addr)
			if err != nil {
				return nil, err
			}
			obj.Text = append(obj.Text, words...)
		}
	}

	for _, r := range m.Relocations {
		if r.Section == SecText && r.WordIndex >= len(obj.Text) {
			return nil, fmt.Errorf("internal error: relocation for %q references word %d beyond %d emitted words", r.Symbol, r.WordIndex, len(obj.Text))
		}
	}

	return obj, nil
}
