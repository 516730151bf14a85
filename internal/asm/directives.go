package asm

import "fmt"

// EncodeData produces the words a .word/.byte/.space line contributes
// in pass 2. .bss's .space reserves storage but emits nothing — it has
// no initializer, per spec §4.3.
func EncodeData(ln Line, section SectionName, symbols SymbolTable) ([]Word, error) {
	switch ln.Directive {
	case ".word":
		words := make([]Word, 0, len(ln.Operands))
		for _, opd := range ln.Operands {
			v, err := resolveDataValue(opd, symbols)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", ln.LineNo, err)
			}
			words = append(words, newWord(uint64(v), 16))
		}
		return words, nil

	case ".byte":
		words := make([]Word, 0, len(ln.Operands))
		for _, opd := range ln.Operands {
			v, err := resolveDataValue(opd, symbols)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", ln.LineNo, err)
			}
			if v > 0xFF {
				return nil, fmt.Errorf("line %d: .byte value %q out of range", ln.LineNo, opd)
			}
			words = append(words, newWord(uint64(v), 8))
		}
		return words, nil

	case ".space":
		return nil, nil

	default:
		return nil, fmt.Errorf("line %d: unknown data directive %q", ln.LineNo, ln.Directive)
	}
}

func resolveDataValue(opd string, symbols SymbolTable) (uint16, error) {
	if sym, ok := symbols[opd]; ok {
		return sym.Address, nil
	}
	v, err := parseLiteral(opd)
	if err != nil {
		return 0, fmt.Errorf("unresolved data operand %q", opd)
	}
	return v, nil
}
