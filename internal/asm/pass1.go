package asm

import (
	"fmt"
	"strconv"
	"strings"
)

// Module is the result of pass 1: every section's layout, the symbol
// table, the export/import tables, the relocation list, and the ordered
// addresses of every .text instruction. Pass 2 consumes a Module
// alongside the same classified Lines to produce machine words.
type Module struct {
	Sections      map[SectionName]*Section
	Symbols       SymbolTable
	Exports       *ExportTable
	Imports       *ImportTable
	Relocations   []Relocation
	TextAddresses []uint16
	Lines         []Line
}

// Pass1 walks classified lines once, assigning an address to every label
// and instruction, and recording everything pass 2 needs to encode
// machine words and everything the linker needs to patch imports. It
// never encodes a word itself — see pass2.go.
func Pass1(lines []Line) (*Module, error) {
	m := &Module{
		Sections: make(map[SectionName]*Section),
		Symbols:  make(SymbolTable),
		Exports:  newExportTable(),
		Imports:  newImportTable(),
	}
	m.Lines = lines

	location := make(map[SectionName]uint16)
	ensureSection := func(name SectionName) *Section {
		s, ok := m.Sections[name]
		if !ok {
			s = newSection(name, name.defaultBase())
			m.Sections[name] = s
			location[name] = name.defaultBase()
		}
		return s
	}

	current := SecText
	ensureSection(current)

	defined := make(map[string]bool)
	wordIndex := make(map[SectionName]int)

	defineLabel := func(name string, lineNo int) error {
		if defined[name] {
			return fmt.Errorf("label %q redefined (line %d)", name, lineNo)
		}
		defined[name] = true
		addr := location[current]
		m.Symbols[name] = Symbol{Section: current, Address: addr}
		ensureSection(current).Symbols[name] = addr
		if _, declared := m.Exports.Address(name); declared {
			m.Exports.Resolve(name, addr)
		}
		return nil
	}

	for _, ln := range lines {
		if ln.Label != "" {
			if err := defineLabel(ln.Label, ln.LineNo); err != nil {
				return nil, err
			}
		}

		switch ln.Kind {
		case KindBlank:
			// nothing else to do

		case KindSectionSwitch:
			name := SectionName(ln.Directive)
			if !name.valid() {
				return nil, fmt.Errorf("line %d: unknown section %q", ln.LineNo, ln.Directive)
			}
			ensureSection(name)
			current = name

		case KindOrigin:
			if len(ln.Operands) != 1 {
				return nil, fmt.Errorf("line %d: ORG requires one operand", ln.LineNo)
			}
			addr, err := parseAddress(ln.Operands[0])
			if err != nil {
				return nil, fmt.Errorf("line %d: bad ORG operand %q: %w", ln.LineNo, ln.Operands[0], err)
			}
			location[current] = addr

		case KindExport:
			for _, name := range ln.Operands {
				m.Exports.Declare(name)
			}

		case KindImport:
			for _, name := range ln.Operands {
				m.Imports.Declare(name)
			}

		case KindData:
			sec := ensureSection(current)
			gatherDataReferences(sec, ln)
			size := dataByteSize(ln)
			location[current] += uint16(size)
			sec.Size += size

		case KindMnemonic:
			if err := pass1Mnemonic(m, ln, current, location, wordIndex); err != nil {
				return nil, err
			}
		}
	}

	return m, nil
}

// dataByteSize returns how many bytes a .word/.byte/.space line
// contributes, per spec §4.2: .word is 2 bytes per value, .byte is 1
// byte per value, .space N reserves N words (2·N bytes).
func dataByteSize(ln Line) int {
	switch ln.Directive {
	case ".word":
		return 2 * len(ln.Operands)
	case ".byte":
		return len(ln.Operands)
	case ".space":
		if len(ln.Operands) != 1 {
			return 0
		}
		n, err := strconv.Atoi(strings.TrimSpace(ln.Operands[0]))
		if err != nil {
			return 0
		}
		return 2 * n
	default:
		return 0
	}
}

// gatherDataReferences appends a Reference for every operand identifier
// that is not a numeric literal and not a register name.
func gatherDataReferences(sec *Section, ln Line) {
	if ln.Directive == ".space" {
		return
	}
	for _, opd := range ln.Operands {
		opd = strings.TrimSpace(opd)
		if opd == "" || isRegister(opd) || looksNumeric(opd) {
			continue
		}
		if isIdentifier(opd) {
			sec.References = append(sec.References, Reference{Symbol: opd, Line: ln.LineNo})
		}
	}
}

// pass1Mnemonic records a .text instruction's address, advances the
// location counter and running word index, and emits a relocation for
// every imported name the instruction mentions.
func pass1Mnemonic(m *Module, ln Line, current SectionName, location map[SectionName]uint16, wordIndex map[SectionName]int) error {
	sec := m.Sections[current]
	addr := location[current]

	if current == SecText {
		m.TextAddresses = append(m.TextAddresses, addr)
	}

	words := instructionWords(ln, m.Imports)
	location[current] += uint16(2 * words)
	sec.Size += 2 * words

	base := wordIndex[current]
	wordIndex[current] = base + words

	for _, opd := range ln.Operands {
		opd = strings.TrimSpace(opd)
		opd = strings.TrimPrefix(opd, "#")
		if !isIdentifier(opd) || isRegister(opd) {
			continue
		}
		if m.Imports.Has(opd) {
			m.Imports.Reference(opd, ln.LineNo)
			kind := RelocLowByte
			idx := base
			if isDualOperand(ln.Mnemonic) {
				kind = RelocAbsWord
				idx = base + 1 // the extension word
			}
			m.Relocations = append(m.Relocations, Relocation{
				Symbol:    opd,
				Section:   current,
				WordIndex: idx,
				Kind:      kind,
			})
		} else if isDualOperand(ln.Mnemonic) || isJump(ln.Mnemonic) {
			sec.References = append(sec.References, Reference{Symbol: opd, Line: ln.LineNo})
		}
	}

	return nil
}

// instructionWords returns how many 16-bit words a .text mnemonic line
// will occupy. Dual-operand instructions need a second, extension word
// whenever the source operand is an immediate literal (leading '#') or
// an unresolved import reference; every other form — register/register
// dual-operand, jumps, and the fixed NOP/RET/CALL stubs — is a single
// word.
func instructionWords(ln Line, imports *ImportTable) int {
	if !isDualOperand(ln.Mnemonic) || len(ln.Operands) == 0 {
		return 1
	}
	src := strings.TrimSpace(ln.Operands[0])
	if strings.HasPrefix(src, "#") {
		return 2
	}
	if isIdentifier(src) && !isRegister(src) && imports.Has(src) {
		return 2
	}
	return 1
}

func looksNumeric(s string) bool {
	if s == "" {
		return false
	}
	s = strings.TrimPrefix(s, "#")
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		_, err := strconv.ParseUint(s[2:], 16, 64)
		return err == nil
	}
	_, err := strconv.ParseInt(s, 10, 64)
	return err == nil
}

func isIdentifier(s string) bool {
	if s == "" || !isIdentStart(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !isIdentChar(s[i]) {
			return false
		}
	}
	return true
}

// parseAddress parses an ORG operand: a bare hex string, optionally
// prefixed with 0x.
func parseAddress(s string) (uint16, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "0x")
	s = strings.TrimPrefix(s, "0X")
	v, err := strconv.ParseUint(s, 16, 16)
	if err != nil {
		return 0, err
	}
	return uint16(v), nil
}
