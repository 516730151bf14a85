package asm

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// WriteObject renders obj in the textual COFF-like format from spec §6:
// a COFF marker, a .text section, a .data section, an EXPORTS table (an
// unresolved export is written as the literal placeholder "????"), a
// RELOCATIONS table, and an EOF marker.
func WriteObject(w io.Writer, obj *Object) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, "COFF")

	fmt.Fprintln(bw, "SECTION .text")
	for _, word := range obj.Text {
		fmt.Fprintln(bw, word.Hex())
	}

	fmt.Fprintln(bw, "SECTION .data")
	for _, word := range obj.Data {
		fmt.Fprintln(bw, word.Hex())
	}

	fmt.Fprintln(bw, "EXPORTS")
	for _, name := range obj.Exports.Names() {
		addr, _ := obj.Exports.Address(name)
		if addr == nil {
			fmt.Fprintf(bw, "%s ????\n", name)
		} else {
			fmt.Fprintf(bw, "%s 0x%04X\n", name, *addr)
		}
	}

	fmt.Fprintln(bw, "RELOCATIONS")
	for _, r := range obj.Relocations {
		if r.Kind == RelocAbsWord {
			fmt.Fprintf(bw, "%s %s 0x%04X word16\n", r.Symbol, r.Section, r.WordIndex)
		} else {
			fmt.Fprintf(bw, "%s %s 0x%04X\n", r.Symbol, r.Section, r.WordIndex)
		}
	}

	fmt.Fprintln(bw, "EOF")

	return bw.Flush()
}

// ReadObject parses the textual format WriteObject produces. An
// unresolved export placeholder ("????") is rejected: a consumer
// linking against this object could never satisfy that export.
func ReadObject(r io.Reader) (*Object, error) {
	sc := bufio.NewScanner(r)
	obj := &Object{Exports: newExportTable(), Imports: newImportTable()}

	section := ""
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}

		switch {
		case line == "COFF":
			continue
		case line == "SECTION .text":
			section = ".text"
			continue
		case line == "SECTION .data":
			section = ".data"
			continue
		case line == "EXPORTS":
			section = "EXPORTS"
			continue
		case line == "RELOCATIONS":
			section = "RELOCATIONS"
			continue
		case line == "EOF":
			return obj, nil
		}

		switch section {
		case ".text":
			v, err := parseHexWord(line)
			if err != nil {
				return nil, fmt.Errorf("object: bad .text word %q: %w", line, err)
			}
			obj.Text = append(obj.Text, newWord(uint64(v), 16))

		case ".data":
			v, err := parseHexWord(line)
			if err != nil {
				return nil, fmt.Errorf("object: bad .data word %q: %w", line, err)
			}
			obj.Data = append(obj.Data, newWord(uint64(v), 16))

		case "EXPORTS":
			fields := strings.Fields(line)
			if len(fields) != 2 {
				return nil, fmt.Errorf("object: malformed export line %q", line)
			}
			name, addrText := fields[0], fields[1]
			obj.Exports.Declare(name)
			if addrText == "????" {
				return nil, fmt.Errorf("Undefined exported symbol %s", name)
			}
			v, err := parseHexWord(addrText)
			if err != nil {
				return nil, fmt.Errorf("object: bad export address %q: %w", addrText, err)
			}
			obj.Exports.Resolve(name, v)

		case "RELOCATIONS":
			fields := strings.Fields(line)
			if len(fields) != 3 && len(fields) != 4 {
				return nil, fmt.Errorf("object: malformed relocation line %q", line)
			}
			name, sec, idxText := fields[0], SectionName(fields[1]), fields[2]
			idx, err := strconv.ParseUint(strings.TrimPrefix(idxText, "0x"), 16, 32)
			if err != nil {
				return nil, fmt.Errorf("object: bad relocation index %q: %w", idxText, err)
			}
			kind := RelocLowByte
			if len(fields) == 4 && fields[3] == "word16" {
				kind = RelocAbsWord
			}
			obj.Imports.Declare(name)
			obj.Relocations = append(obj.Relocations, Relocation{
				Symbol:    name,
				Section:   sec,
				WordIndex: int(idx),
				Kind:      kind,
			})

		default:
			return nil, fmt.Errorf("object: line %q outside any known section", line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("object: missing EOF marker")
}

func parseHexWord(s string) (uint16, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "0x")
	s = strings.TrimPrefix(s, "0X")
	v, err := strconv.ParseUint(s, 16, 16)
	return uint16(v), err
}
