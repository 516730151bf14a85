package asm

import (
	"strings"
	"unicode"
)

// ClassifyLine converts one raw source line into a Line, per the
// classification rules in spec §4.1. It is pure and stateless: it never
// consults or mutates assembler state, and never fails — unrecognized
// forms are forwarded as a best-effort Mnemonic line for pass 1/2 to
// reject with a proper diagnostic.
func ClassifyLine(raw string, lineNo int) Line {
	text := stripComment(raw)
	text = strings.TrimSpace(text)

	line := Line{LineNo: lineNo}

	if label, rest, ok := splitLabel(text); ok {
		line.Label = label
		text = strings.TrimSpace(rest)
	}

	if text == "" {
		line.Kind = KindBlank
		return line
	}

	switch {
	case hasDirectivePrefix(text, ".text"):
		line.Kind = KindSectionSwitch
		line.Directive = ".text"
		return line

	case hasDirectivePrefix(text, ".data"):
		line.Kind = KindSectionSwitch
		line.Directive = ".data"
		return line

	case hasDirectivePrefix(text, ".bss"):
		line.Kind = KindSectionSwitch
		line.Directive = ".bss"
		return line

	case hasKeywordPrefixFold(text, "ORG"):
		line.Kind = KindOrigin
		line.Directive = "ORG"
		rest := strings.TrimSpace(text[3:])
		line.Operands = []string{rest}
		return line

	case hasKeywordPrefixFold(text, ".def"):
		line.Kind = KindExport
		line.Operands = splitNames(text[4:])
		return line

	case hasKeywordPrefixFold(text, ".ref"):
		line.Kind = KindImport
		line.Operands = splitNames(text[4:])
		return line

	case hasDirectivePrefix(text, ".word"), hasDirectivePrefix(text, ".byte"), hasDirectivePrefix(text, ".space"):
		line.Kind = KindData
		if idx := strings.IndexAny(text, " \t"); idx < 0 {
			line.Directive = text
		} else {
			line.Directive = text[:idx]
		}
		line.Operands = splitNames(strings.TrimPrefix(text, line.Directive))
		return line

	default:
		line.Kind = KindMnemonic
		fields := strings.Fields(text)
		line.Mnemonic = strings.ToUpper(fields[0])
		rest := strings.TrimSpace(strings.TrimPrefix(text, fields[0]))
		if rest != "" {
			line.Operands = splitOperands(rest, 2)
		}
		return line
	}
}

// stripComment discards everything from the first unquoted semicolon
// onward.
func stripComment(raw string) string {
	inQuotes := false
	for i, c := range raw {
		switch c {
		case '"':
			inQuotes = !inQuotes
		case ';':
			if !inQuotes {
				return raw[:i]
			}
		}
	}
	return raw
}

func isIdentStart(c byte) bool {
	return unicode.IsLetter(rune(c)) || c == '_'
}

func isIdentChar(c byte) bool {
	return unicode.IsLetter(rune(c)) || unicode.IsDigit(rune(c)) || c == '_'
}

// splitLabel strips a leading "IDENT:" label, if present.
func splitLabel(text string) (label, rest string, ok bool) {
	if text == "" || !isIdentStart(text[0]) {
		return "", text, false
	}
	i := 1
	for i < len(text) && isIdentChar(text[i]) {
		i++
	}
	if i >= len(text) || text[i] != ':' {
		return "", text, false
	}
	return text[:i], text[i+1:], true
}

func hasDirectivePrefix(text, dir string) bool {
	if !strings.HasPrefix(text, dir) {
		return false
	}
	if len(text) == len(dir) {
		return true
	}
	c := text[len(dir)]
	return c == ' ' || c == '\t'
}

func hasKeywordPrefixFold(text, kw string) bool {
	if len(text) < len(kw) || !strings.EqualFold(text[:len(kw)], kw) {
		return false
	}
	if len(text) == len(kw) {
		return true
	}
	c := text[len(kw)]
	return c == ' ' || c == '\t'
}

// splitNames splits a comma- or whitespace-separated list of symbol
// names, trimming blanks.
func splitNames(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
	var out []string
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// splitOperands splits a comma-separated operand list, capped at max
// entries (extras are folded into the last operand — the classifier
// never fails, it only forwards what it sees).
func splitOperands(s string, max int) []string {
	parts := strings.SplitN(s, ",", max)
	var out []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
