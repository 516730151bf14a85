package asm

import "testing"

// These mirror known-good encodings for register-register, immediate,
// jump, and data forms, kept as a single table so related encodings
// stay grouped together.
func TestAssembleScenarios(t *testing.T) {
	tests := []struct {
		name      string
		src       string
		wantText  []string // hex words, in order
		wantData  []string
		textSize  int
		dataSize  int
	}{
		{
			name:     "implicit .text, register-register MOV",
			src:      "MOV R5, R4",
			wantText: []string{"0x4544"},
			textSize: 2,
		},
		{
			name:     "immediate MOV with extension word",
			src:      ".text\nMOV.W #0x1234, R4",
			wantText: []string{"0x4374", "0x1234"},
			textSize: 4,
		},
		{
			name:     "self-jump offset",
			src:      ".text\nL: JMP L",
			wantText: []string{"0x3FFF"},
			textSize: 2,
		},
		{
			name:     "data emission",
			src:      ".data\nval: .word 0x1234, 0x5678\n.byte 0xA, 1",
			wantData: []string{"0x1234", "0x5678", "0x0A", "0x01"},
			dataSize: 6,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Assemble(tt.src)
			if err != nil {
				t.Fatalf("Assemble: %v", err)
			}
			if tt.wantText != nil {
				assertHexWords(t, "text", res.Object.Text, tt.wantText)
				if sec := res.Module.Sections[SecText]; sec.Size != tt.textSize {
					t.Fatalf(".text size = %d, want %d", sec.Size, tt.textSize)
				}
			}
			if tt.wantData != nil {
				assertHexWords(t, "data", res.Object.Data, tt.wantData)
				if sec := res.Module.Sections[SecData]; sec.Size != tt.dataSize {
					t.Fatalf(".data size = %d, want %d", sec.Size, tt.dataSize)
				}
			}
		})
	}
}

func assertHexWords(t *testing.T, label string, words []Word, want []string) {
	t.Helper()
	if len(words) != len(want) {
		t.Fatalf("%s words = %d, want %d", label, len(words), len(want))
	}
	for i, w := range want {
		if words[i].Hex() != w {
			t.Fatalf("%s word[%d] = %s, want %s", label, i, words[i].Hex(), w)
		}
	}
}

func TestRedefinedLabelFails(t *testing.T) {
	_, err := Assemble("a: NOP\na: NOP\n")
	if err == nil {
		t.Fatal("expected redefinition error, got nil")
	}
}

func TestUndefinedJumpTargetFails(t *testing.T) {
	_, err := Assemble(".text\nJMP nowhere\n")
	if err == nil {
		t.Fatal("expected undefined label error, got nil")
	}
}

func TestSectionLocationResumesAcrossSwitches(t *testing.T) {
	src := ".text\nNOP\n.data\nv: .word 1\n.text\nsecond: NOP\n"
	res, err := Assemble(src)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	sym, ok := res.Module.Symbols["second"]
	if !ok {
		t.Fatal("second not defined")
	}
	if sym.Address != 0x0002 {
		t.Fatalf("second address = 0x%04X, want 0x0002 (location must resume, not reset)", sym.Address)
	}
}

func TestExportResolvedFromLabel(t *testing.T) {
	res, err := Assemble(".text\n.def entry\nentry: NOP\n")
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	addr, ok := res.Object.Exports.Address("entry")
	if !ok || addr == nil {
		t.Fatal("entry export not resolved")
	}
	if *addr != 0 {
		t.Fatalf("entry = 0x%04X, want 0x0000", *addr)
	}
}

func TestBSSSectionAndSpaceReservation(t *testing.T) {
	res, err := Assemble(".bss\nbuf: .space 4\n")
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	sym, ok := res.Module.Symbols["buf"]
	if !ok {
		t.Fatal("buf not defined")
	}
	if sym.Address != 0xE000 {
		t.Fatalf("buf address = 0x%04X, want 0xE000 (.bss default base)", sym.Address)
	}
	sec := res.Module.Sections[SecBSS]
	if sec.Size != 8 {
		t.Fatalf(".bss size = %d, want 8 (.space N reserves N words)", sec.Size)
	}
}

func TestLowercaseMnemonicAssembles(t *testing.T) {
	res, err := Assemble("mov r5, r4\n")
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	assertHexWords(t, "text", res.Object.Text, []string{"0x4544"})
}

func TestImmediateLabelAddressEncodedAsHex(t *testing.T) {
	// target's address (0xC000, .data's default base) must survive as
	// hex through label substitution, not be misread as decimal.
	res, err := Assemble(".data\ntarget: .word 0\n.text\nMOV #target, R4\n")
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	assertHexWords(t, "text", res.Object.Text, []string{"0x4374", "0xC000"})
}

func TestImportGeneratesRelocation(t *testing.T) {
	res, err := Assemble(".text\n.ref foo\nCALL foo\n")
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if len(res.Object.Relocations) != 1 {
		t.Fatalf("relocations = %d, want 1", len(res.Object.Relocations))
	}
	r := res.Object.Relocations[0]
	if r.Symbol != "foo" || r.Section != SecText || r.WordIndex != 0 || r.Kind != RelocLowByte {
		t.Fatalf("unexpected relocation: %+v", r)
	}
}
