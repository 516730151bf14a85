package asm

import (
	"strings"
	"testing"
)

func TestObjectRoundTrip(t *testing.T) {
	res, err := Assemble(".text\n.def entry\nentry: NOP\n.ref foo\nCALL foo\n")
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}

	var sb strings.Builder
	if err := WriteObject(&sb, res.Object); err != nil {
		t.Fatalf("WriteObject: %v", err)
	}

	got, err := ReadObject(strings.NewReader(sb.String()))
	if err != nil {
		t.Fatalf("ReadObject: %v", err)
	}

	if len(got.Text) != len(res.Object.Text) {
		t.Fatalf("text words = %d, want %d", len(got.Text), len(res.Object.Text))
	}
	for i, w := range res.Object.Text {
		if got.Text[i].Hex() != w.Hex() {
			t.Fatalf("text[%d] = %s, want %s", i, got.Text[i].Hex(), w.Hex())
		}
	}

	addr, ok := got.Exports.Address("entry")
	if !ok || addr == nil || *addr != 0 {
		t.Fatalf("entry export not round-tripped: %v %v", ok, addr)
	}

	if len(got.Relocations) != 1 || got.Relocations[0].Symbol != "foo" {
		t.Fatalf("relocations not round-tripped: %+v", got.Relocations)
	}
}

func TestReadObjectRejectsUnresolvedExportPlaceholder(t *testing.T) {
	const src = "COFF\nSECTION .text\nSECTION .data\nEXPORTS\nfoo ????\nRELOCATIONS\nEOF\n"
	_, err := ReadObject(strings.NewReader(src))
	if err == nil {
		t.Fatal("expected an error for unresolved export placeholder ????")
	}
}

func TestReadObjectRequiresEOFMarker(t *testing.T) {
	const src = "COFF\nSECTION .text\nSECTION .data\nEXPORTS\nRELOCATIONS\n"
	_, err := ReadObject(strings.NewReader(src))
	if err == nil {
		t.Fatal("expected a missing-EOF error")
	}
}
