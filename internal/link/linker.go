// Package link implements the static link editor: it merges assembled
// object modules, resolves each module's imports against the exports of
// every other module, and patches relocation sites.
package link

import (
	"fmt"
	"sort"

	"github.com/gmofishsauce/m430/internal/asm"
)

// LinkedModule is one input module after relocation.
type LinkedModule struct {
	Name   string
	Object *asm.Object
}

// Result is the outcome of a successful link: every module with its
// relocations applied, plus the global export address map used to
// apply them (handy for the `m430 dump` view of a linked program).
type Result struct {
	Modules []LinkedModule
	Exports map[string]uint16
}

// Link merges the given named object modules. Section bases are fixed
// per module — this subset never relocates a section, only the
// specific word a relocation names — so linking does not recompute
// addresses; it only resolves import names to the address the
// exporting module already assigned them, and patches the bytes a
// relocation record points at.
func Link(objects map[string]*asm.Object) (*Result, error) {
	exports, err := collectExports(objects)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(objects))
	for name := range objects {
		names = append(names, name)
	}
	sort.Strings(names)

	modules := make([]LinkedModule, 0, len(names))
	for _, name := range names {
		obj := objects[name]
		if err := relocate(obj, exports); err != nil {
			return nil, fmt.Errorf("module %s: %w", name, err)
		}
		modules = append(modules, LinkedModule{Name: name, Object: obj})
	}

	return &Result{Modules: modules, Exports: exports}, nil
}

// collectExports gathers every module's resolved exports into one
// global table, failing on a name exported by more than one module.
func collectExports(objects map[string]*asm.Object) (map[string]uint16, error) {
	exports := make(map[string]uint16)
	names := make([]string, 0, len(objects))
	for name := range objects {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		obj := objects[name]
		for _, sym := range obj.Exports.Names() {
			addr, ok := obj.Exports.Address(sym)
			if !ok || addr == nil {
				continue
			}
			if _, dup := exports[sym]; dup {
				return nil, fmt.Errorf("Duplicate export %s (module %s)", sym, name)
			}
			exports[sym] = *addr
		}
	}
	return exports, nil
}

// relocate patches every relocation site in obj using exports. An
// import with no matching export anywhere in the link set is a fatal
// error: the module cannot run without it.
func relocate(obj *asm.Object, exports map[string]uint16) error {
	for _, r := range obj.Relocations {
		addr, ok := exports[r.Symbol]
		if !ok {
			return fmt.Errorf("Unresolved extern: %s", r.Symbol)
		}

		words := obj.Text
		if r.Section == asm.SecData {
			words = obj.Data
		}
		if r.WordIndex < 0 || r.WordIndex >= len(words) {
			return fmt.Errorf("relocation for %q references word %d outside %s (%d words)", r.Symbol, r.WordIndex, r.Section, len(words))
		}

		switch r.Kind {
		case asm.RelocLowByte:
			patched := (words[r.WordIndex].Value() &^ 0xFF) | uint64(addr&0x00FF)
			words[r.WordIndex] = wordFromValue(patched)
		case asm.RelocAbsWord:
			words[r.WordIndex] = wordFromValue(uint64(addr))
		default:
			return fmt.Errorf("unknown relocation kind for %q", r.Symbol)
		}
	}
	return nil
}

// wordFromValue rebuilds a 16-bit Word from a patched numeric value.
// asm.Word exposes no public constructor, so the linker builds the same
// bit-string encoding asm.EncodeInstruction produces and sets the
// exported Bits field directly.
func wordFromValue(v uint64) asm.Word {
	bits := make([]byte, 16)
	for i := 15; i >= 0; i-- {
		if v&1 == 1 {
			bits[i] = '1'
		} else {
			bits[i] = '0'
		}
		v >>= 1
	}
	return asm.Word{Bits: string(bits)}
}
