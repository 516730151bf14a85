package m430

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/gmofishsauce/m430/internal/asm"
)

var dumpCmd = &cobra.Command{
	Use:   "dump <file.asm|file.obj>",
	Short: "Print the host-facing tabular views: symbols, sections, exports, imports, listing",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}

		if strings.HasSuffix(path, ".obj") {
			obj, err := asm.ReadObject(strings.NewReader(string(data)))
			if err != nil {
				color.Red("dump: %v", err)
				return err
			}
			dumpExports(obj)
			dumpWords(".text", obj.Text)
			dumpWords(".data", obj.Data)
			return nil
		}

		res, err := asm.Assemble(string(data))
		if err != nil {
			color.Red("dump: %v", err)
			return err
		}
		dumpSymbols(res.Module)
		dumpSections(res.Module)
		dumpExports(res.Object)
		dumpImports(res.Module)
		dumpListing(string(data), res)
		return nil
	},
}

func header(title string) {
	color.New(color.Bold).Fprintln(os.Stdout, title)
}

func dumpSymbols(m *asm.Module) {
	header("SYMBOLS")
	names := make([]string, 0, len(m.Symbols))
	for name := range m.Symbols {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		sym := m.Symbols[name]
		fmt.Printf("%-16s %-6s 0x%04X\n", name, sym.Section, sym.Address)
	}
}

func dumpSections(m *asm.Module) {
	header("SECTIONS")
	order := []asm.SectionName{asm.SecText, asm.SecData, asm.SecBSS}
	for _, name := range order {
		sec, ok := m.Sections[name]
		if !ok {
			continue
		}
		fmt.Printf("%-6s base=0x%04X size=%d\n", sec.Name, sec.Base, sec.Size)
	}
}

func dumpExports(obj *asm.Object) {
	header("EXPORTS")
	for _, name := range obj.Exports.Names() {
		addr, _ := obj.Exports.Address(name)
		if addr == nil {
			fmt.Printf("%-16s ????\n", name)
		} else {
			fmt.Printf("%-16s 0x%04X\n", name, *addr)
		}
	}
}

func dumpImports(m *asm.Module) {
	header("IMPORTS")
	for _, name := range m.Imports.Names() {
		lines := m.Imports.Lines(name)
		fmt.Printf("%-16s lines=%v\n", name, lines)
	}
}

func dumpWords(title string, words []asm.Word) {
	header(title)
	for _, w := range words {
		fmt.Println(w.Hex())
	}
}

func dumpListing(src string, res *asm.Result) {
	header("LISTING")
	for _, row := range asm.Listing(src, res) {
		fmt.Println(row.String())
	}
}
