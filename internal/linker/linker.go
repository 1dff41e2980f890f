// Package linker merges the object files produced by the assembler into
// a single linked executable image: laying out sections across inputs in
// command-line order, building a global symbol table with
// duplicate-detection and undefined-reference checking, and patching
// relocations into the merged text and data buffers (§4.6).
package linker

import (
	"errors"
	"strings"

	"github.com/okvm/vm8/internal/isa"
	"github.com/okvm/vm8/internal/objfile"
	"github.com/okvm/vm8/internal/utils"
	"github.com/okvm/vm8/internal/wire"
)

// Sentinels for the §7 "Link error" category.
var (
	ErrDuplicateSymbol      = errors.New("duplicate symbol definition")
	ErrUndefinedSymbol      = errors.New("undefined symbol")
	ErrUnsupportedRelocType = errors.New("unsupported relocation type")
	ErrRelocOutOfBounds     = errors.New("relocation write out of bounds")
)

// EntrySymbol is the name that, if defined, becomes the executable's
// entry point (§4.6).
const EntrySymbol = "main"

// Result is everything the executable writer needs.
type Result struct {
	Text    []byte
	Data    []byte
	Symbols []objfile.Symbol
	Entry   uint32
}

// global is one row of the merged symbol table, tracking which input
// object defined it so duplicate-definition errors can name both paths.
type global struct {
	Name    string
	Section isa.Section
	Addr    uint32
	DefPath string
}

// Link merges objs, which must already be in the intended command-line
// order — that order is an observable contract (§5): it determines
// section layout, all absolute addresses and the entry point.
func Link(objs []*objfile.Object) (*Result, error) {
	textBase, dataBase, totalText, totalData := layout(objs)

	table, order, err := buildGlobalTable(objs, textBase, dataBase)
	if err != nil {
		return nil, err
	}

	if err := checkUndefined(objs, table); err != nil {
		return nil, err
	}

	text := make([]byte, 0, totalText)
	data := make([]byte, 0, totalData)
	for _, o := range objs {
		text = append(text, o.Text...)
	}
	for _, o := range objs {
		data = append(data, o.Data...)
	}

	if err := applyRelocations(objs, textBase, dataBase, totalText, text, data, table); err != nil {
		return nil, err
	}

	entry := uint32(0)
	if g, ok := table[EntrySymbol]; ok {
		entry = g.Addr
	}

	symbols := make([]objfile.Symbol, 0, len(order))
	for _, name := range order {
		g := table[name]
		section := isa.SectionText
		if g.Addr >= totalText {
			section = isa.SectionData
		}
		symbols = append(symbols, objfile.Symbol{Name: g.Name, Section: section, Value: g.Addr, Global: true})
	}

	return &Result{Text: text, Data: data, Symbols: symbols, Entry: entry}, nil
}

// layout computes each input's base offset within the merged text and
// data buffers (§4.6: "Text bases... Data bases follow all text").
func layout(objs []*objfile.Object) (textBase, dataBase []uint32, totalText, totalData uint32) {
	textBase = make([]uint32, len(objs))
	dataBase = make([]uint32, len(objs))

	running := uint32(0)
	for i, o := range objs {
		textBase[i] = running
		running += uint32(len(o.Text))
	}
	totalText = running

	running = totalText
	for i, o := range objs {
		dataBase[i] = running
		running += uint32(len(o.Data))
	}
	totalData = running - totalText

	return textBase, dataBase, totalText, totalData
}

func buildGlobalTable(objs []*objfile.Object, textBase, dataBase []uint32) (map[string]*global, []string, error) {
	table := make(map[string]*global)
	var order []string

	for i, o := range objs {
		for _, s := range o.Symbols {
			if s.Section == isa.SectionUndef {
				continue
			}
			base := textBase[i]
			if s.Section == isa.SectionData {
				base = dataBase[i]
			}
			addr := base + s.Value

			if existing, ok := table[s.Name]; ok {
				return nil, nil, utils.MakeError(ErrDuplicateSymbol, "%q defined in both %s and %s", s.Name, existing.DefPath, o.Path)
			}
			table[s.Name] = &global{Name: s.Name, Section: s.Section, Addr: addr, DefPath: o.Path}
			order = append(order, s.Name)
		}
	}

	return table, order, nil
}

// checkUndefined gathers every name referenced as a relocation target
// or as an Undef symbol and verifies each resolves in table (§4.6).
func checkUndefined(objs []*objfile.Object, table map[string]*global) error {
	seen := make(map[string]bool)
	var missing []string

	note := func(name string) {
		if seen[name] {
			return
		}
		seen[name] = true
		if _, ok := table[name]; !ok {
			missing = append(missing, name)
		}
	}

	for _, o := range objs {
		for _, r := range o.Relocs {
			note(r.Name)
		}
		for _, s := range o.Symbols {
			if s.Section == isa.SectionUndef {
				note(s.Name)
			}
		}
	}

	if len(missing) > 0 {
		return utils.MakeError(ErrUndefinedSymbol, "%s", strings.Join(missing, ", "))
	}
	return nil
}

func applyRelocations(objs []*objfile.Object, textBase, dataBase []uint32, totalText uint32, text, data []byte, table map[string]*global) error {
	for i, o := range objs {
		for _, r := range o.Relocs {
			var buf []byte
			var base uint32
			switch r.Section {
			case isa.SectionText:
				buf, base = text, textBase[i]
			case isa.SectionData:
				// dataBase is absolute in the merged address space (it
				// starts at totalText), but data is a standalone buffer
				// indexed from 0, so the write offset must be relative
				// to the data section, not the merged image.
				buf, base = data, dataBase[i]-totalText
			}

			writeOff := base + r.Offset
			if uint64(writeOff)+4 > uint64(len(buf)) {
				return utils.MakeError(ErrRelocOutOfBounds, "%s: %s reloc at offset %d exceeds %d-byte section", o.Path, r.Section, r.Offset, len(buf))
			}

			if r.Type != 0 {
				return utils.MakeError(ErrUnsupportedRelocType, "%s: type %d for %q", o.Path, r.Type, r.Name)
			}

			g := table[r.Name] // presence already guaranteed by checkUndefined
			wire.PutU32At(buf, int(writeOff), g.Addr)
		}
	}
	return nil
}
