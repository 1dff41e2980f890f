package parser

import (
	"errors"

	"github.com/okvm/vm8/internal/isa"
	"github.com/okvm/vm8/internal/utils"
)

// ErrDuplicateSymbol is the §7 "Symbol error (assembler)" sentinel.
var ErrDuplicateSymbol = errors.New("duplicate symbol definition")

// Symbol is one entry of an object file's symbol table (§3).
type Symbol struct {
	Name    string
	Section isa.Section
	Value   uint32
	Global  bool
}

// symtab keeps symbols in first-insertion order (so the emitted object
// file is deterministic, §8 invariant 7) while still allowing O(1)
// lookup by name. A symbol is inserted exactly once, either by `.global`
// (as an Undef placeholder, per the design note in §9 of the
// specification) or by its definition; later events upgrade the entry in
// place rather than inserting a second row.
type symtab struct {
	order []string
	byName map[string]*Symbol
}

func newSymtab() *symtab {
	return &symtab{byName: make(map[string]*Symbol)}
}

// declareGlobal registers name as a pending external reference if it is
// not already known; marks it global either way.
func (t *symtab) declareGlobal(name string) {
	if s, ok := t.byName[name]; ok {
		s.Global = true
		return
	}
	s := &Symbol{Name: name, Section: isa.SectionUndef, Global: false}
	s.Global = true
	t.order = append(t.order, name)
	t.byName[name] = s
}

// define records name's definition at (section, value). Re-defining an
// already-defined symbol is a hard error (§3 invariant: "Name uniqueness
// within a single object file"); upgrading a pending-global placeholder
// is not.
func (t *symtab) define(name string, section isa.Section, value uint32) error {
	if s, ok := t.byName[name]; ok {
		if s.Section != isa.SectionUndef {
			return utils.MakeError(ErrDuplicateSymbol, "%q redefined", name)
		}
		s.Section = section
		s.Value = value
		return nil
	}
	t.order = append(t.order, name)
	t.byName[name] = &Symbol{Name: name, Section: section, Value: value}
	return nil
}

// lookup returns the symbol registered under name, if any.
func (t *symtab) lookup(name string) (*Symbol, bool) {
	s, ok := t.byName[name]
	return s, ok
}

// symbols returns all registered symbols in insertion order.
func (t *symtab) symbols() []Symbol {
	out := make([]Symbol, len(t.order))
	for i, name := range t.order {
		out[i] = *t.byName[name]
	}
	return out
}
