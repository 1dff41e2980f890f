package isa

// Section is the tag attached to a symbol or relocation saying which
// section it lives in. Undef marks external references recorded in an
// object's symbol table.
type Section uint16

const (
	SectionUndef Section = 0
	SectionText  Section = 1
	SectionData  Section = 2
)

func (s Section) String() string {
	switch s {
	case SectionText:
		return "text"
	case SectionData:
		return "data"
	default:
		return "undef"
	}
}
