// Package loader reads a linked executable into a flat memory image.
// Per the out-of-scope boundary this toolchain draws around the virtual
// machine itself, it goes no further than copying bytes and translating
// the entry point — no instruction execution semantics live here.
package loader

import (
	"fmt"

	"github.com/okvm/vm8/internal/objfile"
)

// FileFormat tags what kind of input Load consumed. There is only one
// supported format today; the type exists so a caller's diagnostics
// read the same way the rest of the toolchain's do.
type FileFormat int

const (
	FormatUnknown FileFormat = iota
	FormatExecutable
)

func (f FileFormat) String() string {
	if f == FormatExecutable {
		return "executable"
	}
	return "unknown"
}

// Options configures where in the memory image the executable lands.
type Options struct {
	// BaseAddress is the byte offset within the returned Image at which
	// the executable's merged text section starts. Zero places it at the
	// very beginning of the image.
	BaseAddress uint32
}

// Result is a loaded program ready to be handed to a VM.
type Result struct {
	// Image is BaseAddress bytes of padding followed by the executable's
	// text then data sections, concatenated — a flat address space
	// matching the addresses baked into the executable's relocations.
	Image []byte

	// EntryPoint is BaseAddress plus the executable's recorded entry
	// address (0 if the executable defines no `main`).
	EntryPoint uint32

	Symbols      []objfile.Symbol
	OriginalPath string
	Format       FileFormat
}

// Load reads a .vmc executable's raw bytes and produces a memory image.
func Load(path string, raw []byte, opts *Options) (*Result, error) {
	if opts == nil {
		opts = &Options{}
	}

	obj, entry, err := objfile.ReadExecutable(path, raw)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}

	base := int(opts.BaseAddress)
	image := make([]byte, base+len(obj.Text)+len(obj.Data))
	copy(image[base:], obj.Text)
	copy(image[base+len(obj.Text):], obj.Data)

	return &Result{
		Image:        image,
		EntryPoint:   opts.BaseAddress + entry,
		Symbols:      obj.Symbols,
		OriginalPath: path,
		Format:       FormatExecutable,
	}, nil
}
