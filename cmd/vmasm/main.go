// Command vmasm assembles vm8 source files into relocatable object
// files (§6.4 of the assembler specification: CLI surface is a thin
// boundary over the core assembler).
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/okvm/vm8/internal/asm/lexer"
	"github.com/okvm/vm8/internal/asm/macro"
	"github.com/okvm/vm8/internal/asm/parser"
	"github.com/okvm/vm8/internal/config"
	"github.com/okvm/vm8/internal/isa"
	"github.com/okvm/vm8/internal/logging"
	"github.com/okvm/vm8/internal/objfile"
	"github.com/okvm/vm8/internal/utils"
)

var (
	outputPath string
	cfg        *config.Config
	logger     *slog.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "vmasm",
	Short: "Assembler for the vm8 virtual machine",
}

func init() {
	cobra.OnInitialize(initRuntime)
	rootCmd.AddCommand(assembleCmd, dumpCmd, describeCmd)
	assembleCmd.Flags().StringVarP(&outputPath, "output", "o", "", "output object file path (default: input with .vmo extension)")
}

func initRuntime() {
	c, err := config.Load("")
	if err != nil {
		fmt.Fprintln(os.Stderr, "warning: loading config:", err)
		c = &config.Config{LogLevel: "info", ObjectExt: ".vmo"}
	}
	cfg = c

	var level slog.Level
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	var jsonWriter io.Writer
	if c.LogFile != "" {
		if f, err := os.OpenFile(c.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644); err == nil {
			jsonWriter = f
		}
	}

	logger = logging.New(logging.Options{Level: level, JSONWriter: jsonWriter})
}

var assembleCmd = &cobra.Command{
	Use:   "assemble INPUT",
	Short: "Assemble a source file into a relocatable object file",
	Args:  cobra.ExactArgs(1),
	RunE:  runAssemble,
}

func runAssemble(cmd *cobra.Command, args []string) error {
	input := args[0]
	src, err := os.ReadFile(input)
	if err != nil {
		return err
	}

	out := outputPath
	if out == "" {
		ext := cfg.ObjectExt
		if ext == "" {
			ext = ".vmo"
		}
		out = strings.TrimSuffix(input, filepath.Ext(input)) + ext
	}

	mod, err := assembleSource(string(src))
	if err != nil {
		logger.Error("assemble failed", "input", input, "error", err)
		return fmt.Errorf("assembling %s: %w", input, err)
	}

	objBytes := objfile.WriteObject(encodeText(mod.Instructions), mod.Data, toObjectSymbols(mod.Symbols), toObjectRelocs(mod.Relocs))
	if err := os.WriteFile(out, objBytes, 0o644); err != nil {
		return err
	}

	logger.Info("assembled", "input", input, "output", out,
		"instructions", len(mod.Instructions), "data_bytes", len(mod.Data), "symbols", len(mod.Symbols))
	return nil
}

// assembleSource runs the full C2->C3->C4 pipeline over one source file.
func assembleSource(src string) (*parser.Module, error) {
	expanded, err := macro.Expand(src)
	if err != nil {
		return nil, err
	}
	tokens, err := lexer.Lex(expanded)
	if err != nil {
		return nil, err
	}
	return parser.Parse(tokens)
}

func encodeText(instrs []isa.Instruction) []byte {
	buf := make([]byte, 0, len(instrs)*isa.InstructionSize)
	for _, in := range instrs {
		enc := in.Encode()
		buf = append(buf, enc[:]...)
	}
	return buf
}

func toObjectSymbols(syms []parser.Symbol) []objfile.Symbol {
	out := make([]objfile.Symbol, len(syms))
	for i, s := range syms {
		out[i] = objfile.Symbol{Name: s.Name, Section: s.Section, Value: s.Value, Global: s.Global}
	}
	return out
}

func toObjectRelocs(relocs []parser.Relocation) []objfile.Relocation {
	out := make([]objfile.Relocation, len(relocs))
	for i, r := range relocs {
		out[i] = objfile.Relocation{Section: r.Section, Type: uint16(r.Type), Offset: r.Offset, Name: r.Name}
	}
	return out
}

var dumpCmd = &cobra.Command{
	Use:   "dump FILE",
	Short: "Print a hex dump of an object or executable file",
	Args:  cobra.ExactArgs(1),
	RunE:  runDump,
}

func runDump(cmd *cobra.Command, args []string) error {
	path := args[0]
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	for off := 0; off < len(raw); off += 16 {
		end := off + 16
		if end > len(raw) {
			end = len(raw)
		}
		row := utils.Map(raw[off:end], func(b byte) string { return utils.FormatUintHex(uint64(b), 2) })
		fmt.Printf("%s  %s\n", utils.FormatUintHex(uint64(off), 8), utils.FormatSlice(row, " "))
	}

	printSymbolTable(path, raw)
	return nil
}

// printSymbolTable best-effort decodes raw as an object or executable
// container and, if it parses, lists its symbol table — a convenience
// for inspecting what a dump's raw bytes resolved to, skipped silently
// for inputs that are neither (e.g. a truncated or corrupt file, whose
// raw bytes the hex dump above has already shown).
func printSymbolTable(path string, raw []byte) {
	var symbols []objfile.Symbol
	if obj, err := objfile.ReadObject(path, raw); err == nil {
		symbols = obj.Symbols
	} else if obj, _, err := objfile.ReadExecutable(path, raw); err == nil {
		symbols = obj.Symbols
	} else {
		return
	}

	values := make(map[string]uint32, len(symbols))
	for _, s := range symbols {
		values[s.Name] = s.Value
	}

	fmt.Println("symbols:")
	for _, pair := range utils.ZipMap(values) {
		fmt.Println(" ", pair.String())
	}
}

var describeCmd = &cobra.Command{
	Use:   "describe",
	Short: "Print the instruction encoding layout and opcode table",
	RunE:  runDescribe,
}

func runDescribe(cmd *cobra.Command, args []string) error {
	layout := utils.AsciiFrame([]utils.AsciiFrameField{
		{Name: "op", Begin: 0, Width: 1},
		{Name: "rd", Begin: 1, Width: 1},
		{Name: "rs1", Begin: 2, Width: 1},
		{Name: "rs2", Begin: 3, Width: 1},
		{Name: "imm", Begin: 4, Width: 4},
	}, isa.InstructionSize, "byte", utils.AsciiFrameUnitLayout_LeftToRight, 2)
	fmt.Println(layout)

	for _, op := range isa.AllOpCodes() {
		fmt.Printf("  %3d (0b%s)  %-5s  %s\n", op, utils.FormatUintBinary(uint64(op), 8), op.Mnemonic(), op.Shape())
	}
	return nil
}
