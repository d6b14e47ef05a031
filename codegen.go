// Package codegen turns a backend-agnostic IR module into a linkable AMD64
// ELF object file. It is the last external collaborator FuncTranslator's
// output passes through: translate.FuncTranslator emits into an *ir.Module
// via core-builder, and GenerateObject is what a caller (cmd/cobaltgen) uses
// to get bytes it can hand to an external linker.
package codegen

import (
	"bytes"
	"fmt"

	"github.com/arc-language/core-builder/ir"
	"github.com/arc-language/core-codegen-translate/arch/amd64"
	"github.com/arc-language/core-codegen-translate/format/elf"
)

// GenerateObject compiles the module to an ELF object file (.o) for AMD64.
func GenerateObject(m *ir.Module) ([]byte, error) {
	// 1. Compile IR to machine code (architecture specific).
	artifact, err := amd64.Compile(m)
	if err != nil {
		return nil, fmt.Errorf("amd64 compilation failed: %w", err)
	}

	// 2. Wrap machine code in an ELF64 relocatable object file.
	f := elf.NewFile()

	textSec := f.AddSection(".text", elf.SHT_PROGBITS, elf.SHF_ALLOC|elf.SHF_EXECINSTR, artifact.TextBuffer)
	textSec.Addralign = 16

	var dataSec *elf.Section
	if len(artifact.DataBuffer) > 0 {
		dataSec = f.AddSection(".data", elf.SHT_PROGBITS, elf.SHF_WRITE|elf.SHF_ALLOC, artifact.DataBuffer)
		dataSec.Addralign = 8
	}

	f.AddSymbol(m.Name, elf.MakeSymbolInfo(elf.STB_LOCAL, elf.STT_FILE), nil, 0, 0)

	symbolMap := make(map[string]*elf.Symbol)
	if textSec != nil {
		symbolMap[".text"] = f.AddSymbol("", elf.MakeSymbolInfo(elf.STB_LOCAL, elf.STT_SECTION), textSec, 0, 0)
	}
	if dataSec != nil {
		symbolMap[".data"] = f.AddSymbol("", elf.MakeSymbolInfo(elf.STB_LOCAL, elf.STT_SECTION), dataSec, 0, 0)
	}

	for _, sym := range artifact.Symbols {
		var section *elf.Section
		var symType byte

		if sym.IsFunc {
			section = textSec
			symType = elf.STT_FUNC
		} else if sym.IsGlobal {
			section = dataSec
			symType = elf.STT_OBJECT
		}

		info := elf.MakeSymbolInfo(elf.STB_GLOBAL, symType)
		symbolMap[sym.Name] = f.AddSymbol(sym.Name, info, section, sym.Offset, sym.Size)
	}

	// 3. Emit relocations against runtime intrinsics and other undefined symbols.
	if len(artifact.Relocations) > 0 {
		relaBuf := new(bytes.Buffer)
		for _, rel := range artifact.Relocations {
			sym, ok := symbolMap[rel.SymbolName]
			if !ok {
				sym = f.AddSymbol(rel.SymbolName, elf.MakeSymbolInfo(elf.STB_GLOBAL, elf.STT_NOTYPE), nil, 0, 0)
				symbolMap[rel.SymbolName] = sym
			}

			symIdx := findSymbolIndex(f.Symbols, sym)
			writeRela(relaBuf, rel.Offset, uint32(symIdx), uint32(rel.Type), rel.Addend)
		}

		relaSec := f.AddSection(".rela.text", elf.SHT_RELA, elf.SHF_ALLOC, relaBuf.Bytes())
		relaSec.Link = uint32(len(f.Sections) - 1)
		relaSec.Info = uint32(textSec.Index)
		relaSec.Entsize = 24 // sizeof(Elf64_Rela)
		relaSec.Addralign = 8
	}

	// 4. Serialize to bytes.
	buf := new(bytes.Buffer)
	if err := f.WriteTo(buf); err != nil {
		return nil, fmt.Errorf("elf serialization failed: %w", err)
	}

	return buf.Bytes(), nil
}

// findSymbolIndex returns the ELF symbol-table index of target (1-based,
// since the null symbol always occupies index 0).
func findSymbolIndex(symbols []*elf.Symbol, target *elf.Symbol) int {
	for i, sym := range symbols {
		if sym == target {
			return i + 1
		}
	}
	return 0
}

// writeRela appends one Elf64_Rela entry to buf.
func writeRela(buf *bytes.Buffer, offset uint64, symIdx, relType uint32, addend int64) {
	rinfo := (uint64(symIdx) << 32) | uint64(relType)
	buf.Write(encodeUint64(offset))
	buf.Write(encodeUint64(rinfo))
	buf.Write(encodeInt64(addend))
}

func encodeUint64(v uint64) []byte {
	b := make([]byte, 8)
	for i := range b {
		b[i] = byte(v >> (8 * i))
	}
	return b
}

func encodeInt64(v int64) []byte {
	return encodeUint64(uint64(v))
}