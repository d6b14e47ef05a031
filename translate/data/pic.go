// Package data provides the concrete PIC, string table, and data manager
// implementations the translator is exercised against, backed by a
// core-builder module.
package data

import (
	"github.com/arc-language/core-codegen-translate/translate/ast"
)

// Kind tags the storage family of a Pic.
type Kind int

const (
	KindInt Kind = iota
	KindFloat
	KindStr
)

// Pic is the concrete byte-layout description of one source-language symbol.
// Integers and floats are always 8 bytes (one machine word/double); strings
// carry their declared character capacity plus one byte for the trailing
// NUL, matching the fixed-format PIC clauses this compiler lowers.
type Pic struct {
	kind     Kind
	strChars int
}

// NewIntPic builds an integer PIC.
func NewIntPic() Pic { return Pic{kind: KindInt} }

// NewFloatPic builds a floating-point PIC.
func NewFloatPic() Pic { return Pic{kind: KindFloat} }

// NewStrPic builds a string PIC holding up to chars characters.
func NewStrPic(chars int) Pic { return Pic{kind: KindStr, strChars: chars} }

func (p Pic) IsStr() bool   { return p.kind == KindStr }
func (p Pic) IsFloat() bool { return p.kind == KindFloat }

// CompSize is the total byte footprint, including the string NUL terminator.
func (p Pic) CompSize() int {
	switch p.kind {
	case KindStr:
		return p.strChars + 1
	default:
		return 8
	}
}

// VerifyLit enforces strict kind matching: an int literal only fits an
// integer PIC, a float literal only a float PIC, and a string literal only a
// string PIC with enough room for its bytes plus the NUL terminator.
func (p Pic) VerifyLit(table ast.StringTable, lit ast.Literal) bool {
	switch lit.Kind {
	case ast.LitInt:
		return p.kind == KindInt
	case ast.LitFloat:
		return p.kind == KindFloat
	case ast.LitString:
		if p.kind != KindStr {
			return false
		}
		raw, ok := table.Get(lit.StringID)
		if !ok {
			return false
		}
		return len(raw)+1 <= p.CompSize()
	default:
		return false
	}
}

// FitsWithinComp reports whether a full-buffer copy from a variable with
// this PIC into a variable with dest's PIC stays in-bounds. The receiver is
// always the source of the copy.
func (p Pic) FitsWithinComp(dest ast.PIC) bool {
	return p.CompSize() <= dest.CompSize()
}
