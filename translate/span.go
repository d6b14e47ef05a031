package translate

import (
	"github.com/arc-language/core-builder/ir"

	"github.com/arc-language/core-codegen-translate/translate/ast"
)

// loadedSpan is a span resolved to 0-based IR values: start is the 0-based
// start offset into the buffer, length is the number of characters the span
// covers (never including the destination's trailing NUL).
type loadedSpan struct {
	start ir.Value
	len   ir.Value
}

// loadSpan resolves span against a variable whose PIC reports compSize
// (including its NUL terminator), producing 0-based start/length values.
// This is the only place the source language's 1-based indexing is adjusted
// to the 0-based offsets the copy intrinsics expect - every caller gets
// 0-based values and never repeats the adjustment itself.
//
// A nil length defaults to "from start to the end of the string, excluding
// the NUL terminator" - span.Len == nil in the AST represents exactly that.
func (ft *FuncTranslator) loadSpan(span *ast.MoveSpan, compSize int) (loadedSpan, error) {
	startRaw, err := ft.values.loadValue(span.StartIdx, ft.data)
	if err != nil {
		return loadedSpan{}, err
	}
	start := ft.b.CreateSub(startRaw, ft.values.loadCgLit(1), "span_start")

	if span.Len != nil {
		lenVal, err := ft.values.loadValue(*span.Len, ft.data)
		if err != nil {
			return loadedSpan{}, err
		}
		return loadedSpan{start: start, len: lenVal}, nil
	}

	// Default length: everything up to but not including the NUL terminator.
	lastUsable := ft.values.loadCgLit(int64(compSize - 1))
	length := ft.b.CreateSub(lastUsable, start, "span_len")
	return loadedSpan{start: start, len: length}, nil
}
