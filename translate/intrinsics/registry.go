// Package intrinsics declares and caches the small set of runtime helpers
// the Move and Condition translators call out to for string handling:
// strcmp, strcpy, and charcpy. The source language's arithmetic and integer
// moves never need them; only spanned/whole-string copies and string
// equality do.
//
// It also provides Resolver, the user-facing intrinsic registry: the
// program's extern runtime functions (MOVE sources that call out to a named
// helper instead of reading a literal or variable) are looked up through it
// rather than through Registry, which is reserved for the copy/compare
// helpers the translator itself emits.
package intrinsics

import (
	"fmt"

	"github.com/arc-language/core-builder/builder"
	"github.com/arc-language/core-builder/ir"
	"github.com/arc-language/core-builder/types"
)

// Resolver looks up a previously declared extern function by name. The Move
// translator calls it to resolve MoveSource.Intrinsic calls; it never
// declares functions on its own.
type Resolver interface {
	Resolve(name string) (*ir.Function, error)
}

// FuncTable is a Resolver backed by a fixed set of functions declared ahead
// of time, mirroring how the source language's CALL-able runtime helpers
// are fixed at compile time rather than discovered dynamically.
type FuncTable struct {
	b     *builder.Builder
	funcs map[string]*ir.Function
}

// NewFuncTable builds an empty FuncTable bound to b.
func NewFuncTable(b *builder.Builder) *FuncTable {
	return &FuncTable{b: b, funcs: make(map[string]*ir.Function)}
}

// Declare registers name as an extern function with the given signature and
// returns its handle. Declaring the same name twice is a programmer error.
func (ft *FuncTable) Declare(name string, ret types.Type, args []types.Type, variadic bool) (*ir.Function, error) {
	if _, exists := ft.funcs[name]; exists {
		return nil, fmt.Errorf("intrinsic %s declared more than once", name)
	}
	fn := ft.b.DeclareFunction(name, ret, args, variadic)
	ft.funcs[name] = fn
	return fn, nil
}

// Resolve implements Resolver.
func (ft *FuncTable) Resolve(name string) (*ir.Function, error) {
	fn, ok := ft.funcs[name]
	if !ok {
		return nil, fmt.Errorf("unknown intrinsic %s", name)
	}
	return fn, nil
}

// Registry declares the copy/compare intrinsics on demand and caches the
// resulting function handles, so repeated calls within one function (or
// across functions in one module) reuse a single declaration.
type Registry struct {
	b *builder.Builder

	strcmp  *ir.Function
	strcpy  *ir.Function
	charcpy *ir.Function
}

// NewRegistry builds a Registry that declares helpers on b's module as
// needed.
func NewRegistry(b *builder.Builder) *Registry {
	return &Registry{b: b}
}

// StrCmp returns the `i8 strcmp(i8* src, i8* other)` helper: src and other
// point at two NUL-terminated strings; the return value is 1 when they are
// equal and 0 otherwise.
func (r *Registry) StrCmp() *ir.Function {
	if r.strcmp == nil {
		r.strcmp = r.b.DeclareFunction("strcmp",
			types.I8,
			[]types.Type{types.NewPointer(types.I8), types.NewPointer(types.I8)},
			false,
		)
	}
	return r.strcmp
}

// StrCpy returns the spanned-copy helper:
//
//	void strcpy(i8* src, i8* dest, i64 src_len, i64 dest_len,
//	            i64 src_span_idx, i64 src_span_len,
//	            i64 dest_span_idx, i64 dest_span_len)
//
// src/dest are pointers to the full backing buffers; src_len/dest_len are
// their full comp sizes; the span arguments are 0-based start index and
// length already adjusted by the span loader (an absent span length is
// already resolved to an explicit count). This is the corrected signature: dest_len occupies its own
// argument slot distinct from src_span_len.
func (r *Registry) StrCpy() *ir.Function {
	if r.strcpy == nil {
		i64 := types.I64
		ptr := types.NewPointer(types.I8)
		r.strcpy = r.b.DeclareFunction("strcpy",
			types.Void,
			[]types.Type{ptr, ptr, i64, i64, i64, i64, i64, i64},
			false,
		)
	}
	return r.strcpy
}

// CharCpy returns the single-character copy helper:
//
//	void charcpy(i8* src, i8* dest, i64 src_offset, i64 dest_offset)
//
// used for the optimized one-character MOVE path: the destination is a
// 1-byte-payload string, and either no side is spanned or one side has a
// literal span length of 1.
func (r *Registry) CharCpy() *ir.Function {
	if r.charcpy == nil {
		i64 := types.I64
		ptr := types.NewPointer(types.I8)
		r.charcpy = r.b.DeclareFunction("charcpy",
			types.Void,
			[]types.Type{ptr, ptr, i64, i64},
			false,
		)
	}
	return r.charcpy
}
