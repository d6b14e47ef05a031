package translate

import (
	"fmt"

	"github.com/arc-language/core-builder/ir"
	"github.com/arc-language/core-builder/types"

	"github.com/arc-language/core-codegen-translate/translate/ast"
)

// translateMove lowers one MOVE statement, dispatching on the kind of its
// source.
func (ft *FuncTranslator) translateMove(m ast.MoveData) error {
	switch m.Source.Kind {
	case ast.MoveSrcLiteral:
		return ft.translateMovLit(m.Source.Lit, m.Dest)
	case ast.MoveSrcRef:
		return ft.translateMovRef(*m.Source.Ref, m.Dest)
	case ast.MoveSrcIntrinsic:
		return ft.translateMoveIntrinsic(m.Source.Intrinsic, m.Dest)
	default:
		return fmt.Errorf("unknown move source kind %d", m.Source.Kind)
	}
}

// translateMovLit lowers MOVE <literal> TO <dest>.
func (ft *FuncTranslator) translateMovLit(lit ast.Literal, dest ast.MoveRef) error {
	destPic, err := ft.data.SymPic(dest.Sym)
	if err != nil {
		return err
	}
	if !destPic.VerifyLit(ft.strings, lit) {
		return fmt.Errorf("literal %s does not fit destination %s", lit, dest.Sym)
	}
	if err := dest.Validate(destPic, ft.data); err != nil {
		return err
	}

	singleChar := dest.HasStaticLengthOf(1) || (dest.Span == nil && destPic.CompSize() == 2)
	switch {
	case singleChar:
		return ft.translateMovLitChar(lit, dest, destPic)
	case dest.Span != nil:
		return ft.translateMovLitSpanned(lit, dest, destPic)
	default:
		return ft.translateMovLitWhole(lit, dest, destPic)
	}
}

// translateMovLitChar stores a single character literal directly, bypassing
// a full strcpy/memcpy call. Only legal when the literal is a string (the
// VerifyLit check above already guarantees that for a string destination).
func (ft *FuncTranslator) translateMovLitChar(lit ast.Literal, dest ast.MoveRef, destPic ast.PIC) error {
	raw, ok := ft.strings.Get(lit.StringID)
	if !ok {
		return fmt.Errorf("unknown string literal id %d", lit.StringID)
	}
	var ch byte
	if len(raw) > 0 {
		ch = raw[0]
	}

	destPtr, err := ft.values.loadVar(dest.Sym)
	if err != nil {
		return err
	}
	destOffset := ft.values.loadCgLit(0)
	if dest.Span != nil {
		span, err := ft.loadSpan(dest.Span, destPic.CompSize())
		if err != nil {
			return err
		}
		destOffset = span.start
	}
	elemPtr := ft.byteGEP(destPtr, destPic.CompSize(), destOffset, "dest_byte")
	ft.b.CreateStore(ft.b.ConstInt(types.I8, int64(ch)), elemPtr)
	return nil
}

// translateMovLitSpanned handles a literal source copied into a spanned
// destination, via the strcpy intrinsic.
func (ft *FuncTranslator) translateMovLitSpanned(lit ast.Literal, dest ast.MoveRef, destPic ast.PIC) error {
	raw, ok := ft.strings.Get(lit.StringID)
	if !ok {
		return fmt.Errorf("unknown string literal id %d", lit.StringID)
	}
	srcPtr, err := ft.values.loadLit(lit)
	if err != nil {
		return err
	}
	destPtr, err := ft.values.loadVar(dest.Sym)
	if err != nil {
		return err
	}
	destSpan, err := ft.loadSpan(dest.Span, destPic.CompSize())
	if err != nil {
		return err
	}

	srcLen := ft.values.loadCgLit(int64(len(raw) + 1))
	destLen := ft.values.loadCgLit(int64(destPic.CompSize()))
	srcSpanIdx := ft.values.loadCgLit(0)
	srcSpanLen := ft.values.loadCgLit(int64(len(raw)))

	fn := ft.intrinsics.StrCpy()
	ft.b.CreateCall(fn, []ir.Value{
		srcPtr, destPtr, srcLen, destLen,
		srcSpanIdx, srcSpanLen, destSpan.start, destSpan.len,
	}, "")
	return nil
}

// translateMovLitWhole copies a literal into an unspanned destination: an
// int/float literal is stored directly, a string literal (NUL included) is
// copied with a plain memcpy - VerifyLit already ensured the literal fits.
func (ft *FuncTranslator) translateMovLitWhole(lit ast.Literal, dest ast.MoveRef, destPic ast.PIC) error {
	if lit.Kind != ast.LitString {
		return ft.storeScalarLit(lit, dest)
	}
	raw, ok := ft.strings.Get(lit.StringID)
	if !ok {
		return fmt.Errorf("unknown string literal id %d", lit.StringID)
	}
	srcSize := len(raw) + 1
	if srcSize > destPic.CompSize() {
		return fmt.Errorf("literal %s does not fit destination %s", lit, dest.Sym)
	}
	srcPtr, err := ft.values.loadLit(lit)
	if err != nil {
		return err
	}
	destPtr, err := ft.values.loadVar(dest.Sym)
	if err != nil {
		return err
	}
	ft.b.CreateMemCpy(destPtr, srcPtr, ft.values.loadCgLit(int64(srcSize)))
	return nil
}

// storeScalarLit handles MOVE <int|float literal> TO <numeric dest>.
func (ft *FuncTranslator) storeScalarLit(lit ast.Literal, dest ast.MoveRef) error {
	v, err := ft.values.loadLit(lit)
	if err != nil {
		return err
	}
	destPtr, err := ft.values.loadVar(dest.Sym)
	if err != nil {
		return err
	}
	ft.b.CreateStore(v, destPtr)
	return nil
}

// translateMovRef lowers MOVE <var ref> TO <dest>, the variable-to-variable
// form, which is the only form that can carry a span on either side.
func (ft *FuncTranslator) translateMovRef(ref ast.MoveRef, dest ast.MoveRef) error {
	srcPic, err := ft.data.SymPic(ref.Sym)
	if err != nil {
		return err
	}
	destPic, err := ft.data.SymPic(dest.Sym)
	if err != nil {
		return err
	}
	if err := ref.Validate(srcPic, ft.data); err != nil {
		return err
	}
	if err := dest.Validate(destPic, ft.data); err != nil {
		return err
	}

	if ref.Span == nil && dest.Span == nil {
		return ft.translateMovRefUnspanned(ref, dest, srcPic, destPic)
	}
	if (ref.HasStaticLengthOf(1) || dest.HasStaticLengthOf(1)) && destPic.CompSize() == 2 {
		return ft.translateMovChar(ref, dest, srcPic, destPic)
	}
	return ft.translateMovRefSpanned(ref, dest, srcPic, destPic)
}

func (ft *FuncTranslator) translateMovRefUnspanned(ref, dest ast.MoveRef, srcPic, destPic ast.PIC) error {
	if !srcPic.FitsWithinComp(destPic) {
		return fmt.Errorf("%s does not fit within %s", ref.Sym, dest.Sym)
	}
	if !destPic.IsStr() {
		srcPtr, err := ft.values.loadVar(ref.Sym)
		if err != nil {
			return err
		}
		destPtr, err := ft.values.loadVar(dest.Sym)
		if err != nil {
			return err
		}
		scalarTy := types.Type(types.I64)
		if destPic.IsFloat() {
			scalarTy = types.F64
		}
		v := ft.b.CreateLoad(scalarTy, srcPtr, ref.Sym+"_val")
		ft.b.CreateStore(v, destPtr)
		return nil
	}
	// No spans on either side: a single-character destination still goes
	// through charcpy at zero offsets rather than a one-byte memcpy, the
	// same intrinsic a length-1 span into such a destination uses.
	if destPic.CompSize() == 2 {
		return ft.translateMovChar(ref, dest, srcPic, destPic)
	}
	srcPtr, err := ft.values.loadVar(ref.Sym)
	if err != nil {
		return err
	}
	destPtr, err := ft.values.loadVar(dest.Sym)
	if err != nil {
		return err
	}
	ft.b.CreateMemCpy(destPtr, srcPtr, ft.values.loadCgLit(int64(srcPic.CompSize())))
	return nil
}

// translateMovChar handles the optimized single-character copy path: either
// side may be spanned, but the copy always moves exactly one byte.
func (ft *FuncTranslator) translateMovChar(ref, dest ast.MoveRef, srcPic, destPic ast.PIC) error {
	srcOffset := ft.values.loadCgLit(0)
	if ref.Span != nil {
		span, err := ft.loadSpan(ref.Span, srcPic.CompSize())
		if err != nil {
			return err
		}
		srcOffset = span.start
	}
	destOffset := ft.values.loadCgLit(0)
	if dest.Span != nil {
		span, err := ft.loadSpan(dest.Span, destPic.CompSize())
		if err != nil {
			return err
		}
		destOffset = span.start
	}
	srcPtr, err := ft.values.loadVar(ref.Sym)
	if err != nil {
		return err
	}
	destPtr, err := ft.values.loadVar(dest.Sym)
	if err != nil {
		return err
	}
	fn := ft.intrinsics.CharCpy()
	ft.b.CreateCall(fn, []ir.Value{srcPtr, destPtr, srcOffset, destOffset}, "")
	return nil
}

// translateMovRefSpanned handles the general case where at least one side
// carries a span and the optimized single-character path does not apply.
func (ft *FuncTranslator) translateMovRefSpanned(ref, dest ast.MoveRef, srcPic, destPic ast.PIC) error {
	srcSpan, err := ft.spanOrWhole(ref.Span, srcPic.CompSize())
	if err != nil {
		return err
	}
	destSpan, err := ft.spanOrWhole(dest.Span, destPic.CompSize())
	if err != nil {
		return err
	}
	srcPtr, err := ft.values.loadVar(ref.Sym)
	if err != nil {
		return err
	}
	destPtr, err := ft.values.loadVar(dest.Sym)
	if err != nil {
		return err
	}
	fn := ft.intrinsics.StrCpy()
	ft.b.CreateCall(fn, []ir.Value{
		srcPtr, destPtr,
		ft.values.loadCgLit(int64(srcPic.CompSize())), ft.values.loadCgLit(int64(destPic.CompSize())),
		srcSpan.start, srcSpan.len, destSpan.start, destSpan.len,
	}, "")
	return nil
}

// spanOrWhole resolves span if present, or the implicit whole-buffer span
// (0-based offset 0, length compSize-1) when absent.
func (ft *FuncTranslator) spanOrWhole(span *ast.MoveSpan, compSize int) (loadedSpan, error) {
	if span != nil {
		return ft.loadSpan(span, compSize)
	}
	return loadedSpan{
		start: ft.values.loadCgLit(0),
		len:   ft.values.loadCgLit(int64(compSize - 1)),
	}, nil
}

// translateMoveIntrinsic lowers MOVE <intrinsic call> TO <dest>. String
// destinations are rejected: the copy intrinsics this package emits
// internally (strcpy/charcpy) are the only supported way to populate a
// string variable from a computed source.
func (ft *FuncTranslator) translateMoveIntrinsic(call *ast.IntrinsicCall, dest ast.MoveRef) error {
	destPic, err := ft.data.SymPic(dest.Sym)
	if err != nil {
		return err
	}
	if destPic.IsStr() {
		return fmt.Errorf("string copy intrinsics are currently unimplemented")
	}
	wantFloat := destPic.IsFloat()
	switch {
	case wantFloat && call.Returns != ast.RetFloat:
		return fmt.Errorf("intrinsic %s does not return a float for destination %s", call.Name, dest.Sym)
	case !wantFloat && call.Returns != ast.RetInt:
		return fmt.Errorf("intrinsic %s does not return an integer for destination %s", call.Name, dest.Sym)
	}

	args := make([]ir.Value, len(call.Args))
	for i, a := range call.Args {
		v, err := ft.values.loadValue(a, ft.data)
		if err != nil {
			return err
		}
		args[i] = v
	}
	fn, err := ft.externs.Resolve(call.Name)
	if err != nil {
		return err
	}
	result := ft.b.CreateCall(fn, args, call.Name+"_res")
	destPtr, err := ft.values.loadVar(dest.Sym)
	if err != nil {
		return err
	}
	ft.b.CreateStore(result, destPtr)
	return nil
}

// byteGEP computes the address of one byte at offset within a dest buffer
// declared as [arrLen x i8].
func (ft *FuncTranslator) byteGEP(ptr ir.Value, arrLen int, offset ir.Value, name string) ir.Value {
	arrayType := types.NewArray(types.I8, int64(arrLen))
	return ft.b.CreateGEP(arrayType, ptr, []ir.Value{ft.values.loadCgLit(0), offset}, name)
}
