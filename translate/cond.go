package translate

import (
	"fmt"

	"github.com/arc-language/core-builder/ir"
	"github.com/arc-language/core-builder/types"

	"github.com/arc-language/core-codegen-translate/translate/ast"
)

// translateCond lowers a condition tree to a single boolean IR value (an
// i8 of 0 or 1, the same representation every comparison and combinator
// below produces and consumes). verifyCond runs first so a malformed tree
// never reaches code emission.
func (ft *FuncTranslator) translateCond(c ast.Cond) (ir.Value, error) {
	if err := ft.verifyCond(c); err != nil {
		return nil, err
	}
	return ft.translateCondEval(c)
}

func (ft *FuncTranslator) translateCondEval(c ast.Cond) (ir.Value, error) {
	switch c.Kind {
	case ast.CondEq, ast.CondGe, ast.CondLe, ast.CondGt, ast.CondLt:
		return ft.translateCondComp(c.Kind, c.Left, c.Right)
	case ast.CondNot:
		return ft.translateCondNot(*c.Inner)
	case ast.CondAnd:
		return ft.translateCondAnd(*c.L, *c.R)
	case ast.CondOr:
		return ft.translateCondOr(*c.L, *c.R)
	default:
		return nil, fmt.Errorf("unknown condition kind %d", c.Kind)
	}
}

// verifyCond walks the tree checking shape before any emission: comparisons
// must compare operands of a jointly sensible type, and only equality is
// allowed between two strings.
func (ft *FuncTranslator) verifyCond(c ast.Cond) error {
	switch c.Kind {
	case ast.CondEq, ast.CondGe, ast.CondLe, ast.CondGt, ast.CondLt:
		lStr, err := c.Left.IsStr(ft.data)
		if err != nil {
			return err
		}
		rStr, err := c.Right.IsStr(ft.data)
		if err != nil {
			return err
		}
		if lStr != rStr {
			return fmt.Errorf("cannot compare a string operand against a non-string operand")
		}
		if lStr && c.Kind != ast.CondEq {
			return fmt.Errorf("only equality comparisons are supported between strings")
		}
		return nil
	case ast.CondNot:
		return ft.verifyCond(*c.Inner)
	case ast.CondAnd, ast.CondOr:
		if err := ft.verifyCond(*c.L); err != nil {
			return err
		}
		return ft.verifyCond(*c.R)
	default:
		return fmt.Errorf("unknown condition kind %d", c.Kind)
	}
}

func (ft *FuncTranslator) translateCondComp(kind ast.CondKind, left, right ast.Value) (ir.Value, error) {
	lStr, err := left.IsStr(ft.data)
	if err != nil {
		return nil, err
	}
	if lStr {
		return ft.translateStrCmp(left, right)
	}

	lFloat, err := left.IsFloat(ft.data)
	if err != nil {
		return nil, err
	}
	rFloat, err := right.IsFloat(ft.data)
	if err != nil {
		return nil, err
	}

	lVal, err := ft.values.loadValue(left, ft.data)
	if err != nil {
		return nil, err
	}
	rVal, err := ft.values.loadValue(right, ft.data)
	if err != nil {
		return nil, err
	}

	if lFloat || rFloat {
		if !lFloat {
			lVal = ft.b.CreateSIToFP(lVal, "lhs_f")
		}
		if !rFloat {
			rVal = ft.b.CreateSIToFP(rVal, "rhs_f")
		}
		return ft.floatCmp(kind, lVal, rVal)
	}
	return ft.intCmp(kind, lVal, rVal)
}

func (ft *FuncTranslator) intCmp(kind ast.CondKind, l, r ir.Value) (ir.Value, error) {
	var cmp ir.Value
	switch kind {
	case ast.CondEq:
		cmp = ft.b.CreateICmpEQ(l, r, "cmp")
	case ast.CondGe:
		cmp = ft.b.CreateICmpSGE(l, r, "cmp")
	case ast.CondLe:
		cmp = ft.b.CreateICmpSLE(l, r, "cmp")
	case ast.CondGt:
		cmp = ft.b.CreateICmpSGT(l, r, "cmp")
	case ast.CondLt:
		cmp = ft.b.CreateICmpSLT(l, r, "cmp")
	default:
		return nil, fmt.Errorf("unknown comparison kind %d", kind)
	}
	return ft.b.CreateZExt(cmp, types.I8, "cmp8"), nil
}

func (ft *FuncTranslator) floatCmp(kind ast.CondKind, l, r ir.Value) (ir.Value, error) {
	var cmp ir.Value
	switch kind {
	case ast.CondEq:
		cmp = ft.b.CreateFCmpEQ(l, r, "fcmp")
	case ast.CondGe:
		cmp = ft.b.CreateFCmpGE(l, r, "fcmp")
	case ast.CondLe:
		cmp = ft.b.CreateFCmpLE(l, r, "fcmp")
	case ast.CondGt:
		cmp = ft.b.CreateFCmpGT(l, r, "fcmp")
	case ast.CondLt:
		cmp = ft.b.CreateFCmpLT(l, r, "fcmp")
	default:
		return nil, fmt.Errorf("unknown comparison kind %d", kind)
	}
	return ft.b.CreateZExt(cmp, types.I8, "fcmp8"), nil
}

// translateStrCmp emits the strcmp intrinsic call. Only equality ever
// reaches here - verifyCond rejects ordered comparisons between strings.
func (ft *FuncTranslator) translateStrCmp(left, right ast.Value) (ir.Value, error) {
	lPtr, err := ft.values.loadValue(left, ft.data)
	if err != nil {
		return nil, err
	}
	rPtr, err := ft.values.loadValue(right, ft.data)
	if err != nil {
		return nil, err
	}
	fn := ft.intrinsics.StrCmp()
	return ft.b.CreateCall(fn, []ir.Value{lPtr, rPtr}, "strcmp_res"), nil
}

func (ft *FuncTranslator) translateCondNot(inner ast.Cond) (ir.Value, error) {
	v, err := ft.translateCondEval(inner)
	if err != nil {
		return nil, err
	}
	return ft.b.CreateXor(v, ft.values.b1Lit(), "cond_not"), nil
}

func (ft *FuncTranslator) translateCondAnd(l, r ast.Cond) (ir.Value, error) {
	lv, err := ft.translateCondEval(l)
	if err != nil {
		return nil, err
	}
	rv, err := ft.translateCondEval(r)
	if err != nil {
		return nil, err
	}
	return ft.b.CreateAnd(lv, rv, "cond_and"), nil
}

func (ft *FuncTranslator) translateCondOr(l, r ast.Cond) (ir.Value, error) {
	lv, err := ft.translateCondEval(l)
	if err != nil {
		return nil, err
	}
	rv, err := ft.translateCondEval(r)
	if err != nil {
		return nil, err
	}
	return ft.b.CreateOr(lv, rv, "cond_or"), nil
}
