package translate

import (
	"fmt"

	"github.com/arc-language/core-builder/builder"
	"github.com/arc-language/core-builder/ir"
	"github.com/arc-language/core-builder/types"

	"github.com/arc-language/core-codegen-translate/translate/ast"
	"github.com/arc-language/core-codegen-translate/translate/data"
)

// valueLoader resolves ast.Value and ast.Literal operands into IR values,
// memoizing each distinct operand once per function translation. Three
// independent caches exist because the same literal can be loaded as a
// source-language literal, as a codegen-internal literal (e.g. a span
// default length), or as the address of a variable/string - keys that never
// collide with each other in practice but are kept in separate maps so a
// stray collision can never silently reuse the wrong kind of value.
type valueLoader struct {
	b    *builder.Builder
	data *data.Manager

	litCache   map[litKey]ir.Value
	cgLitCache map[int64]ir.Value
	ptrCache   map[ast.DataID]ir.Value
}

// litKey distinguishes the three literal variants as a map key.
type litKey struct {
	kind ast.LitKind
	i    int64
	f    float64
	s    int
}

func newValueLoader(b *builder.Builder, dm *data.Manager) *valueLoader {
	return &valueLoader{
		b:          b,
		data:       dm,
		litCache:   make(map[litKey]ir.Value),
		cgLitCache: make(map[int64]ir.Value),
		ptrCache:   make(map[ast.DataID]ir.Value),
	}
}

func keyOf(lit ast.Literal) litKey {
	switch lit.Kind {
	case ast.LitInt:
		return litKey{kind: ast.LitInt, i: lit.IntVal}
	case ast.LitFloat:
		return litKey{kind: ast.LitFloat, f: lit.FloatVal}
	default:
		return litKey{kind: ast.LitString, s: lit.StringID}
	}
}

// loadLit loads a source-language literal, caching on (kind, value).
func (vl *valueLoader) loadLit(lit ast.Literal) (ir.Value, error) {
	k := keyOf(lit)
	if v, ok := vl.litCache[k]; ok {
		return v, nil
	}
	v, err := vl.materializeLit(lit)
	if err != nil {
		return nil, err
	}
	vl.litCache[k] = v
	return v, nil
}

func (vl *valueLoader) materializeLit(lit ast.Literal) (ir.Value, error) {
	switch lit.Kind {
	case ast.LitInt:
		return vl.b.ConstInt(types.I64, lit.IntVal), nil
	case ast.LitFloat:
		return vl.b.ConstFloat(types.F64, lit.FloatVal), nil
	case ast.LitString:
		id, err := vl.data.StrDataID(lit.StringID)
		if err != nil {
			return nil, err
		}
		return vl.loadStaticPtr(id)
	default:
		return nil, fmt.Errorf("unknown literal kind %d", lit.Kind)
	}
}

// loadCgLit loads a codegen-internal integer constant (never drawn from
// source), caching independently of loadLit so a source literal with the
// same numeric value never shares a slot with an internal one.
func (vl *valueLoader) loadCgLit(n int64) ir.Value {
	if v, ok := vl.cgLitCache[n]; ok {
		return v
	}
	v := vl.b.ConstInt(types.I64, n)
	vl.cgLitCache[n] = v
	return v
}

// b1Lit returns the i8 constant 1, used as the NOT combinator's xor mask -
// every boolean this package produces is an i8 of 0 or 1 (a comparison bit
// zero-extended to i8, or the strcmp helper's result), so xor-with-1 is a
// full logical negation.
func (vl *valueLoader) b1Lit() ir.Value {
	return vl.b.ConstInt(types.I8, 1)
}

// loadStaticPtr loads the address of a module-level global identified by
// id, caching on the DataID so repeated references within one function
// reuse a single pointer value.
func (vl *valueLoader) loadStaticPtr(id ast.DataID) (ir.Value, error) {
	if v, ok := vl.ptrCache[id]; ok {
		return v, nil
	}
	g, err := vl.data.GlobalFor(id)
	if err != nil {
		return nil, err
	}
	vl.ptrCache[id] = g
	return g, nil
}

// loadVar loads the address of variable sym's backing buffer.
func (vl *valueLoader) loadVar(sym string) (ir.Value, error) {
	id, err := vl.data.SymDataID(sym)
	if err != nil {
		return nil, err
	}
	return vl.loadStaticPtr(id)
}

// loadValue loads an ast.Value as a scalar (for int/float operands) or a
// pointer (for string operands/variables), matching whatever the value's
// static type actually is.
func (vl *valueLoader) loadValue(v ast.Value, dm ast.DataManager) (ir.Value, error) {
	switch v.Kind {
	case ast.ValLiteral:
		return vl.loadLit(v.Lit)
	case ast.ValVariable:
		pic, err := dm.SymPic(v.Sym)
		if err != nil {
			return nil, err
		}
		ptr, err := vl.loadVar(v.Sym)
		if err != nil {
			return nil, err
		}
		if pic.IsStr() {
			return ptr, nil
		}
		scalarTy := types.Type(types.I64)
		if pic.IsFloat() {
			scalarTy = types.F64
		}
		return vl.b.CreateLoad(scalarTy, ptr, v.Sym+"_val"), nil
	default:
		return nil, fmt.Errorf("unknown value kind %d", v.Kind)
	}
}
