package data

import (
	"fmt"

	"github.com/arc-language/core-builder/builder"
	"github.com/arc-language/core-builder/ir"
	"github.com/arc-language/core-builder/types"

	"github.com/arc-language/core-codegen-translate/translate/ast"
)

// Manager owns the module-level static storage for one compilation: one
// global per declared variable, and one global per interned string literal.
// It implements ast.DataManager and ast.StringTable.
//
// Variables are module-level globals rather than stack allocas, mirroring
// how the source language's working-storage section maps onto static data
// in the original backend: a function never owns its working storage, the
// enclosing program does.
type Manager struct {
	b *builder.Builder

	pics     map[string]Pic
	byName   map[ast.DataID]*ir.Global
	strBytes [][]byte
}

// NewManager builds an empty Manager bound to b. DeclareVar must be called
// once per source variable, and InternString once per string literal, before
// translation begins.
func NewManager(b *builder.Builder) *Manager {
	return &Manager{
		b:      b,
		pics:   make(map[string]Pic),
		byName: make(map[ast.DataID]*ir.Global),
	}
}

// DeclareVar registers sym's PIC and allocates its backing global, zero
// initialized. Declaring the same symbol twice is a programmer error.
//
// String variables are declared as a byte array the size of their comp
// size, since spans and the copy intrinsics need byte-level addressing.
// Integer and float variables are declared as a bare scalar global, so
// ordinary loads/stores address them directly without an intervening cast.
func (m *Manager) DeclareVar(sym string, pic Pic) error {
	if _, exists := m.pics[sym]; exists {
		return fmt.Errorf("variable %s declared more than once", sym)
	}
	id := dataSymbolName(sym)
	g := m.b.CreateGlobal(id, varGlobalType(pic), nil)
	m.pics[sym] = pic
	m.byName[ast.DataID(id)] = g
	return nil
}

func varGlobalType(pic Pic) types.Type {
	switch pic.kind {
	case KindFloat:
		return types.F64
	case KindStr:
		return types.NewArray(types.I8, int64(pic.CompSize()))
	default:
		return types.I64
	}
}

// InternString registers the raw bytes of one string literal (without a NUL
// terminator - it is appended here) and returns its interned ID, the same ID
// the front end must embed in ast.Literal.StringID.
func (m *Manager) InternString(raw []byte) int {
	id := len(m.strBytes)
	m.strBytes = append(m.strBytes, raw)

	withNul := append(append([]byte{}, raw...), 0)
	elems := make([]ir.Constant, len(withNul))
	for i, by := range withNul {
		elems[i] = m.b.ConstInt(types.I8, int64(by))
	}
	arrayType := types.NewArray(types.I8, int64(len(withNul)))
	name := stringSymbolName(id)
	g := m.b.CreateGlobalConstant(name, &ir.ConstantArray{
		BaseValue: ir.BaseValue{ValType: arrayType},
		Elements:  elems,
	})
	m.byName[ast.DataID(name)] = g
	return id
}

// SymPic implements ast.DataManager.
func (m *Manager) SymPic(sym string) (ast.PIC, error) {
	pic, ok := m.pics[sym]
	if !ok {
		return nil, fmt.Errorf("undeclared variable %s", sym)
	}
	return pic, nil
}

// SymDataID implements ast.DataManager.
func (m *Manager) SymDataID(sym string) (ast.DataID, error) {
	if _, ok := m.pics[sym]; !ok {
		return "", fmt.Errorf("undeclared variable %s", sym)
	}
	return ast.DataID(dataSymbolName(sym)), nil
}

// StrDataID implements ast.DataManager.
func (m *Manager) StrDataID(stringID int) (ast.DataID, error) {
	if stringID < 0 || stringID >= len(m.strBytes) {
		return "", fmt.Errorf("unknown string literal id %d", stringID)
	}
	return ast.DataID(stringSymbolName(stringID)), nil
}

// Get implements ast.StringTable.
func (m *Manager) Get(id int) ([]byte, bool) {
	if id < 0 || id >= len(m.strBytes) {
		return nil, false
	}
	return m.strBytes[id], true
}

// GlobalFor resolves a DataID produced by SymDataID/StrDataID back to the
// *ir.Global backing it, for the value loader's pointer cache.
func (m *Manager) GlobalFor(id ast.DataID) (*ir.Global, error) {
	g, ok := m.byName[id]
	if !ok {
		return nil, fmt.Errorf("no global backs data id %s", id)
	}
	return g, nil
}

func dataSymbolName(sym string) string { return "var_" + sym }
func stringSymbolName(id int) string   { return fmt.Sprintf("str_%d", id) }
