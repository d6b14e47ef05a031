package translate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arc-language/core-builder/builder"
	"github.com/arc-language/core-builder/ir"
	"github.com/arc-language/core-builder/types"

	"github.com/arc-language/core-codegen-translate/translate"
	"github.com/arc-language/core-codegen-translate/translate/ast"
	"github.com/arc-language/core-codegen-translate/translate/data"
	"github.com/arc-language/core-codegen-translate/translate/intrinsics"
)

// setup builds a fresh module/function/entry block and returns everything a
// test needs to translate one statement list against it.
func setup(t *testing.T) (*data.Manager, *ir.Function, *translate.FuncTranslator) {
	t.Helper()
	b := builder.New()
	b.CreateModule("test_module")
	mgr := data.NewManager(b)
	fn := b.CreateFunction("test_fn", types.Void, nil, false)
	entry := b.CreateBlock("entry")
	b.SetInsertPoint(entry)

	copyIntrinsics := intrinsics.NewRegistry(b)
	externs := intrinsics.NewFuncTable(b)
	ft := translate.NewFuncTranslator(b, mgr, copyIntrinsics, externs)
	return mgr, fn, ft
}

func TestTranslateSimpleMove(t *testing.T) {
	mgr, _, ft := setup(t)
	require.NoError(t, mgr.DeclareVar("A", data.NewStrPic(10)))
	id := mgr.InternString([]byte("HI"))

	prog, err := ast.Parse(`MOVE "HI" TO A`)
	require.NoError(t, err)
	require.Equal(t, 0, id) // first interned string gets id 0, matching the parser's own id

	terminated, err := ft.TranslateFunction(prog.Stats)
	require.NoError(t, err)
	assert.False(t, terminated)
}

func TestTranslateMoveIntLiteral(t *testing.T) {
	mgr, _, ft := setup(t)
	require.NoError(t, mgr.DeclareVar("R", data.NewIntPic()))

	prog, err := ast.Parse(`MOVE 42 TO R`)
	require.NoError(t, err)

	_, err = ft.TranslateFunction(prog.Stats)
	require.NoError(t, err)
}

func TestTranslateMoveRejectsTypeMismatch(t *testing.T) {
	mgr, _, ft := setup(t)
	require.NoError(t, mgr.DeclareVar("R", data.NewIntPic()))

	prog, err := ast.Parse(`MOVE "HI" TO R`)
	require.NoError(t, err)
	_ = mgr.InternString([]byte("HI"))

	_, err = ft.TranslateFunction(prog.Stats)
	require.Error(t, err)
}

func TestTranslateIfThenElse(t *testing.T) {
	mgr, fn, ft := setup(t)
	require.NoError(t, mgr.DeclareVar("R", data.NewIntPic()))

	prog, err := ast.Parse(`IF R = 1 THEN MOVE 1 TO R ELSE MOVE 0 TO R`)
	require.NoError(t, err)

	terminated, err := ft.TranslateFunction(prog.Stats)
	require.NoError(t, err)
	assert.False(t, terminated)

	// entry, if_then, if_else, if_end
	assert.GreaterOrEqual(t, len(fn.Blocks), 4)
}

func TestTranslateIfWithoutElse(t *testing.T) {
	mgr, fn, ft := setup(t)
	require.NoError(t, mgr.DeclareVar("R", data.NewIntPic()))

	prog, err := ast.Parse(`IF R = 1 THEN MOVE 1 TO R`)
	require.NoError(t, err)

	_, err = ft.TranslateFunction(prog.Stats)
	require.NoError(t, err)

	// entry, if_then, if_end (no if_else block)
	assert.GreaterOrEqual(t, len(fn.Blocks), 3)
}

func TestTranslateRejectsUnreachableStatement(t *testing.T) {
	mgr, _, ft := setup(t)
	require.NoError(t, mgr.DeclareVar("R", data.NewIntPic()))

	terminate := ast.TerminateStat()
	move := ast.MoveStat(ast.MoveData{
		Source: ast.MoveSource{Kind: ast.MoveSrcLiteral, Lit: ast.Literal{Kind: ast.LitInt, IntVal: 1}},
		Dest:   ast.MoveRef{Sym: "R"},
	})

	_, err := ft.TranslateFunction([]ast.Stat{terminate, move})
	require.Error(t, err)
}
