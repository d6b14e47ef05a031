package translate_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arc-language/core-codegen-translate/translate/ast"
	"github.com/arc-language/core-codegen-translate/translate/data"
)

func TestTranslateMoveLiteralIntoSpannedDest(t *testing.T) {
	mgr, _, ft := setup(t)
	require.NoError(t, mgr.DeclareVar("A", data.NewStrPic(10)))
	mgr.InternString([]byte("HI"))

	prog, err := ast.Parse(`MOVE "HI" TO A(2:3)`)
	require.NoError(t, err)
	_, err = ft.TranslateFunction(prog.Stats)
	require.NoError(t, err)
}

func TestTranslateMoveLiteralIntoOpenSpannedDest(t *testing.T) {
	mgr, _, ft := setup(t)
	require.NoError(t, mgr.DeclareVar("A", data.NewStrPic(10)))
	mgr.InternString([]byte("HI"))

	prog, err := ast.Parse(`MOVE "HI" TO A(2:)`)
	require.NoError(t, err)
	_, err = ft.TranslateFunction(prog.Stats)
	require.NoError(t, err)
}

func TestTranslateMoveSingleCharLiteralIntoSingleCharDest(t *testing.T) {
	mgr, _, ft := setup(t)
	require.NoError(t, mgr.DeclareVar("C", data.NewStrPic(1)))
	mgr.InternString([]byte("X"))

	prog, err := ast.Parse(`MOVE "X" TO C`)
	require.NoError(t, err)
	_, err = ft.TranslateFunction(prog.Stats)
	require.NoError(t, err)
}

func TestTranslateMoveVarToVarWholeBuffer(t *testing.T) {
	mgr, _, ft := setup(t)
	require.NoError(t, mgr.DeclareVar("A", data.NewStrPic(5)))
	require.NoError(t, mgr.DeclareVar("B", data.NewStrPic(10)))

	prog, err := ast.Parse(`MOVE A TO B`)
	require.NoError(t, err)
	_, err = ft.TranslateFunction(prog.Stats)
	require.NoError(t, err)
}

func TestTranslateMoveVarToVarRejectsOverflow(t *testing.T) {
	mgr, _, ft := setup(t)
	require.NoError(t, mgr.DeclareVar("A", data.NewStrPic(10)))
	require.NoError(t, mgr.DeclareVar("B", data.NewStrPic(3)))

	prog, err := ast.Parse(`MOVE A TO B`)
	require.NoError(t, err)
	_, err = ft.TranslateFunction(prog.Stats)
	require.Error(t, err)
}

func TestTranslateMoveSpannedCharOptimization(t *testing.T) {
	mgr, _, ft := setup(t)
	require.NoError(t, mgr.DeclareVar("A", data.NewStrPic(10)))
	require.NoError(t, mgr.DeclareVar("C", data.NewStrPic(1)))

	prog, err := ast.Parse(`MOVE A(3:1) TO C`)
	require.NoError(t, err)
	_, err = ft.TranslateFunction(prog.Stats)
	require.NoError(t, err)
}

func TestTranslateMoveRejectsSpanOnIntegerPic(t *testing.T) {
	mgr, _, ft := setup(t)
	require.NoError(t, mgr.DeclareVar("R", data.NewIntPic()))
	require.NoError(t, mgr.DeclareVar("A", data.NewStrPic(5)))

	prog, err := ast.Parse(`MOVE R(1:1) TO A`)
	require.NoError(t, err)
	_, err = ft.TranslateFunction(prog.Stats)
	require.Error(t, err)
}

func TestTranslateMoveIntBetweenVars(t *testing.T) {
	mgr, _, ft := setup(t)
	require.NoError(t, mgr.DeclareVar("A", data.NewIntPic()))
	require.NoError(t, mgr.DeclareVar("B", data.NewIntPic()))

	prog, err := ast.Parse(`MOVE A TO B`)
	require.NoError(t, err)
	_, err = ft.TranslateFunction(prog.Stats)
	require.NoError(t, err)
}

func TestTranslateMoveFloatLiteral(t *testing.T) {
	mgr, _, ft := setup(t)
	require.NoError(t, mgr.DeclareVar("F", data.NewFloatPic()))

	prog, err := ast.Parse(`MOVE 3.14 TO F`)
	require.NoError(t, err)
	_, err = ft.TranslateFunction(prog.Stats)
	require.NoError(t, err)
}
