package translate_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arc-language/core-codegen-translate/translate/ast"
	"github.com/arc-language/core-codegen-translate/translate/data"
)

func TestTranslateConditionComparisonOperators(t *testing.T) {
	mgr, _, ft := setup(t)
	require.NoError(t, mgr.DeclareVar("R", data.NewIntPic()))

	cases := []string{
		`IF R = 1 THEN MOVE 1 TO R`,
		`IF R >= 1 THEN MOVE 1 TO R`,
		`IF R <= 1 THEN MOVE 1 TO R`,
		`IF R > 1 THEN MOVE 1 TO R`,
		`IF R < 1 THEN MOVE 1 TO R`,
	}
	for _, src := range cases {
		prog, err := ast.Parse(src)
		require.NoError(t, err)
		_, err = ft.TranslateFunction(prog.Stats)
		require.NoError(t, err, src)
	}
}

func TestTranslateConditionPromotesIntToFloat(t *testing.T) {
	mgr, _, ft := setup(t)
	require.NoError(t, mgr.DeclareVar("I", data.NewIntPic()))
	require.NoError(t, mgr.DeclareVar("F", data.NewFloatPic()))

	prog, err := ast.Parse(`IF I < F THEN MOVE 1 TO I`)
	require.NoError(t, err)
	_, err = ft.TranslateFunction(prog.Stats)
	require.NoError(t, err)
}

func TestTranslateStringEqualityRejectsIntLiteralIntoString(t *testing.T) {
	mgr, _, ft := setup(t)
	require.NoError(t, mgr.DeclareVar("A", data.NewStrPic(5)))
	mgr.InternString([]byte("HI"))

	prog, err := ast.Parse(`IF A = "HI" THEN MOVE 1 TO A`)
	require.NoError(t, err)
	_, err = ft.TranslateFunction(prog.Stats)
	require.Error(t, err) // MOVE 1 TO A: int literal into string PIC is rejected by VerifyLit
}

func TestTranslateStringEqualityValidBranch(t *testing.T) {
	mgr, _, ft := setup(t)
	require.NoError(t, mgr.DeclareVar("A", data.NewStrPic(5)))
	require.NoError(t, mgr.DeclareVar("R", data.NewIntPic()))
	mgr.InternString([]byte("HI"))

	prog, err := ast.Parse(`IF A = "HI" THEN MOVE 1 TO R ELSE MOVE 0 TO R`)
	require.NoError(t, err)
	_, err = ft.TranslateFunction(prog.Stats)
	require.NoError(t, err)
}

func TestTranslateRejectsOrderedStringComparison(t *testing.T) {
	mgr, _, ft := setup(t)
	require.NoError(t, mgr.DeclareVar("A", data.NewStrPic(5)))
	require.NoError(t, mgr.DeclareVar("R", data.NewIntPic()))
	mgr.InternString([]byte("HI"))

	prog, err := ast.Parse(`IF A > "HI" THEN MOVE 1 TO R`)
	require.NoError(t, err)
	_, err = ft.TranslateFunction(prog.Stats)
	require.Error(t, err)
}

func TestTranslateRejectsStringVsNonStringComparison(t *testing.T) {
	mgr, _, ft := setup(t)
	require.NoError(t, mgr.DeclareVar("A", data.NewStrPic(5)))
	require.NoError(t, mgr.DeclareVar("R", data.NewIntPic()))
	mgr.InternString([]byte("HI"))

	prog, err := ast.Parse(`IF A = R THEN MOVE 1 TO R`)
	require.NoError(t, err)
	_, err = ft.TranslateFunction(prog.Stats)
	require.Error(t, err)
}
