package translate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arc-language/core-codegen-translate/translate/ast"
	"github.com/arc-language/core-codegen-translate/translate/data"
)

func TestTranslateIfBothBranchesTerminate(t *testing.T) {
	_, fn, ft := setup(t)

	cond := ast.CmpCond(ast.CondEq, ast.Lit(ast.Literal{Kind: ast.LitInt, IntVal: 1}), ast.Lit(ast.Literal{Kind: ast.LitInt, IntVal: 1}))
	ifData := ast.IfData{
		Condition: cond,
		IfStats:   []ast.Stat{ast.TerminateStat()},
		ElseStats: []ast.Stat{ast.TerminateStat()},
	}

	terminated, err := ft.TranslateFunction([]ast.Stat{ast.IfStat(ifData)})
	require.NoError(t, err)
	assert.True(t, terminated)
	// entry, if_then, if_else, if_end
	assert.Len(t, fn.Blocks, 4)
}

func TestTranslateIfOneBranchTerminates(t *testing.T) {
	mgr, _, ft := setup(t)
	require.NoError(t, mgr.DeclareVar("R", data.NewIntPic()))

	cond := ast.CmpCond(ast.CondEq, ast.Lit(ast.Literal{Kind: ast.LitInt, IntVal: 1}), ast.Lit(ast.Literal{Kind: ast.LitInt, IntVal: 1}))
	move := ast.MoveStat(ast.MoveData{
		Source: ast.MoveSource{Kind: ast.MoveSrcLiteral, Lit: ast.Literal{Kind: ast.LitInt, IntVal: 0}},
		Dest:   ast.MoveRef{Sym: "R"},
	})
	ifData := ast.IfData{
		Condition: cond,
		IfStats:   []ast.Stat{ast.TerminateStat()},
		ElseStats: []ast.Stat{move},
	}

	terminated, err := ft.TranslateFunction([]ast.Stat{ast.IfStat(ifData)})
	require.NoError(t, err)
	assert.False(t, terminated)
}

func TestTranslateIfRejectsStatementAfterTerminate(t *testing.T) {
	mgr, _, ft := setup(t)
	require.NoError(t, mgr.DeclareVar("R", data.NewIntPic()))

	move := ast.MoveStat(ast.MoveData{
		Source: ast.MoveSource{Kind: ast.MoveSrcLiteral, Lit: ast.Literal{Kind: ast.LitInt, IntVal: 0}},
		Dest:   ast.MoveRef{Sym: "R"},
	})
	ifData := ast.IfData{
		Condition: ast.CmpCond(ast.CondEq, ast.Lit(ast.Literal{Kind: ast.LitInt, IntVal: 1}), ast.Lit(ast.Literal{Kind: ast.LitInt, IntVal: 1})),
		IfStats:   []ast.Stat{ast.TerminateStat(), move},
	}

	_, err := ft.TranslateFunction([]ast.Stat{ast.IfStat(ifData)})
	require.Error(t, err)
}

func TestTranslateNestedIf(t *testing.T) {
	mgr, _, ft := setup(t)
	require.NoError(t, mgr.DeclareVar("R", data.NewIntPic()))

	inner := ast.IfData{
		Condition: ast.CmpCond(ast.CondGt, ast.Var("R"), ast.Lit(ast.Literal{Kind: ast.LitInt, IntVal: 0})),
		IfStats: []ast.Stat{ast.MoveStat(ast.MoveData{
			Source: ast.MoveSource{Kind: ast.MoveSrcLiteral, Lit: ast.Literal{Kind: ast.LitInt, IntVal: 1}},
			Dest:   ast.MoveRef{Sym: "R"},
		})},
	}
	outer := ast.IfData{
		Condition: ast.CmpCond(ast.CondEq, ast.Var("R"), ast.Lit(ast.Literal{Kind: ast.LitInt, IntVal: 0})),
		IfStats:   []ast.Stat{ast.IfStat(inner)},
	}

	_, err := ft.TranslateFunction([]ast.Stat{ast.IfStat(outer)})
	require.NoError(t, err)
}
