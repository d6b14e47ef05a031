package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePicDecls(t *testing.T) {
	prog, err := Parse(`
PIC A STR 10
PIC R INT
PIC F FLOAT
`)
	require.NoError(t, err)
	require.Len(t, prog.PicDecls, 3)
	assert.Equal(t, PicDecl{Sym: "A", Kind: "STR", StrChars: 10}, prog.PicDecls[0])
	assert.Equal(t, PicDecl{Sym: "R", Kind: "INT"}, prog.PicDecls[1])
	assert.Equal(t, PicDecl{Sym: "F", Kind: "FLOAT"}, prog.PicDecls[2])
}

func TestParseMoveLiteral(t *testing.T) {
	prog, err := Parse(`MOVE "HI" TO A`)
	require.NoError(t, err)
	require.Len(t, prog.Stats, 1)
	stat := prog.Stats[0]
	require.Equal(t, StatMove, stat.Kind)
	assert.Equal(t, MoveSrcLiteral, stat.Move.Source.Kind)
	assert.Equal(t, LitString, stat.Move.Source.Lit.Kind)
	assert.Equal(t, "A", stat.Move.Dest.Sym)
	require.Len(t, prog.Strings, 1)
	assert.Equal(t, []byte("HI"), prog.Strings[0])
}

func TestParseMoveVarToVar(t *testing.T) {
	prog, err := Parse(`MOVE B TO A`)
	require.NoError(t, err)
	stat := prog.Stats[0]
	assert.Equal(t, MoveSrcRef, stat.Move.Source.Kind)
	assert.Equal(t, "B", stat.Move.Source.Ref.Sym)
}

func TestParseMoveWithSpan(t *testing.T) {
	prog, err := Parse(`MOVE "HI" TO A(2:3)`)
	require.NoError(t, err)
	dest := prog.Stats[0].Move.Dest
	require.NotNil(t, dest.Span)
	assert.Equal(t, ValLiteral, dest.Span.StartIdx.Kind)
	assert.Equal(t, int64(2), dest.Span.StartIdx.Lit.IntVal)
	require.NotNil(t, dest.Span.Len)
	assert.Equal(t, int64(3), dest.Span.Len.Lit.IntVal)
}

func TestParseMoveWithOpenSpan(t *testing.T) {
	prog, err := Parse(`MOVE "HI" TO A(2:)`)
	require.NoError(t, err)
	dest := prog.Stats[0].Move.Dest
	require.NotNil(t, dest.Span)
	assert.Nil(t, dest.Span.Len)
}

func TestParseIfThenElse(t *testing.T) {
	prog, err := Parse(`IF A = "HI" THEN MOVE 1 TO R ELSE MOVE 0 TO R`)
	require.NoError(t, err)
	require.Len(t, prog.Stats, 1)
	stat := prog.Stats[0]
	require.Equal(t, StatIf, stat.Kind)
	assert.Equal(t, CondEq, stat.If.Condition.Kind)
	require.Len(t, stat.If.IfStats, 1)
	require.Len(t, stat.If.ElseStats, 1)
}

func TestParseIfWithoutElse(t *testing.T) {
	prog, err := Parse(`IF R >= 10 THEN MOVE 0 TO R`)
	require.NoError(t, err)
	stat := prog.Stats[0]
	assert.Equal(t, CondGe, stat.If.Condition.Kind)
	assert.Empty(t, stat.If.ElseStats)
}

func TestParseIgnoresBlankAndCommentLines(t *testing.T) {
	prog, err := Parse("\n# a comment\nPIC A INT\n\n")
	require.NoError(t, err)
	require.Len(t, prog.PicDecls, 1)
}

func TestParseRejectsUnknownStatement(t *testing.T) {
	_, err := Parse(`FROB A`)
	require.Error(t, err)
}

func TestParseRejectsMoveWithoutTo(t *testing.T) {
	_, err := Parse(`MOVE "HI" A`)
	require.Error(t, err)
}

func TestParseRejectsIfWithoutThen(t *testing.T) {
	_, err := Parse(`IF A = B MOVE 1 TO R`)
	require.Error(t, err)
}
