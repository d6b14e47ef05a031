package data

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/arc-language/core-codegen-translate/translate/ast"
)

type fakeStringTable map[int][]byte

func (f fakeStringTable) Get(id int) ([]byte, bool) {
	raw, ok := f[id]
	return raw, ok
}

func TestPicCompSize(t *testing.T) {
	assert.Equal(t, 8, NewIntPic().CompSize())
	assert.Equal(t, 8, NewFloatPic().CompSize())
	assert.Equal(t, 11, NewStrPic(10).CompSize())
}

func TestPicIsStrIsFloat(t *testing.T) {
	assert.True(t, NewStrPic(5).IsStr())
	assert.False(t, NewStrPic(5).IsFloat())
	assert.True(t, NewFloatPic().IsFloat())
	assert.False(t, NewFloatPic().IsStr())
	assert.False(t, NewIntPic().IsStr())
	assert.False(t, NewIntPic().IsFloat())
}

func TestVerifyLitStrictKindMatching(t *testing.T) {
	table := fakeStringTable{0: []byte("HI")}

	assert.True(t, NewIntPic().VerifyLit(table, ast.Literal{Kind: ast.LitInt, IntVal: 5}))
	assert.False(t, NewIntPic().VerifyLit(table, ast.Literal{Kind: ast.LitFloat, FloatVal: 5}))
	assert.False(t, NewIntPic().VerifyLit(table, ast.Literal{Kind: ast.LitString, StringID: 0}))

	assert.True(t, NewFloatPic().VerifyLit(table, ast.Literal{Kind: ast.LitFloat, FloatVal: 1.5}))
	assert.False(t, NewFloatPic().VerifyLit(table, ast.Literal{Kind: ast.LitInt, IntVal: 1}))

	assert.True(t, NewStrPic(2).VerifyLit(table, ast.Literal{Kind: ast.LitString, StringID: 0}))
	assert.False(t, NewStrPic(1).VerifyLit(table, ast.Literal{Kind: ast.LitString, StringID: 0}))
}

func TestVerifyLitUnknownStringID(t *testing.T) {
	table := fakeStringTable{}
	assert.False(t, NewStrPic(5).VerifyLit(table, ast.Literal{Kind: ast.LitString, StringID: 99}))
}

func TestFitsWithinComp(t *testing.T) {
	small := NewStrPic(2)
	large := NewStrPic(10)
	assert.True(t, small.FitsWithinComp(large))
	assert.False(t, large.FitsWithinComp(small))
	assert.True(t, small.FitsWithinComp(small))
}
