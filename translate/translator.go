// Package translate lowers MOVE and IF statements from the typed ast
// package into core-builder IR, one function at a time. It is the only
// package in this module that emits IR; everything upstream (parsing,
// symbol/data-manager construction) and downstream (machine code emission)
// is handled elsewhere.
package translate

import (
	"fmt"

	"github.com/arc-language/core-builder/builder"

	"github.com/arc-language/core-codegen-translate/internal/diag"
	"github.com/arc-language/core-codegen-translate/translate/ast"
	"github.com/arc-language/core-codegen-translate/translate/data"
	"github.com/arc-language/core-codegen-translate/translate/intrinsics"
)

// FuncTranslator translates one function body. Its caches (held by values)
// are scoped to a single function: construct a new FuncTranslator per
// function so no cached literal, pointer, or codegen constant leaks across
// function boundaries.
type FuncTranslator struct {
	b          *builder.Builder
	data       *data.Manager
	strings    ast.StringTable
	values     *valueLoader
	intrinsics *intrinsics.Registry
	externs    intrinsics.Resolver
}

// NewFuncTranslator builds a translator for one function. dm supplies both
// the ast.DataManager and ast.StringTable views of the same data manager;
// copy is the shared copy/compare intrinsic registry (safe to share across
// functions since it only caches *ir.Function declarations); externs
// resolves MoveSource.Intrinsic calls to their declared extern functions.
func NewFuncTranslator(b *builder.Builder, dm *data.Manager, copy *intrinsics.Registry, externs intrinsics.Resolver) *FuncTranslator {
	return &FuncTranslator{
		b:          b,
		data:       dm,
		strings:    dm,
		values:     newValueLoader(b, dm),
		intrinsics: copy,
		externs:    externs,
	}
}

// TranslateFunction lowers every statement in stats into the function
// currently being built at the builder's insert point. The returned bool
// reports whether the statement list already ends in a terminator (a
// StatTerminate, or an IF whose every reachable arm does) - callers that
// need the block to end in a return still need to emit one when this is
// false.
func (ft *FuncTranslator) TranslateFunction(stats []ast.Stat) (bool, error) {
	return ft.translateStats(stats)
}

// translateStats lowers a statement list into the current block, returning
// whether the list ends in a terminating statement. A statement found after
// one that already terminates is unreachable and rejected.
func (ft *FuncTranslator) translateStats(stats []ast.Stat) (bool, error) {
	terminated := false
	for i, stat := range stats {
		if terminated {
			return false, fmt.Errorf("unreachable statement at position %d", i)
		}
		var err error
		terminated, err = ft.translateStat(stat)
		if err != nil {
			return false, diag.Stat(i, err)
		}
	}
	return terminated, nil
}

// translateStat lowers a single statement, reporting whether it terminates
// the enclosing block.
func (ft *FuncTranslator) translateStat(stat ast.Stat) (bool, error) {
	switch stat.Kind {
	case ast.StatMove:
		return false, ft.translateMove(*stat.Move)
	case ast.StatIf:
		return ft.translateIf(*stat.If)
	case ast.StatTerminate:
		ft.b.CreateRet(nil)
		return true, nil
	default:
		return false, fmt.Errorf("unknown statement kind %d", stat.Kind)
	}
}
