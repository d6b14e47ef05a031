package translate

import (
	"fmt"

	"github.com/arc-language/core-builder/types"

	"github.com/arc-language/core-codegen-translate/translate/ast"
)

// translateIf lowers one IF statement. Unlike the Cranelift backend this
// package's logic is modeled on, core-builder's blocks need no explicit
// sealing - there is no deferred SSA parameter resolution to close off,
// since every MOVE/IF operand here is a load from or store to memory, never
// a register-promoted value threaded through a block parameter. What
// carries over is the surrounding discipline: wire the branch first, emit
// each arm into its own block, track whether an arm already ended in a
// terminator (translateStats reports this back for each arm) so a
// statement after it is rejected as unreachable, and only resume emitting
// into the trailing block once both arms are accounted for.
// translateIf returns whether the IF statement itself is terminating: true
// only when it has an else branch and both arms terminate, matching how
// translateStats treats it as an ordinary non-terminating statement
// otherwise (control always reaches the trailing block in every other
// case).
func (ft *FuncTranslator) translateIf(data ast.IfData) (bool, error) {
	// An IF with neither branch populated emits nothing - there is no block
	// graph to build. In this representation "present" and "non-empty" are
	// the same thing (a nil/zero-length slice is the only way to say
	// "absent"), so this check also stands in for the original's separate
	// assert that a present if_stats is never empty.
	if len(data.IfStats) == 0 && len(data.ElseStats) == 0 {
		return false, nil
	}

	cond, err := ft.translateCond(data.Condition)
	if err != nil {
		return false, err
	}
	condBool := ft.b.CreateICmpNE(cond, ft.b.ConstInt(types.I8, 0), "if_cond")

	ifBlock := ft.b.CreateBlock("if_then")
	var elseBlock = ifBlock
	hasElse := len(data.ElseStats) > 0
	if hasElse {
		elseBlock = ft.b.CreateBlock("if_else")
	}
	trailingBlock := ft.b.CreateBlock("if_end")

	if hasElse {
		ft.b.CreateCondBr(condBool, ifBlock, elseBlock)
	} else {
		ft.b.CreateCondBr(condBool, ifBlock, trailingBlock)
	}

	ft.b.SetInsertPoint(ifBlock)
	ifTerminates, err := ft.translateStats(data.IfStats)
	if err != nil {
		return false, fmt.Errorf("in if branch: %w", err)
	}
	if !ifTerminates {
		ft.b.CreateBr(trailingBlock)
	}

	elseTerminates := false
	if hasElse {
		ft.b.SetInsertPoint(elseBlock)
		elseTerminates, err = ft.translateStats(data.ElseStats)
		if err != nil {
			return false, fmt.Errorf("in else branch: %w", err)
		}
		if !elseTerminates {
			ft.b.CreateBr(trailingBlock)
		}
	}

	ft.b.SetInsertPoint(trailingBlock)
	bothTerminate := hasElse && ifTerminates && elseTerminates
	if bothTerminate {
		// trailingBlock has no predecessors in this case, but every block
		// still needs a terminator of its own.
		ft.b.CreateRet(nil)
	}
	return bothTerminate, nil
}
