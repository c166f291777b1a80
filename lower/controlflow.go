package lower

import (
	"kiln/ast"
	"kiln/trace"
	"kiln/types"
)

// lowerIf emits the diamond: then block, optional else block, merge block.
// Both branches are lowered before the conditional branch is emitted back in
// the originating block, and a branch whose final block already terminated
// (its body ended in a return) gets no edge to merge. The merge block is
// opened unconditionally, even when both branches return.
func (l *Lowerer) lowerIf(n *ast.IfStmt) (types.Value, error) {
	trace.Lower("if", "")
	entry := l.cg.Current().Block

	cond, err := l.Lower(n.Cond)
	if err != nil {
		return nil, err
	}
	if cond.Kind() != types.KindBool {
		return nil, types.NewError(types.ErrKindMismatch,
			"if condition must be bool, got %s", cond.Kind())
	}

	thenBlock := l.cg.CreateBlock("then_block")
	mergeBlock := l.cg.CreateBlock("merge_block")

	l.cg.SetBlock(thenBlock)
	if _, err := l.Lower(n.Then); err != nil {
		return nil, err
	}
	// A nested returning if leaves an open merge behind; branching it to
	// this merge keeps every block single-terminated
	thenEscapes := l.cg.BlockTerminated()
	if !thenEscapes {
		l.cg.Br(mergeBlock)
	}

	elseBlock := l.cg.CreateBlock("else_block")
	l.cg.SetBlock(elseBlock)
	elseEscapes := false
	if n.Else != nil {
		if _, err := l.Lower(n.Else); err != nil {
			return nil, err
		}
		elseEscapes = l.cg.BlockTerminated()
	}
	if !elseEscapes {
		l.cg.Br(mergeBlock)
	}

	// Condition branch goes in last, back where the condition was lowered
	l.cg.SetBlock(entry)
	cmp := l.cg.CurrentValue(cond)
	l.cg.CondBr(cmp, thenBlock, elseBlock)

	// Merge stays open even when both branches return: trailing statements
	// land here as well-formed unreachable code, and the function sealing
	// adds the terminator if nothing else does.
	l.cg.SetBlock(mergeBlock)
	if thenEscapes && elseEscapes {
		return types.ReturnValue{}, nil
	}
	return types.VoidValue{}, nil
}

// lowerWhile emits cond, body and exit blocks. The condition expression is
// lowered exactly once, up front in the originating block; each iteration
// re-reads the condition's storage cell rather than re-evaluating the
// expression, so the loop terminates only when the body mutates a variable
// the condition was loaded from.
func (l *Lowerer) lowerWhile(n *ast.WhileStmt) (types.Value, error) {
	trace.Lower("while", "")
	condBlock := l.cg.CreateBlock("loop_cond")
	bodyBlock := l.cg.CreateBlock("loop_body")
	exitBlock := l.cg.CreateBlock("loop_exit")

	// Scratch cell primed with the first condition value
	scratch := l.cg.AllocaBool("while_value_bool_var")
	cond, err := l.Lower(n.Cond)
	if err != nil {
		return nil, err
	}
	if cond.Kind() != types.KindBool {
		return nil, types.NewError(types.ErrKindMismatch,
			"while condition must be bool, got %s", cond.Kind())
	}
	l.cg.Store(l.cg.CurrentValue(cond), scratch)
	l.cg.Br(condBlock)

	l.cg.SetBlock(bodyBlock)
	if _, err := l.Lower(n.Body); err != nil {
		return nil, err
	}
	if !l.cg.BlockTerminated() {
		l.cg.Br(condBlock)
	}

	l.cg.SetBlock(condBlock)
	reload := l.cg.CurrentValue(cond)
	l.cg.CondBr(reload, bodyBlock, exitBlock)

	l.cg.SetBlock(exitBlock)
	return cond, nil
}

// lowerFor desugars the counted loop: materialize the induction variable,
// then emit cond, body and exit blocks. The compare direction is picked once
// from the sign of the literal step.
func (l *Lowerer) lowerFor(n *ast.ForStmt) (types.Value, error) {
	trace.Lower("for", n.Var)
	condBlock := l.cg.CreateBlock("loop_cond")
	bodyBlock := l.cg.CreateBlock("loop_body")
	exitBlock := l.cg.CreateBlock("loop_exit")

	iv := l.cg.MaterializeNumber32(n.Init)
	l.vars.Set(n.Var, iv, l.depth)
	l.cg.Br(condBlock)

	l.cg.SetBlock(condBlock)
	op := "<"
	if n.Step < 0 {
		op = ">"
	}
	cur := l.cg.CurrentValue(iv)
	cmp, err := l.cg.ICmpRaw(op, cur, l.cg.ConstInt32(n.Bound), "loop_cond_cmp")
	if err != nil {
		return nil, err
	}
	l.cg.CondBr(cmp, bodyBlock, exitBlock)

	l.cg.SetBlock(bodyBlock)
	bodyVal, err := l.Lower(n.Body)
	if err != nil {
		return nil, err
	}
	if !l.cg.BlockTerminated() {
		cur = l.cg.CurrentValue(iv)
		next := l.cg.AddRaw(cur, l.cg.ConstInt32(n.Step), "i")
		l.cg.Store(next, iv.Ptr())
		l.cg.Br(condBlock)
	}

	l.cg.SetBlock(exitBlock)
	return bodyVal, nil
}
