package codegen

import (
	"strings"

	"kiln/types"

	"tinygo.org/x/go-llvm"
)

// Arithmetic lowers lhs <op> rhs for op in + - * /.
// Dispatch is by operand kind: string+string folds to a fresh constant at
// lowering time; numeric pairs load, widen and emit the instruction. Any
// other pairing is a kind mismatch.
func (b *Builder) Arithmetic(lhs, rhs types.Value, op string) (types.Value, error) {
	if lhs.Kind() == types.KindString && rhs.Kind() == types.KindString {
		if op != "+" {
			return nil, types.NewError(types.ErrUnsupportedOperator,
				"operator %s on strings", op)
		}
		ls := lhs.(types.StringValue)
		rs := rhs.(types.StringValue)
		// Concatenation happens at lowering time; embedded quote
		// characters are stripped from both operands.
		joined := strings.ReplaceAll(ls.Content+rs.Content, `"`, "")
		return b.MaterializeString(ls.Name, joined), nil
	}

	if !lhs.Kind().Numeric() || !rhs.Kind().Numeric() {
		return nil, types.NewError(types.ErrKindMismatch,
			"operator %s on %s and %s", op, lhs.Kind(), rhs.Kind())
	}

	lv := b.CurrentValue(lhs)
	rv := b.CurrentValue(rhs)
	lv = b.widen(lv, rv)
	rv = b.widen(rv, lv)

	var result llvm.Value
	switch op {
	case "+":
		result = b.builder.CreateAdd(lv, rv, "addNumberType")
	case "-":
		result = b.builder.CreateSub(lv, rv, "subNumberType")
	case "*":
		result = b.builder.CreateMul(lv, rv, "mulNumberType")
	case "/":
		// Division truncates toward zero
		result = b.builder.CreateSDiv(lv, rv, "divNumberType")
	default:
		return nil, types.NewError(types.ErrUnsupportedOperator, "operator %s", op)
	}

	if lhs.Kind() == types.KindNumber64 || rhs.Kind() == types.KindNumber64 {
		slot := b.AllocaStore(result, b.ctx.Int64Type(), "num64_result")
		return types.NewNumber64("num64_result", result, slot), nil
	}
	slot := b.AllocaStore(result, b.ctx.Int32Type(), "num32_result")
	return types.NewNumber32("num32_result", result, slot), nil
}

// Compare lowers lhs <op> rhs for op in == != < <= > >=, yielding a Bool.
// String equality is decided at lowering time by content comparison.
func (b *Builder) Compare(lhs, rhs types.Value, op string) (types.Value, error) {
	if lhs.Kind() == types.KindString && rhs.Kind() == types.KindString {
		ls := lhs.(types.StringValue)
		rs := rhs.(types.StringValue)
		var eq bool
		switch op {
		case "==":
			eq = ls.Content == rs.Content
		case "!=":
			eq = ls.Content != rs.Content
		default:
			return nil, types.NewError(types.ErrUnsupportedOperator,
				"operator %s on strings", op)
		}
		c := b.ConstBool(eq)
		slot := b.AllocaStore(c, b.ctx.Int1Type(), "bool_cmp")
		return types.NewBool("bool_cmp", c, slot), nil
	}

	numeric := lhs.Kind().Numeric() && rhs.Kind().Numeric()
	boolean := lhs.Kind() == types.KindBool && rhs.Kind() == types.KindBool
	if !numeric && !boolean {
		return nil, types.NewError(types.ErrKindMismatch,
			"operator %s on %s and %s", op, lhs.Kind(), rhs.Kind())
	}

	pred, ok := icmpPredicate(op)
	if !ok {
		return nil, types.NewError(types.ErrUnsupportedOperator, "operator %s", op)
	}

	lv := b.CurrentValue(lhs)
	rv := b.CurrentValue(rhs)
	lv = b.widen(lv, rv)
	rv = b.widen(rv, lv)

	cmp := b.builder.CreateICmp(pred, lv, rv, "result")
	slot := b.AllocaStore(cmp, b.ctx.Int1Type(), "bool_cmp")
	return types.NewBool("bool_cmp", cmp, slot), nil
}

func icmpPredicate(op string) (llvm.IntPredicate, bool) {
	switch op {
	case "==":
		return llvm.IntEQ, true
	case "!=":
		return llvm.IntNE, true
	case "<":
		return llvm.IntSLT, true
	case "<=":
		return llvm.IntSLE, true
	case ">":
		return llvm.IntSGT, true
	case ">=":
		return llvm.IntSGE, true
	default:
		return llvm.IntEQ, false
	}
}

// Assign overwrites dst with src in place. Kinds must match exactly.
// Scalars write through dst's stack slot so every copy of the binding
// observes the new contents; strings re-materialize, and the caller
// refreshes the binding with the returned value.
func (b *Builder) Assign(dst, src types.Value) (types.Value, error) {
	if dst.Kind() != src.Kind() {
		return nil, types.NewError(types.ErrKindMismatch,
			"cannot assign %s to %s", src.Kind(), dst.Kind())
	}

	switch dst.Kind() {
	case types.KindNumber32, types.KindNumber64, types.KindBool:
		ptr := dst.Ptr()
		if ptr.IsNil() {
			return nil, types.NewError(types.ErrBackend,
				"assign target %s has no storage", dst.Kind())
		}
		b.Store(b.CurrentValue(src), ptr)
		return dst, nil
	case types.KindString, types.KindList:
		// Immutable payloads: the new value replaces the binding
		return src, nil
	default:
		return nil, types.NewError(types.ErrKindMismatch,
			"%s values cannot be assigned", dst.Kind())
	}
}
