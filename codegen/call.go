package codegen

import (
	"kiln/types"

	"tinygo.org/x/go-llvm"
)

// MaterializeParam spills one raw routine parameter to a stack slot and
// wraps it as a runtime value bound inside the routine body.
func (b *Builder) MaterializeParam(raw llvm.Value, kind types.Kind, name string) (types.Value, error) {
	switch kind {
	case types.KindNumber32, types.KindNumber64, types.KindBool:
		slot := b.AllocaStore(raw, b.kindType(kind), name)
		switch kind {
		case types.KindNumber32:
			return types.NewNumber32(name, raw, slot), nil
		case types.KindNumber64:
			return types.NewNumber64(name, raw, slot), nil
		default:
			return types.NewBool(name, raw, slot), nil
		}
	default:
		return nil, types.NewError(types.ErrKindMismatch,
			"parameter %s: kind %s not supported", name, kind)
	}
}

// WrapCallResult wraps a raw call result per the callee's declared return
// kind. Scalar results are stored to fresh slots; String and List have no
// call-result wrapper.
func (b *Builder) WrapCallResult(raw llvm.Value, retKind types.Kind) (types.Value, error) {
	switch retKind {
	case types.KindNumber32:
		slot := b.AllocaStore(raw, b.ctx.Int32Type(), "call_value")
		return types.NewNumber32("call_value", raw, slot), nil
	case types.KindNumber64:
		slot := b.AllocaStore(raw, b.ctx.Int64Type(), "call_value")
		return types.NewNumber64("call_value", raw, slot), nil
	case types.KindBool:
		slot := b.AllocaStore(raw, b.ctx.Int1Type(), "call_value")
		return types.NewBool("call_value", raw, slot), nil
	case types.KindVoid:
		return types.VoidValue{}, nil
	default:
		return nil, types.NewError(types.ErrUnsupportedReturnKind,
			"no call-result wrapper for %s", retKind)
	}
}

// ConstZero materializes the zero constant of a scalar kind, used for the
// implicit return of a non-void function body without a trailing return.
func (b *Builder) ConstZero(kind types.Kind) llvm.Value {
	return llvm.ConstInt(b.kindType(kind), 0, false)
}
