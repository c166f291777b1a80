package codegen

import (
	"kiln/types"

	"tinygo.org/x/go-llvm"
)

// elementPtr computes the address of one list element: GEP [0, index].
// The index value is read through its slot so mutated loop variables index
// correctly. No bounds checking.
func (b *Builder) elementPtr(list types.ListValue, index types.Value) (llvm.Value, error) {
	if !index.Kind().Numeric() {
		return llvm.Value{}, types.NewError(types.ErrKindMismatch,
			"list index must be a number, got %s", index.Kind())
	}
	zero := llvm.ConstInt(b.ctx.Int64Type(), 0, false)
	idx := b.CurrentValue(index)
	return b.GEP(list.ArrType, list.Slot, []llvm.Value{zero, idx}, "access_array"), nil
}

// IndexLoad reads one element of a list.
// The returned value's slot is the element address, so read-modify-write
// through the result reaches the list itself.
func (b *Builder) IndexLoad(list types.ListValue, index types.Value) (types.Value, error) {
	ptr, err := b.elementPtr(list, index)
	if err != nil {
		return nil, err
	}
	loaded := b.Load(list.ElemType, ptr, "load_element")

	switch list.ElemKind {
	case types.KindNumber32:
		return types.NewNumber32("element", loaded, ptr), nil
	case types.KindNumber64:
		return types.NewNumber64("element", loaded, ptr), nil
	case types.KindBool:
		return types.NewBool("element", loaded, ptr), nil
	default:
		return nil, types.NewError(types.ErrKindMismatch,
			"cannot load %s list element", list.ElemKind)
	}
}

// IndexStore writes one element of a list
func (b *Builder) IndexStore(list types.ListValue, index, value types.Value) error {
	if value.Kind() != list.ElemKind {
		return types.NewError(types.ErrKindMismatch,
			"cannot store %s into a %s list", value.Kind(), list.ElemKind)
	}
	ptr, err := b.elementPtr(list, index)
	if err != nil {
		return err
	}
	b.Store(b.CurrentValue(value), ptr)
	return nil
}
