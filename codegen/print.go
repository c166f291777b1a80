package codegen

import (
	"kiln/types"

	"tinygo.org/x/go-llvm"
)

// Print renders a value to standard output through the printf helper.
// Numbers and strings print with their format global; booleans go through
// bool_to_str first. Void prints nothing; the return sentinel is never
// printed.
func (b *Builder) Print(v types.Value) error {
	printf, ok := b.LookupFunc(helperPrintf)
	if !ok {
		return types.NewError(types.ErrBackend, "printf helper not registered")
	}

	switch v.Kind() {
	case types.KindNumber32:
		b.Call(printf, []llvm.Value{b.fmtNum32, b.CurrentValue(v)}, "")
	case types.KindNumber64:
		b.Call(printf, []llvm.Value{b.fmtNum64, b.CurrentValue(v)}, "")
	case types.KindBool:
		boolToStr, ok := b.LookupFunc(helperBoolToStr)
		if !ok {
			return types.NewError(types.ErrBackend, "bool_to_str helper not registered")
		}
		str := b.Call(boolToStr, []llvm.Value{b.CurrentValue(v)}, "bool_str")
		b.Call(printf, []llvm.Value{b.fmtRaw, str}, "")
	case types.KindString:
		b.Call(printf, []llvm.Value{b.fmtStr, v.Ptr()}, "")
	case types.KindVoid, types.KindReturn:
		// Nothing to render
	default:
		return types.NewError(types.ErrUnsupportedOperator,
			"print not supported for %s", v.Kind())
	}
	return nil
}
