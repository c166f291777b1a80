package types

import "tinygo.org/x/go-llvm"

// FuncValue holds a backend callable and its declared return kind.
// Calling lowers arguments in call order, emits the call, and wraps the raw
// result per the declared kind; String and List results have no wrapper and
// fail as UnsupportedReturnKind.
type FuncValue struct {
	Name    string
	Fn      llvm.Value
	FnType  llvm.Type
	RetKind Kind
}

// Kind returns the kind tag for functions
func (f FuncValue) Kind() Kind {
	return KindFunc
}

// LLVM returns the backend function handle
func (f FuncValue) LLVM() llvm.Value {
	return f.Fn
}

// Ptr returns a nil value; functions are not stack-resident
func (f FuncValue) Ptr() llvm.Value {
	return llvm.Value{}
}

// NewFunc creates a function value
func NewFunc(name string, fn llvm.Value, fnType llvm.Type, retKind Kind) FuncValue {
	return FuncValue{Name: name, Fn: fn, FnType: fnType, RetKind: retKind}
}
