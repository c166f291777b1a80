package types

import "tinygo.org/x/go-llvm"

// VoidValue is the absence of a value: the result of an empty block, a print
// statement passthrough, or a void call.
type VoidValue struct{}

// Kind returns the kind tag for void
func (v VoidValue) Kind() Kind {
	return KindVoid
}

// LLVM returns a nil value; void has no materialization
func (v VoidValue) LLVM() llvm.Value {
	return llvm.Value{}
}

// Ptr returns a nil value
func (v VoidValue) Ptr() llvm.Value {
	return llvm.Value{}
}

// ReturnValue is the sentinel signaling that the current branch terminated
// with an explicit return. It is never printed or stored; control-flow
// lowering consumes it to suppress branches out of terminated blocks.
type ReturnValue struct{}

// Kind returns the kind tag for the return sentinel
func (r ReturnValue) Kind() Kind {
	return KindReturn
}

// LLVM returns a nil value; the sentinel has no materialization
func (r ReturnValue) LLVM() llvm.Value {
	return llvm.Value{}
}

// Ptr returns a nil value
func (r ReturnValue) Ptr() llvm.Value {
	return llvm.Value{}
}
