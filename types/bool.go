package types

import "tinygo.org/x/go-llvm"

// BoolValue is a 1-bit integer.
// Equality is meaningful; ordering falls out of the integer compare.
type BoolValue struct {
	Name string
	Val  llvm.Value
	Slot llvm.Value
}

// Kind returns the kind tag for booleans
func (b BoolValue) Kind() Kind {
	return KindBool
}

// LLVM returns the materialized backend value
func (b BoolValue) LLVM() llvm.Value {
	return b.Val
}

// Ptr returns the stack slot holding the boolean
func (b BoolValue) Ptr() llvm.Value {
	return b.Slot
}

// NewBool creates a stack-resident boolean
func NewBool(name string, val, slot llvm.Value) BoolValue {
	return BoolValue{Name: name, Val: val, Slot: slot}
}
