package types

import "tinygo.org/x/go-llvm"

// Number32Value is a 32-bit signed integer.
// In mixed-width arithmetic the 32-bit side is sign-extended; a 64-bit value
// is never narrowed.
type Number32Value struct {
	Name string
	Val  llvm.Value
	Slot llvm.Value
}

// Kind returns the kind tag for 32-bit numbers
func (n Number32Value) Kind() Kind {
	return KindNumber32
}

// LLVM returns the materialized backend value
func (n Number32Value) LLVM() llvm.Value {
	return n.Val
}

// Ptr returns the stack slot holding the number
func (n Number32Value) Ptr() llvm.Value {
	return n.Slot
}

// NewNumber32 creates a stack-resident 32-bit number
func NewNumber32(name string, val, slot llvm.Value) Number32Value {
	return Number32Value{Name: name, Val: val, Slot: slot}
}

// Number64Value is a 64-bit signed integer
type Number64Value struct {
	Name string
	Val  llvm.Value
	Slot llvm.Value
}

// Kind returns the kind tag for 64-bit numbers
func (n Number64Value) Kind() Kind {
	return KindNumber64
}

// LLVM returns the materialized backend value
func (n Number64Value) LLVM() llvm.Value {
	return n.Val
}

// Ptr returns the stack slot holding the number
func (n Number64Value) Ptr() llvm.Value {
	return n.Slot
}

// NewNumber64 creates a stack-resident 64-bit number
func NewNumber64(name string, val, slot llvm.Value) Number64Value {
	return Number64Value{Name: name, Val: val, Slot: slot}
}
